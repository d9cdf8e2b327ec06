package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"softraster/internal/mesh"
	"softraster/internal/shaders"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownShader is returned by Validate for a shader name that is not
	// registered.
	ErrUnknownShader = errors.New("unknown shader")
	// ErrInvalid wraps every other validation failure.
	ErrInvalid = errors.New("invalid config")
)

// Formats lists the supported output encodings. JPEG drops alpha.
var Formats = []string{"webp", "png", "jpeg"}

// Config holds the scene description and render settings.
type Config struct {
	// Scene
	Mesh       string     `json:"mesh" yaml:"mesh"`       // built-in name or .obj path
	Texture    string     `json:"texture" yaml:"texture"` // image path, "checker" or empty
	TextureDir string     `json:"texture_dir" yaml:"texture_dir"`
	Shader     string     `json:"shader" yaml:"shader"`
	Color      [4]float64 `json:"color" yaml:"color"`
	Background [4]float64 `json:"background" yaml:"background"`
	Wireframe  bool       `json:"wireframe" yaml:"wireframe"`
	Bilinear   bool       `json:"bilinear" yaml:"bilinear"`
	Rotation   [3]float64 `json:"rotation" yaml:"rotation"` // model Euler angles, degrees
	Scale      float64    `json:"scale" yaml:"scale"`

	// Camera
	FOV       float64 `json:"fov" yaml:"fov"` // degrees
	Distance  float64 `json:"distance" yaml:"distance"`
	Elevation float64 `json:"elevation" yaml:"elevation"` // degrees
	Yaw       float64 `json:"yaw" yaml:"yaw"`             // start angle, degrees

	Light *Light `json:"light,omitempty" yaml:"light,omitempty"`

	// Output
	OutputDir string  `json:"output_dir" yaml:"output_dir"`
	Name      string  `json:"name" yaml:"name"`
	Format    string  `json:"format" yaml:"format"`
	Fit       bool    `json:"fit" yaml:"fit"`
	FillRatio float64 `json:"fill_ratio" yaml:"fill_ratio"`
	Despeckle float64 `json:"despeckle" yaml:"despeckle"`
	Animate   bool    `json:"animate" yaml:"animate"`   // also write an animated WebP of all frames
	FrameMS   int     `json:"frame_ms" yaml:"frame_ms"` // animation frame duration

	// Render settings
	RenderSize  int `json:"render_size" yaml:"render_size"`
	Supersample int `json:"supersample" yaml:"supersample"`
	Frames      int `json:"frames" yaml:"frames"`
	Quality     int `json:"quality" yaml:"quality"`
	Workers     int `json:"workers" yaml:"workers"`
}

// Light overrides the default light. Zero fields keep the default.
type Light struct {
	Dir       [3]float64 `json:"dir" yaml:"dir"`
	Ambient   float64    `json:"ambient" yaml:"ambient"`
	Diffuse   float64    `json:"diffuse" yaml:"diffuse"`
	Specular  float64    `json:"specular" yaml:"specular"`
	Shininess float64    `json:"shininess" yaml:"shininess"`
	Exposure  float64    `json:"exposure" yaml:"exposure"`
}

// Load reads a config file: YAML for .yaml/.yml, JSON otherwise.
// Fields not set in the file keep their zero values. Relative paths in the
// file are resolved against the file's directory.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if strings.EqualFold(filepath.Ext(cfg.Mesh), ".obj") {
		cfg.Mesh = relTo(dir, cfg.Mesh)
	}
	if cfg.Texture != "" && cfg.Texture != "checker" {
		cfg.Texture = relTo(dir, cfg.Texture)
	}
	if cfg.TextureDir != "" {
		cfg.TextureDir = relTo(dir, cfg.TextureDir)
	}
	if cfg.OutputDir != "" {
		cfg.OutputDir = relTo(dir, cfg.OutputDir)
	}
	return cfg, nil
}

func relTo(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir string
	Mesh      string
	Texture   string
	Shader    string
	Format    string
	Size      int
	Frames    int
	Quality   int
	Workers   int
	Wireframe bool
	Animate   bool
}

// Resolve applies non-zero flags over the file values, then fills any
// remaining empty field with its default.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Mesh != "" {
		c.Mesh = flags.Mesh
	}
	if flags.Texture != "" {
		c.Texture = flags.Texture
	}
	if flags.Shader != "" {
		c.Shader = flags.Shader
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Size > 0 {
		c.RenderSize = flags.Size
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Quality > 0 {
		c.Quality = flags.Quality
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Wireframe {
		c.Wireframe = true
	}
	if flags.Animate {
		c.Animate = true
	}

	// Defaults
	if c.Mesh == "" {
		c.Mesh = "cube"
	}
	if c.Shader == "" {
		c.Shader = "phong"
	}
	if c.Format == "" {
		c.Format = "webp"
	}
	c.Format = strings.ToLower(c.Format)
	if c.Name == "" {
		c.Name = strings.TrimSuffix(filepath.Base(c.Mesh), filepath.Ext(c.Mesh))
	}
	if c.OutputDir == "" {
		c.OutputDir = "renders"
	}
	if c.Color == [4]float64{} {
		c.Color = [4]float64{1, 1, 1, 1}
	}
	if c.Scale <= 0 {
		c.Scale = 1
	}
	if c.FOV <= 0 {
		c.FOV = 60
	}
	if c.Distance <= 0 {
		c.Distance = 3
	}
	if c.FillRatio <= 0 {
		c.FillRatio = 0.9
	}
	if c.RenderSize <= 0 {
		c.RenderSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Frames <= 0 {
		c.Frames = 1
	}
	if c.Quality <= 0 {
		c.Quality = 90
	}
	if c.FrameMS <= 0 {
		c.FrameMS = 80
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Validate reports the first setting the renderer cannot honor. It does not
// touch the filesystem.
func (c *Config) Validate() error {
	if !slices.Contains(shaders.Names(), c.Shader) {
		return fmt.Errorf("config: %w: %q (have %s)", ErrUnknownShader, c.Shader, strings.Join(shaders.Names(), ", "))
	}
	if !slices.Contains(mesh.Names(), c.Mesh) && !strings.EqualFold(filepath.Ext(c.Mesh), ".obj") {
		return fmt.Errorf("config: %w: mesh %q is neither built in nor an .obj file", ErrInvalid, c.Mesh)
	}
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("config: %w: format %q", ErrInvalid, c.Format)
	}
	if c.FOV >= 180 {
		return fmt.Errorf("config: %w: fov %v must be below 180", ErrInvalid, c.FOV)
	}
	if c.Quality > 100 {
		return fmt.Errorf("config: %w: quality %d above 100", ErrInvalid, c.Quality)
	}
	if c.FillRatio > 1 {
		return fmt.Errorf("config: %w: fill_ratio %v above 1", ErrInvalid, c.FillRatio)
	}
	if c.Supersample > 8 {
		return fmt.Errorf("config: %w: supersample %d above 8", ErrInvalid, c.Supersample)
	}
	return nil
}

// LightConfig returns the default light with this config's overrides.
func (c *Config) LightConfig() shaders.Light {
	lt := shaders.DefaultLight()
	if c.Light == nil {
		return lt
	}
	if c.Light.Dir != [3]float64{} {
		lt.Dir = c.Light.Dir
	}
	if c.Light.Ambient > 0 {
		lt.Ambient = c.Light.Ambient
	}
	if c.Light.Diffuse > 0 {
		lt.Diffuse = c.Light.Diffuse
	}
	if c.Light.Specular > 0 {
		lt.Specular = c.Light.Specular
	}
	if c.Light.Shininess > 0 {
		lt.Shininess = c.Light.Shininess
	}
	if c.Light.Exposure > 0 {
		lt.Exposure = c.Light.Exposure
	}
	return lt
}
