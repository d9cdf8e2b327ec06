package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ManifestEntry describes one rendered frame in the output manifest.
type ManifestEntry struct {
	Frame     int     `json:"frame"`
	Yaw       float64 `json:"yaw"`
	Image     string  `json:"image"`
	Triangles int     `json:"triangles"`
	Culled    int     `json:"culled"`
	Pixels    int     `json:"pixels"`
	Millis    int64   `json:"ms"`
}

// Manifest is the JSON document written next to the frames.
type Manifest struct {
	Name      string          `json:"name"`
	Mesh      string          `json:"mesh"`
	Shader    string          `json:"shader"`
	Size      int             `json:"size"`
	Animation string          `json:"animation,omitempty"`
	Frames    []ManifestEntry `json:"frames"`
}

// NewManifest collects the successful frames of a run. Image paths are made
// relative to the scene's output directory.
func NewManifest(scene *Scene, results []Result, animation string) Manifest {
	cfg := scene.Config
	m := Manifest{
		Name:      cfg.Name,
		Mesh:      cfg.Mesh,
		Shader:    cfg.Shader,
		Size:      cfg.RenderSize,
		Animation: relPath(cfg.OutputDir, animation),
		Frames:    []ManifestEntry{},
	}
	for _, r := range results {
		if !r.Success {
			continue
		}
		m.Frames = append(m.Frames, ManifestEntry{
			Frame:     r.Frame,
			Yaw:       r.Yaw,
			Image:     relPath(cfg.OutputDir, r.Path),
			Triangles: r.Stats.Triangles,
			Culled:    r.Stats.Culled,
			Pixels:    r.Stats.PixelsWritten,
			Millis:    r.Duration.Milliseconds(),
		})
	}
	return m
}

func relPath(dir, p string) string {
	if p == "" {
		return ""
	}
	if rel, err := filepath.Rel(dir, p); err == nil {
		return filepath.ToSlash(rel)
	}
	return p
}

// WriteManifest writes m as indented JSON.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
