package batch

import (
	"fmt"

	"softraster/internal/canvas"
	"softraster/internal/config"
	"softraster/internal/mathutil"
	"softraster/internal/mesh"
	"softraster/internal/texture"
)

// Scene holds the resources shared read-only by every worker.
type Scene struct {
	Config  config.Config
	Mesh    *mesh.Mesh
	Texture *canvas.Canvas // nil when untextured
}

// LoadScene builds the mesh and texture named by a resolved config.
// Textures are looked up through res, which may be nil to load cfg.Texture
// as a plain path.
func LoadScene(cfg config.Config, res texture.Resolver) (*Scene, error) {
	m, err := mesh.ByName(cfg.Mesh)
	if err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}
	m.SetColor(mathutil.Vec4(cfg.Color))

	s := &Scene{Config: cfg, Mesh: m}
	switch cfg.Texture {
	case "":
	case "checker":
		s.Texture = texture.Checkerboard(256, 256, 32,
			mathutil.Vec4{0.92, 0.92, 0.92, 1}, mathutil.Vec4{0.25, 0.3, 0.4, 1})
	default:
		if res == nil {
			res = texture.NewCache(nil, nil)
		}
		s.Texture = res.Resolve(cfg.Texture)
		if s.Texture == nil {
			return nil, fmt.Errorf("batch: texture %q not found or not decodable", cfg.Texture)
		}
	}
	return s, nil
}
