package texture

import (
	"log/slog"
	"sync"

	"softraster/internal/canvas"
)

// Resolver resolves a texture name to a decoded canvas.
type Resolver interface {
	Resolve(name string) *canvas.Canvas
}

// Cache is a concurrency-safe texture cache. Canvases it returns are shared
// and must be treated as read-only.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*canvas.Canvas // nil records a failed load
	index *Index
	log   *slog.Logger
}

// NewCache creates a texture cache backed by index. A nil index resolves
// names as file paths. A nil logger discards load failures.
func NewCache(index *Index, log *slog.Logger) *Cache {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Cache{
		items: make(map[string]*canvas.Canvas),
		index: index,
		log:   log,
	}
}

// Resolve loads and caches a texture by name. Returns nil if not found or
// not decodable; failures are cached too.
func (c *Cache) Resolve(name string) *canvas.Canvas {
	path := name
	if c.index != nil {
		p, ok := c.index.ResolvePath(name)
		if !ok {
			return nil
		}
		path = p
	}

	// Fast path: read lock
	c.mu.RLock()
	if img, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return img
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	img, err := Load(path)
	if err != nil {
		c.log.Warn("texture load failed", "path", path, "err", err)
		img = nil
	}

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, exists := c.items[path]; exists {
		return existing
	}
	c.items[path] = img
	return img
}

// Len returns the number of cached entries, including failures.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
