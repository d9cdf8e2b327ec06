// Package canvas provides the pixel buffers the rasterizer draws into and
// samples from: color canvases in several 8-bit formats and a float depth
// canvas. Buffers are flat slices for cache locality.
package canvas

import (
	"image"
	"math"

	"softraster/internal/mathutil"
)

// Format identifies the storage layout of a Canvas.
type Format int

const (
	FormatRGBA8 Format = iota
	FormatRGB8
	FormatGray8
	FormatDepth32F
)

func (f Format) String() string {
	switch f {
	case FormatRGBA8:
		return "rgba8"
	case FormatRGB8:
		return "rgb8"
	case FormatGray8:
		return "gray8"
	case FormatDepth32F:
		return "depth32f"
	}
	return "unknown"
}

// BytesPerPixel returns the size of one pixel in the 8-bit formats, 0 for depth.
func (f Format) BytesPerPixel() int {
	switch f {
	case FormatRGBA8:
		return 4
	case FormatRGB8:
		return 3
	case FormatGray8:
		return 1
	}
	return 0
}

// Canvas is a 2D pixel buffer. Row 0 is the first row in memory; the
// rasterizer addresses it with window coordinates directly.
type Canvas struct {
	width  int
	height int
	format Format
	pix    []uint8   // interleaved channels, len = W*H*BytesPerPixel
	depth  []float32 // FormatDepth32F only, len = W*H
}

// New allocates a zeroed canvas. A zeroed depth canvas reads as depth 0.
func New(w, h int, format Format) *Canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c := &Canvas{width: w, height: h, format: format}
	if format == FormatDepth32F {
		c.depth = make([]float32, w*h)
	} else {
		c.pix = make([]uint8, w*h*format.BytesPerPixel())
	}
	return c
}

// NewDepth allocates a depth canvas.
func NewDepth(w, h int) *Canvas {
	return New(w, h, FormatDepth32F)
}

// FromNRGBA copies an image into a new RGBA8 canvas.
func FromNRGBA(img *image.NRGBA) *Canvas {
	b := img.Bounds()
	c := New(b.Dx(), b.Dy(), FormatRGBA8)
	for y := 0; y < c.height; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+c.width*4]
		copy(c.pix[y*c.width*4:], src)
	}
	return c
}

func (c *Canvas) Size() (w, h int) { return c.width, c.height }
func (c *Canvas) Width() int       { return c.width }
func (c *Canvas) Height() int      { return c.height }

// PixelFormat returns the storage format.
func (c *Canvas) PixelFormat() Format { return c.format }

// HasAlpha reports whether the format stores an alpha channel.
func (c *Canvas) HasAlpha() bool { return c.format == FormatRGBA8 }

// Pix exposes the raw 8-bit storage (nil for depth canvases).
func (c *Canvas) Pix() []uint8 { return c.pix }

func (c *Canvas) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.width && y < c.height
}

// Pixel returns the color at (x, y) with channels in [0, 1]. Formats without
// alpha report alpha 1. Out-of-bounds reads return transparent black.
func (c *Canvas) Pixel(x, y int) mathutil.Vec4 {
	if !c.inBounds(x, y) {
		return mathutil.Vec4{}
	}
	i := y*c.width + x
	switch c.format {
	case FormatRGBA8:
		p := c.pix[i*4 : i*4+4]
		return mathutil.Vec4{unorm(p[0]), unorm(p[1]), unorm(p[2]), unorm(p[3])}
	case FormatRGB8:
		p := c.pix[i*3 : i*3+3]
		return mathutil.Vec4{unorm(p[0]), unorm(p[1]), unorm(p[2]), 1}
	case FormatGray8:
		g := unorm(c.pix[i])
		return mathutil.Vec4{g, g, g, 1}
	case FormatDepth32F:
		d := float64(c.depth[i])
		return mathutil.Vec4{d, d, d, 1}
	}
	return mathutil.Vec4{}
}

// SetPixel stores col at (x, y). Channels are clamped to [0, 1] and rounded
// to the nearest 8-bit value. Out-of-bounds writes are ignored.
func (c *Canvas) SetPixel(x, y int, col mathutil.Vec4) {
	if !c.inBounds(x, y) {
		return
	}
	i := y*c.width + x
	switch c.format {
	case FormatRGBA8:
		p := c.pix[i*4 : i*4+4]
		p[0], p[1], p[2], p[3] = quantize(col[0]), quantize(col[1]), quantize(col[2]), quantize(col[3])
	case FormatRGB8:
		p := c.pix[i*3 : i*3+3]
		p[0], p[1], p[2] = quantize(col[0]), quantize(col[1]), quantize(col[2])
	case FormatGray8:
		c.pix[i] = quantize(col[0]*0.299 + col[1]*0.587 + col[2]*0.114)
	case FormatDepth32F:
		c.depth[i] = float32(col[0])
	}
}

// Depth returns the stored depth at (x, y). Non-depth canvases report the red
// channel so any canvas can back a depth attachment.
func (c *Canvas) Depth(x, y int) float64 {
	if c.format != FormatDepth32F {
		return c.Pixel(x, y)[0]
	}
	if !c.inBounds(x, y) {
		return 0
	}
	return float64(c.depth[y*c.width+x])
}

// SetDepth stores d at (x, y).
func (c *Canvas) SetDepth(x, y int, d float64) {
	if c.format != FormatDepth32F {
		c.SetPixel(x, y, mathutil.Vec4{d, d, d, 1})
		return
	}
	if !c.inBounds(x, y) {
		return
	}
	c.depth[y*c.width+x] = float32(d)
}

// Sample2D performs nearest (point) sampling with UV wrapping. v=0 is row 0.
func (c *Canvas) Sample2D(uv mathutil.Vec2) mathutil.Vec4 {
	if c.width == 0 || c.height == 0 {
		return mathutil.Vec4{}
	}
	u := uv[0] - math.Floor(uv[0])
	v := uv[1] - math.Floor(uv[1])
	x := min(int(u*float64(c.width)), c.width-1)
	y := min(int(v*float64(c.height)), c.height-1)
	return c.Pixel(x, y)
}

// Clear fills every pixel with col. On a depth canvas the red channel is used.
func (c *Canvas) Clear(col mathutil.Vec4) {
	if c.format == FormatDepth32F {
		c.ClearDepth(col[0])
		return
	}
	if len(c.pix) == 0 {
		return
	}
	c.SetPixel(0, 0, col)
	bpp := c.format.BytesPerPixel()
	// Double the filled prefix until the buffer is covered.
	for n := bpp; n < len(c.pix); n *= 2 {
		copy(c.pix[n:], c.pix[:n])
	}
}

// ClearDepth fills a depth canvas with d.
func (c *Canvas) ClearDepth(d float64) {
	if c.format != FormatDepth32F {
		c.Clear(mathutil.Vec4{d, d, d, 1})
		return
	}
	v := float32(d)
	for i := range c.depth {
		c.depth[i] = v
	}
}

func unorm(b uint8) float64 {
	return float64(b) / 255
}

func quantize(v float64) uint8 {
	if v <= 0 || v != v {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
