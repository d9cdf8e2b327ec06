package raster

import (
	"softraster/internal/canvas"
	"softraster/internal/mathutil"
)

// Attachment names a buffer slot of a RenderTarget.
type Attachment int

const (
	ColorAttachment0 Attachment = iota
	ColorAttachment1
	ColorAttachment2
	ColorAttachment3
	DepthAttachment

	attachmentCount
)

func (a Attachment) String() string {
	switch a {
	case ColorAttachment0:
		return "color0"
	case ColorAttachment1:
		return "color1"
	case ColorAttachment2:
		return "color2"
	case ColorAttachment3:
		return "color3"
	case DepthAttachment:
		return "depth"
	}
	return "invalid"
}

// RenderTarget is the set of buffers a draw call writes into. Slots borrow
// canvases owned by the caller. Color0 and depth are expected to have the
// same size; the renderer warns when they do not.
type RenderTarget struct {
	slots [attachmentCount]*canvas.Canvas
}

// NewRenderTarget binds color to ColorAttachment0 and depth (may be nil) to
// DepthAttachment.
func NewRenderTarget(color, depth *canvas.Canvas) *RenderTarget {
	t := &RenderTarget{}
	t.Attach(ColorAttachment0, color)
	t.Attach(DepthAttachment, depth)
	return t
}

// Attach binds c to slot a. Invalid slots are ignored.
func (t *RenderTarget) Attach(a Attachment, c *canvas.Canvas) {
	if a < 0 || a >= attachmentCount {
		return
	}
	t.slots[a] = c
}

// Detach empties slot a.
func (t *RenderTarget) Detach(a Attachment) {
	t.Attach(a, nil)
}

// Attachment returns the canvas bound to a, or nil.
func (t *RenderTarget) Attachment(a Attachment) *canvas.Canvas {
	if t == nil || a < 0 || a >= attachmentCount {
		return nil
	}
	return t.slots[a]
}

// Size returns the size of ColorAttachment0, or 0x0 when unbound.
func (t *RenderTarget) Size() (w, h int) {
	if c := t.Attachment(ColorAttachment0); c != nil {
		return c.Size()
	}
	return 0, 0
}

// Clear fills every bound color attachment with col and the depth attachment
// with depth.
func (t *RenderTarget) Clear(col mathutil.Vec4, depth float64) {
	for a := ColorAttachment0; a <= ColorAttachment3; a++ {
		if c := t.slots[a]; c != nil {
			c.Clear(col)
		}
	}
	if d := t.slots[DepthAttachment]; d != nil {
		d.ClearDepth(depth)
	}
}

func (t *RenderTarget) sizesMatch() bool {
	c, d := t.slots[ColorAttachment0], t.slots[DepthAttachment]
	if c == nil || d == nil {
		return true
	}
	cw, ch := c.Size()
	dw, dh := d.Size()
	return cw == dw && ch == dh
}
