package canvas

import (
	"image"
	"math"
)

// NRGBA converts the canvas to an image. Depth canvases are rendered as
// grayscale, remapped so the occupied depth range spans black to white.
func (c *Canvas) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, c.width, c.height))
	if c.format == FormatDepth32F {
		c.depthToNRGBA(img)
		return img
	}
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			col := c.Pixel(x, y)
			i := img.PixOffset(x, y)
			img.Pix[i] = quantize(col[0])
			img.Pix[i+1] = quantize(col[1])
			img.Pix[i+2] = quantize(col[2])
			img.Pix[i+3] = quantize(col[3])
		}
	}
	return img
}

func (c *Canvas) depthToNRGBA(img *image.NRGBA) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, d := range c.depth {
		if d <= 0 {
			continue
		}
		lo = math.Min(lo, float64(d))
		hi = math.Max(hi, float64(d))
	}
	span := hi - lo
	if span <= 0 {
		span = 1
	}
	for i, d := range c.depth {
		var g uint8
		if d > 0 {
			g = quantize(0.1 + 0.9*(float64(d)-lo)/span)
		}
		img.Pix[i*4], img.Pix[i*4+1], img.Pix[i*4+2], img.Pix[i*4+3] = g, g, g, 255
	}
}
