// Package postprocess turns a rendered canvas into the final image:
// supersample reduction, speck removal and optional fit-to-frame.
package postprocess

import (
	"image"

	"softraster/internal/canvas"
)

// Options controls Finish.
type Options struct {
	Width, Height int     // output size
	Despeckle     float64 // clear groups below this fraction of visible pixels; 0 disables
	Fit           bool    // crop to content and center
	FillRatio     float64 // share of the frame the content spans when Fit is set
}

// Finish converts c to an image and applies the configured steps in order:
// downsample, despeckle, fit.
func Finish(c *canvas.Canvas, opts Options) *image.NRGBA {
	img := c.NRGBA()
	if opts.Width > 0 && opts.Height > 0 {
		img = Downsample(img, opts.Width, opts.Height)
	}
	if opts.Despeckle > 0 {
		img = Despeckle(img, opts.Despeckle)
	}
	if opts.Fit {
		fill := opts.FillRatio
		if fill <= 0 || fill > 1 {
			fill = 0.9
		}
		b := img.Bounds()
		img = Fit(img, b.Dx(), b.Dy(), fill)
	}
	return img
}
