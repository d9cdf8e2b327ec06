package postprocess

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// AlphaBounds returns the smallest rectangle holding every pixel with
// non-zero alpha, or an empty rectangle for a fully transparent image.
func AlphaBounds(img *image.NRGBA) image.Rectangle {
	b := img.Bounds()
	var r image.Rectangle
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride:]
		for x := b.Min.X; x < b.Max.X; x++ {
			if row[(x-b.Min.X)*4+3] == 0 {
				continue
			}
			px := image.Rect(x, y, x+1, y+1)
			if r.Empty() {
				r = px
			} else {
				r = r.Union(px)
			}
		}
	}
	return r
}

// Fit crops img to its opaque content, scales it so the longer side spans
// fillRatio of the target and centers it on a transparent w×h image.
func Fit(img *image.NRGBA, w, h int, fillRatio float64) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	crop := AlphaBounds(img)
	if crop.Empty() {
		return out
	}
	cw, ch := crop.Dx(), crop.Dy()

	scale := math.Min(float64(w)*fillRatio/float64(cw), float64(h)*fillRatio/float64(ch))
	newW := max(int(float64(cw)*scale+0.5), 1)
	newH := max(int(float64(ch)*scale+0.5), 1)

	offX := (w - newW) / 2
	offY := (h - newH) / 2
	dst := image.Rect(offX, offY, offX+newW, offY+newH)
	draw.CatmullRom.Scale(out, dst, img, crop, draw.Src, nil)
	return out
}
