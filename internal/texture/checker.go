package texture

import (
	"softraster/internal/canvas"
	"softraster/internal/mathutil"
)

// Checkerboard returns a w×h RGBA8 canvas of square cells alternating
// between a and b, starting with a at the top-left.
func Checkerboard(w, h, cell int, a, b mathutil.Vec4) *canvas.Canvas {
	if cell < 1 {
		cell = 1
	}
	c := canvas.New(w, h, canvas.FormatRGBA8)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			col := a
			if (x/cell+y/cell)%2 == 1 {
				col = b
			}
			c.SetPixel(x, y, col)
		}
	}
	return c
}
