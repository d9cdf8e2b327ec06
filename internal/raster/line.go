package raster

import (
	"math"

	"softraster/internal/mathutil"
)

// coordLimit bounds window coordinates the rasterizers accept. Without
// clipping, primitives reaching past it are dropped.
const coordLimit = 1 << 24

// DrawLine runs the vertex stage on both endpoints and rasterizes the segment,
// interpolating color and depth linearly. The fragment stage is not invoked
// for lines.
func (r *Renderer) DrawLine(begin Vertex, beginColor mathutil.Vec4, end Vertex, endColor mathutil.Vec4) {
	if r.color == nil {
		return
	}
	a := r.runVertexStage(&begin, 0)
	b := r.runVertexStage(&end, 1)
	r.rasterLine(a.Position, beginColor, b.Position, endColor)
}

func (r *Renderer) rasterLine(p0, c0, p1, c1 mathutil.Vec4) {
	r.stats.Lines++
	a, ok0 := r.toWindow(p0)
	b, ok1 := r.toWindow(p1)
	if !ok0 || !ok1 {
		return
	}
	x0, okx0 := pixelCoord(a[0])
	y0, oky0 := pixelCoord(a[1])
	x1, okx1 := pixelCoord(b[0])
	y1, oky1 := pixelCoord(b[1])
	if !okx0 || !oky0 || !okx1 || !oky1 {
		return
	}

	w, h := r.color.Size()

	// Both ends land on one pixel: plot it with the average color and depth.
	if x0 == x1 && y0 == y1 {
		if x0 >= 0 && y0 >= 0 && x0 < w && y0 < h {
			d := 1 - (a[2]+b[2])/2
			if r.depthPass(x0, y0, d) {
				r.writePixel(x0, y0, d, c0.Add(c1).Scale(0.5))
			}
		}
		return
	}

	dx, dy := x1-x0, y1-y0
	xMajor := mathutil.Abs(dx) >= mathutil.Abs(dy)
	var n, start, dir, limit int
	if xMajor {
		n, start, dir, limit = mathutil.Abs(dx), x0, sign(dx), w
	} else {
		n, start, dir, limit = mathutil.Abs(dy), y0, sign(dy), h
	}

	lo, hi := stepRange(start, dir, n, limit)
	for i := lo; i <= hi; i++ {
		k := float64(i) / float64(n)
		var x, y int
		if xMajor {
			x = start + i*dir
			y = int(math.Floor(mathutil.Lerp(a[1], b[1], k)))
			if y < 0 || y >= h {
				continue
			}
		} else {
			y = start + i*dir
			x = int(math.Floor(mathutil.Lerp(a[0], b[0], k)))
			if x < 0 || x >= w {
				continue
			}
		}

		d := 1 - mathutil.Lerp(a[2], b[2], k)
		if !r.depthPass(x, y, d) {
			continue
		}
		r.writePixel(x, y, d, lerpVec4(c0, c1, k))
	}
}

// stepRange returns the steps i in [0, n] for which start+dir*i lies in
// [0, limit).
func stepRange(start, dir, n, limit int) (lo, hi int) {
	if dir > 0 {
		lo, hi = -start, limit-1-start
	} else {
		lo, hi = start-(limit-1), start
	}
	return max(lo, 0), min(hi, n)
}

func pixelCoord(v float64) (int, bool) {
	if !(v > -coordLimit && v < coordLimit) {
		return 0, false
	}
	return int(math.Floor(v)), true
}

func sign(v int) int {
	if v < 0 {
		return -1
	}
	return 1
}

func lerpVec4(a, b mathutil.Vec4, k float64) mathutil.Vec4 {
	return a.Add(b.Sub(a).Scale(k))
}
