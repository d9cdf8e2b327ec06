package canvas

import "softraster/internal/mathutil"

// SampleBilinear filters the four nearest texels with UV wrapping. Reads the
// 8-bit storage directly; depth canvases fall back to point sampling.
func (c *Canvas) SampleBilinear(uv mathutil.Vec2) mathutil.Vec4 {
	bpp := c.format.BytesPerPixel()
	w, h := c.width, c.height
	if bpp == 0 || w == 0 || h == 0 {
		return c.Sample2D(uv)
	}

	// Wrap UVs
	u := uv[0] - float64(int(uv[0]))
	if u < 0 {
		u += 1.0
	}
	v := uv[1] - float64(int(uv[1]))
	if v < 0 {
		v += 1.0
	}

	fx := u * float64(w-1)
	fy := v * float64(h-1)
	x0 := int(fx)
	y0 := int(fy)
	x1 := (x0 + 1) % w
	y1 := (y0 + 1) % h
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	stride := w * bpp
	pix := c.pix

	i00 := y0*stride + x0*bpp
	i10 := y0*stride + x1*bpp
	i01 := y1*stride + x0*bpp
	i11 := y1*stride + x1*bpp

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	var out mathutil.Vec4
	for ch := 0; ch < bpp; ch++ {
		out[ch] = (float64(pix[i00+ch])*w00 + float64(pix[i10+ch])*w10 +
			float64(pix[i01+ch])*w01 + float64(pix[i11+ch])*w11) / 255
	}
	switch c.format {
	case FormatGray8:
		out = mathutil.Vec4{out[0], out[0], out[0], 1}
	case FormatRGB8:
		out[3] = 1
	}
	return out
}
