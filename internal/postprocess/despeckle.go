package postprocess

import "image"

// Despeckle clears connected groups of visible pixels (8-connected) smaller
// than minRatio of all visible pixels. Images with a single group are
// returned unchanged.
func Despeckle(img *image.NRGBA, minRatio float64) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	visible := func(i int) bool {
		return img.Pix[(i/w)*img.Stride+(i%w)*4+3] > 0
	}

	labels := make([]int32, w*h)
	for i := range labels {
		labels[i] = -1
	}
	var sizes []int
	total := 0
	queue := make([]int, 0, 1024)

	for start := range labels {
		if labels[start] >= 0 || !visible(start) {
			continue
		}
		id := int32(len(sizes))
		labels[start] = id
		queue = append(queue[:0], start)
		for head := 0; head < len(queue); head++ {
			cx, cy := queue[head]%w, queue[head]/w
			for ny := cy - 1; ny <= cy+1; ny++ {
				for nx := cx - 1; nx <= cx+1; nx++ {
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					ni := ny*w + nx
					if labels[ni] < 0 && visible(ni) {
						labels[ni] = id
						queue = append(queue, ni)
					}
				}
			}
		}
		sizes = append(sizes, len(queue))
		total += len(queue)
	}

	if len(sizes) <= 1 {
		return img
	}
	minSize := int(float64(total) * minRatio)

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		copy(out.Pix[y*out.Stride:y*out.Stride+w*4], img.Pix[y*img.Stride:])
	}
	for i, id := range labels {
		if id >= 0 && sizes[id] < minSize {
			o := (i/w)*out.Stride + (i%w)*4
			copy(out.Pix[o:o+4], []uint8{0, 0, 0, 0})
		}
	}
	return out
}
