package main

import (
	"flag"
	"fmt"
	"image"
	"os"

	"softraster/internal/canvas"
	"softraster/internal/texture"

	"github.com/disintegration/imaging"
)

func main() {
	dir := flag.String("dir", "", "Resolve names through an index of this directory")
	preview := flag.String("preview", "", "Write a preview image to this path")
	previewSize := flag.Int("preview-size", 256, "Longest preview side in pixels")
	flipV := flag.Bool("flipv", false, "Flip the preview vertically (v=0 at the bottom)")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: texinfo [-dir DIR] [-preview out.png] NAME...")
		os.Exit(2)
	}

	var cache *texture.Cache
	if *dir != "" {
		idx := texture.BuildIndex(*dir)
		cache = texture.NewCache(idx, nil)
		fmt.Printf("Index: %d textures under %s\n", idx.Len(), *dir)
	} else {
		cache = texture.NewCache(nil, nil)
	}

	failed := false
	for _, name := range flag.Args() {
		tex := cache.Resolve(name)
		if tex == nil {
			fmt.Printf("%s: not found or not decodable\n", name)
			failed = true
			continue
		}
		fmt.Printf("%s: %dx%d %s\n", name, tex.Width(), tex.Height(), tex.PixelFormat())
		if tex.HasAlpha() {
			printAlpha(tex)
		}

		// Also check a few specific pixels
		w, h := tex.Size()
		for _, p := range [][2]int{{0, 0}, {w / 2, h / 2}, {w - 1, h - 1}} {
			c := tex.Pixel(p[0], p[1])
			fmt.Printf("  Pixel(%d,%d): R=%.3f G=%.3f B=%.3f A=%.3f\n", p[0], p[1], c[0], c[1], c[2], c[3])
		}
	}

	if *preview != "" && flag.NArg() > 0 {
		if tex := cache.Resolve(flag.Arg(0)); tex != nil {
			if err := writePreview(*preview, tex.NRGBA(), *previewSize, *flipV); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing preview: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Preview: %s\n", *preview)
		}
	}

	if failed {
		os.Exit(1)
	}
}

func printAlpha(tex *canvas.Canvas) {
	w, h := tex.Size()
	minA, maxA := 1.0, 0.0
	var sum float64
	transparent := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := tex.Pixel(x, y)[3]
			sum += a
			minA = min(minA, a)
			maxA = max(maxA, a)
			if a == 0 {
				transparent++
			}
		}
	}
	fmt.Printf("  Alpha: min=%.3f, max=%.3f, avg=%.3f, transparent=%d/%d\n",
		minA, maxA, sum/float64(w*h), transparent, w*h)
}

func writePreview(path string, img *image.NRGBA, size int, flip bool) error {
	var out image.Image = img
	if b := img.Bounds(); b.Dx() > size || b.Dy() > size {
		out = imaging.Fit(img, size, size, imaging.Lanczos)
	}
	if flip {
		out = imaging.FlipV(out)
	}
	return imaging.Save(out, path)
}
