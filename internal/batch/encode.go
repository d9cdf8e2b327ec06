package batch

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"
)

// Extension returns the file extension, dot included, for an output format.
func Extension(format string) string {
	switch format {
	case "png":
		return ".png"
	case "jpeg":
		return ".jpg"
	}
	return ".webp"
}

// Encode writes img in the given format. WebP is always lossless; quality
// only applies to JPEG.
func Encode(w io.Writer, img image.Image, format string, quality int) error {
	switch format {
	case "webp", "":
		return nativewebp.Encode(w, img, nil)
	case "png":
		return png.Encode(w, img)
	case "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	}
	return fmt.Errorf("batch: unsupported format %q", format)
}

// WriteAnimation assembles the rendered frames into one looping animated
// WebP at dir/<name>.webp. Failed frames are skipped.
func WriteAnimation(dir, name string, results []Result, frame time.Duration) (string, error) {
	ani := &nativewebp.Animation{}
	for _, r := range results {
		if !r.Success || r.Image == nil {
			continue
		}
		ani.Images = append(ani.Images, r.Image)
		ani.Durations = append(ani.Durations, uint(frame.Milliseconds()))
		ani.Disposals = append(ani.Disposals, 1)
	}
	if len(ani.Images) == 0 {
		return "", fmt.Errorf("batch: no frames to animate")
	}

	path := filepath.Join(dir, name+".webp")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := nativewebp.EncodeAll(f, ani, nil); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
