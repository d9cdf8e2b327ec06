// Package texture loads images from disk into canvases that can be bound to
// a texture unit, and caches them by name.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"softraster/internal/canvas"

	"github.com/disintegration/imaging"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
)

// ErrUnsupportedFormat is returned for file extensions no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported texture format")

// Extensions lists the accepted file extensions, lowercase with the dot.
var Extensions = []string{".png", ".tga", ".jpg", ".jpeg", ".bmp", ".gif"}

// Supported reports whether path has a loadable extension.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Load reads an image file into a canvas. Images with any translucent pixel
// become RGBA8 canvases; fully opaque images become RGB8.
func Load(path string) (*canvas.Canvas, error) {
	if !Supported(path) {
		return nil, fmt.Errorf("texture: %w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}

	img, err := Decode(bytes.NewReader(raw), filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return FromImage(img), nil
}

// decoders maps an extension to its decoder. The tga package registers an
// empty magic string, so image.Decode would hand every file to it; the
// decoder is picked by extension instead.
var decoders = map[string]func(io.Reader) (image.Image, error){
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".gif":  gif.Decode,
	".bmp":  bmp.Decode,
	".tga":  tga.Decode,
}

// Decode decodes r with the decoder for ext (case-insensitive, with the dot).
func Decode(r io.Reader, ext string) (image.Image, error) {
	dec, ok := decoders[strings.ToLower(ext)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	return dec(r)
}

// FromImage converts img to a canvas.
func FromImage(img image.Image) *canvas.Canvas {
	n := imaging.Clone(img)
	if !n.Opaque() {
		return canvas.FromNRGBA(n)
	}
	w, h := n.Rect.Dx(), n.Rect.Dy()
	c := canvas.New(w, h, canvas.FormatRGB8)
	dst := c.Pix()
	for y := 0; y < h; y++ {
		src := n.Pix[y*n.Stride:]
		row := dst[y*w*3:]
		for x := 0; x < w; x++ {
			copy(row[x*3:x*3+3], src[x*4:x*4+3])
		}
	}
	return c
}
