package fractal

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/nfnt/resize"
	xdraw "golang.org/x/image/draw"
)

// downscale resamples img to w x h with Catmull-Rom interpolation. Used to
// fold supersampled renders back to the requested size.
func downscale(img *image.RGBA, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return dst
}

// EncodePNG writes img to w in PNG format.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// SavePNG writes img to a PNG file at path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// Thumbnail scales img down to fit within maxW x maxH, preserving aspect
// ratio. Images already inside the bounds are returned unchanged.
func Thumbnail(img image.Image, maxW, maxH uint) image.Image {
	b := img.Bounds()
	if uint(b.Dx()) <= maxW && uint(b.Dy()) <= maxH {
		return img
	}
	return resize.Thumbnail(maxW, maxH, img, resize.Lanczos3)
}
