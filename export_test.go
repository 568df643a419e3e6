package fractal

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func TestEncodePNGRoundTrip(t *testing.T) {
	img, err := New(Mandelbrot).Size(20, 16).Palette(Fire).Image()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, img))

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 20, decoded.Bounds().Dx())
	assert.Equal(t, 16, decoded.Bounds().Dy())
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, SavePNG(path, gradientImage(10, 10)))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	decoded, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 10, decoded.Bounds().Dx())
}

func TestSavePNGCreateError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.png")
	err := SavePNG(path, gradientImage(4, 4))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create")
}

func TestThumbnailNoResizeWhenFitting(t *testing.T) {
	img := gradientImage(50, 20)
	got := Thumbnail(img, 100, 100)
	assert.Same(t, image.Image(img), got, "images inside the bounds pass through")
}

func TestThumbnailShrinksPreservingAspect(t *testing.T) {
	img := gradientImage(200, 100)
	got := Thumbnail(img, 50, 50)
	assert.Equal(t, 50, got.Bounds().Dx())
	assert.Equal(t, 25, got.Bounds().Dy())
}

func TestDownscale(t *testing.T) {
	img := downscale(gradientImage(40, 40), 20, 20)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())
}
