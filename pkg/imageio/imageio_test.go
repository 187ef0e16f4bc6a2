package imageio

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 9, 7))
	for y := 0; y < 7; y++ {
		for x := 0; x < 9; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 25), uint8(y * 31), uint8(x ^ y), 255})
		}
	}
	return img
}

func TestLosslessRoundTrip(t *testing.T) {
	for _, f := range []Format{PNG, BMP, TIFF} {
		t.Run(string(f), func(t *testing.T) {
			src := testImage()
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, src, f))

			got, name, err := Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, string(f), name)

			for y := 0; y < 7; y++ {
				for x := 0; x < 9; x++ {
					r1, g1, b1, _ := src.At(x, y).RGBA()
					r2, g2, b2, _ := got.At(x, y).RGBA()
					assert.Equal(t, [3]uint32{r1, g1, b1}, [3]uint32{r2, g2, b2}, "pixel %d,%d", x, y)
				}
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(".TIF")
	require.NoError(t, err)
	assert.Equal(t, TIFF, f)

	_, err = ParseFormat("jpeg")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	assert.Equal(t, BMP, FormatFor("out/file.bmp"))
	assert.Equal(t, PNG, FormatFor("out/file.jpg"))
}

func TestPngifyJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(), &jpeg.Options{Quality: 90}))

	img, name, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", name)

	out, err := Pngify(img)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds().Size(), out.Bounds().Size())
}

func TestSaveOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carrier.png")
	require.NoError(t, Save(path, testImage(), FormatFor(path)))

	img, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 9, img.Bounds().Dx())
}
