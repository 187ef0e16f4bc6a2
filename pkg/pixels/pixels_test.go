package pixels

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNRGBAOpaqueHasThreeChannels(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	buf := FromImage(img)

	assert.Equal(t, 4, buf.Width())
	assert.Equal(t, 2, buf.Height())
	assert.Len(t, buf.At(0, 0), 3)

	buf.Set(3, 1, []uint8{1, 2, 3})
	assert.Equal(t, color.NRGBA{1, 2, 3, 255}, img.NRGBAAt(3, 1))
}

func TestNRGBAWithAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(1, 0, color.NRGBA{10, 20, 30, 40})
	buf := FromImage(img)

	require.Len(t, buf.At(0, 0), 4)
	assert.Equal(t, []uint8{10, 20, 30, 40}, buf.At(1, 0))
}

func TestAtReturnsCopy(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	buf := NewNRGBA(img, false)

	px := buf.At(0, 0)
	px[0] = 99
	assert.Equal(t, uint8(0), img.Pix[0])
}

func TestGrayIsSingleChannel(t *testing.T) {
	buf := FromImage(image.NewGray(image.Rect(0, 0, 3, 3)))
	assert.Len(t, buf.At(0, 0), 1)
}

func TestFromImageShiftsBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 8, 7))
	src.Set(5, 5, color.RGBA{7, 8, 9, 255})
	buf := FromImage(src)

	assert.Equal(t, 3, buf.Width())
	assert.Equal(t, 2, buf.Height())
	// the rest of src is transparent, so alpha is exposed
	assert.Equal(t, []uint8{7, 8, 9, 255}, buf.At(0, 0))

	_, ok := buf.(Imager)
	assert.True(t, ok)
}

func TestSubImageNRGBA(t *testing.T) {
	base := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	sub := base.SubImage(image.Rect(2, 2, 4, 4)).(*image.NRGBA)
	buf := NewNRGBA(sub, false)

	buf.Set(0, 0, []uint8{5, 6, 7})
	assert.Equal(t, color.NRGBA{5, 6, 7, 0}, base.NRGBAAt(2, 2))
}
