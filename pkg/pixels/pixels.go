// Package pixels defines the pixel access the hiding engine needs from an
// image and adapts the standard image types to it.
package pixels

import (
	"image"
	"image/draw"
)

// Buffer is a mutable grid of pixels addressed from (0,0). At returns the
// channel values of one pixel; the length of At(0,0) is the channel count of
// the whole buffer.
type Buffer interface {
	Width() int
	Height() int
	At(x, y int) []uint8
	Set(x, y int, channels []uint8)
}

// Imager is implemented by buffers backed by an image.Image that can be
// encoded after hiding.
type Imager interface {
	Image() image.Image
}

// NRGBA is a Buffer over an *image.NRGBA. An opaque image exposes three
// channels and leaves alpha alone; otherwise alpha is the fourth channel.
type NRGBA struct {
	img      *image.NRGBA
	channels int
}

// NewNRGBA wraps img. alpha selects whether the alpha channel is exposed.
func NewNRGBA(img *image.NRGBA, alpha bool) *NRGBA {
	n := 3
	if alpha {
		n = 4
	}
	return &NRGBA{img: img, channels: n}
}

func (b *NRGBA) Width() int  { return b.img.Rect.Dx() }
func (b *NRGBA) Height() int { return b.img.Rect.Dy() }

func (b *NRGBA) offset(x, y int) int {
	return b.img.PixOffset(b.img.Rect.Min.X+x, b.img.Rect.Min.Y+y)
}

func (b *NRGBA) At(x, y int) []uint8 {
	i := b.offset(x, y)
	return append([]uint8(nil), b.img.Pix[i:i+b.channels]...)
}

func (b *NRGBA) Set(x, y int, channels []uint8) {
	i := b.offset(x, y)
	copy(b.img.Pix[i:i+b.channels], channels)
}

func (b *NRGBA) Image() image.Image { return b.img }

// Gray is a single channel Buffer. The engine rejects it; it exists so that
// grayscale input fails with a clear error instead of being silently widened.
type Gray struct {
	img *image.Gray
}

func NewGray(img *image.Gray) *Gray { return &Gray{img: img} }

func (b *Gray) Width() int  { return b.img.Rect.Dx() }
func (b *Gray) Height() int { return b.img.Rect.Dy() }

func (b *Gray) At(x, y int) []uint8 {
	return []uint8{b.img.GrayAt(b.img.Rect.Min.X+x, b.img.Rect.Min.Y+y).Y}
}

func (b *Gray) Set(x, y int, channels []uint8) {
	i := b.img.PixOffset(b.img.Rect.Min.X+x, b.img.Rect.Min.Y+y)
	b.img.Pix[i] = channels[0]
}

func (b *Gray) Image() image.Image { return b.img }

// FromImage returns a Buffer for img. *image.NRGBA is used in place; grayscale
// images keep one channel; everything else is copied into a new NRGBA image.
func FromImage(img image.Image) Buffer { // A
	switch m := img.(type) {
	case *image.NRGBA:
		return NewNRGBA(m, !m.Opaque())
	case *image.Gray:
		return NewGray(m)
	case *image.Gray16:
		g := image.NewGray(m.Bounds())
		draw.Draw(g, g.Rect, m, m.Bounds().Min, draw.Src)
		return NewGray(g)
	}

	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return NewNRGBA(dst, !dst.Opaque())
}

// Clone returns an NRGBA copy of an image, detached from the original.
func Clone(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return dst
}
