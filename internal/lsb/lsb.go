// Package lsb embeds single bits into the least significant bit of color
// channels with LSB matching, and reads them back.
//
// Matching changes a channel by ±1 only when its LSB differs from the wanted
// bit.
package lsb

import "math/rand/v2"

// Channels is the number of channels of a pixel that carry payload.
const Channels = 3

// Match returns c adjusted so that its LSB equals bit. up selects +1 or -1;
// the direction flips at the 0 and 255 boundaries.
func Match(c, bit uint8, up bool) uint8 {
	if c&1 == bit&1 {
		return c
	}
	if up && c == 255 {
		up = false
	} else if !up && c == 0 {
		up = true
	}
	if up {
		return c + 1
	}
	return c - 1
}

// Bits reads the LSB of each of the first three channels.
func Bits(px []uint8) [Channels]uint8 {
	return [Channels]uint8{px[0] & 1, px[1] & 1, px[2] & 1}
}

// Test mode palette, indexed by how many of the three channels changed.
var palette = [Channels + 1][Channels]uint8{
	{255, 0, 0},
	{0, 255, 0},
	{0, 0, 255},
	{255, 255, 0},
}

// Paint returns the diagnostic color for a pixel with changed channels.
func Paint(changed int) [Channels]uint8 {
	return palette[changed]
}

// Pixel is a pixel under construction. Slots before Filled already carry
// payload; the remaining slots still hold the original channel values.
type Pixel struct {
	orig    []uint8
	out     []uint8
	filled  int
	changed int
}

// NewPixel starts a pixel from the channels read from the image. Channels past
// the third are carried over unchanged.
func NewPixel(orig []uint8) *Pixel {
	return &Pixel{
		orig: append([]uint8(nil), orig...),
		out:  append([]uint8(nil), orig...),
	}
}

// Full reports whether all three payload slots are used.
func (p *Pixel) Full() bool { return p.filled == Channels }

// Filled is the number of payload slots used.
func (p *Pixel) Filled() int { return p.filled }

// Changed is the number of slots whose value moved.
func (p *Pixel) Changed() int { return p.changed }

// Original returns the channels the pixel started from.
func (p *Pixel) Original() []uint8 { return p.orig }

// Embedder writes bits into pixels.
type Embedder struct {
	signs *rand.Rand
	test  bool
}

// NewEmbedder returns an Embedder drawing ±1 directions from signs. In test
// mode pixels are painted from the palette instead of perturbed.
func NewEmbedder(signs *rand.Rand, test bool) *Embedder {
	return &Embedder{signs: signs, test: test}
}

// Embed writes bit into the next free slot of p, starting from the slot's
// original value.
func (e *Embedder) Embed(p *Pixel, bit uint8) {
	i := p.filled
	c := p.orig[i]
	n := Match(c, bit, e.signs.Uint64()&1 == 1)
	if n != c {
		p.changed++
	}
	p.out[i] = n
	p.filled++
}

// Skip leaves the next free slot at its original value.
func (e *Embedder) Skip(p *Pixel) {
	p.filled++
}

// Output returns the channels to store for p in its current state.
func (e *Embedder) Output(p *Pixel) []uint8 {
	out := append([]uint8(nil), p.out...)
	if e.test {
		c := Paint(p.changed)
		copy(out, c[:])
	}
	return out
}

