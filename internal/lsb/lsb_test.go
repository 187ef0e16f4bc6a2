package lsb

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestMatchProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := rapid.Uint8().Draw(t, "c")
		bit := rapid.Uint8Range(0, 1).Draw(t, "bit")
		up := rapid.Bool().Draw(t, "up")

		n := Match(c, bit, up)

		if n&1 != bit {
			t.Fatalf("Match(%d, %d) = %d, LSB wrong", c, bit, n)
		}
		if c&1 == bit && n != c {
			t.Fatalf("Match(%d, %d) changed a matching channel to %d", c, bit, n)
		}
		d := int(n) - int(c)
		if d < -1 || d > 1 {
			t.Fatalf("Match(%d, %d) moved by %d", c, bit, d)
		}
	})
}

func TestMatchBoundaries(t *testing.T) {
	assert.Equal(t, uint8(254), Match(255, 0, true))
	assert.Equal(t, uint8(254), Match(255, 0, false))
	assert.Equal(t, uint8(1), Match(0, 1, false))
	assert.Equal(t, uint8(1), Match(0, 1, true))
	assert.Equal(t, uint8(11), Match(10, 1, true))
	assert.Equal(t, uint8(9), Match(10, 1, false))
}

func TestBits(t *testing.T) {
	assert.Equal(t, [3]uint8{1, 0, 1}, Bits([]uint8{3, 4, 255, 0}))
}

func TestEmbedKeepsExtraChannels(t *testing.T) {
	e := NewEmbedder(rand.New(rand.NewPCG(1, 2)), false)
	p := NewPixel([]uint8{10, 11, 12, 77})

	e.Embed(p, 1)
	e.Embed(p, 1)
	e.Embed(p, 0)

	out := e.Output(p)
	assert.True(t, p.Full())
	assert.Equal(t, uint8(77), out[3])
	assert.Equal(t, [3]uint8{1, 1, 0}, Bits(out))
	assert.Equal(t, uint8(11), out[1])
	assert.Equal(t, 1, p.Changed())
}

func TestPartialPixelKeepsOriginalSlots(t *testing.T) {
	e := NewEmbedder(rand.New(rand.NewPCG(3, 4)), false)
	p := NewPixel([]uint8{20, 21, 22})

	e.Embed(p, 1)
	out := e.Output(p)
	assert.Equal(t, 1, p.Filled())
	assert.Equal(t, []uint8{21, 22}, out[1:])
	assert.Equal(t, []uint8{20, 21, 22}, p.Original())
}

func TestTestModePaints(t *testing.T) {
	e := NewEmbedder(rand.New(rand.NewPCG(5, 6)), true)
	p := NewPixel([]uint8{0, 0, 0, 9})

	e.Embed(p, 1)
	e.Embed(p, 0)
	e.Embed(p, 1)

	assert.Equal(t, []uint8{0, 0, 255, 9}, e.Output(p))
	assert.Equal(t, [3]uint8{255, 0, 0}, Paint(0))
	assert.Equal(t, [3]uint8{255, 255, 0}, Paint(3))
}
