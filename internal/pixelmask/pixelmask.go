// Package pixelmask tracks which pixel coordinates of an image have been
// consumed and draws fresh ones from a seeded generator.
package pixelmask

import (
	"math/bits"
	"math/rand/v2"
)

// Point is a pixel coordinate.
type Point struct {
	X, Y int
}

// Mask holds one bit per pixel. Bits are only ever set, never cleared.
type Mask struct {
	width, height int
	words         []uint64
	used          int
}

func NewMask(width, height int) *Mask {
	n := width * height
	return &Mask{
		width:  width,
		height: height,
		words:  make([]uint64, (n+63)/64),
	}
}

func (m *Mask) index(p Point) (int, uint64) {
	i := p.Y*m.width + p.X
	return i / 64, 1 << (uint(i) % 64)
}

// Marked reports whether p was already consumed.
func (m *Mask) Marked(p Point) bool {
	w, bit := m.index(p)
	return m.words[w]&bit != 0
}

// Mark records p as consumed. It reports false if p was marked before.
func (m *Mask) Mark(p Point) bool {
	w, bit := m.index(p)
	if m.words[w]&bit != 0 {
		return false
	}
	m.words[w] |= bit
	m.used++
	return true
}

// Used is the number of marked pixels.
func (m *Mask) Used() int { return m.used }

// Free is the number of pixels never drawn.
func (m *Mask) Free() int { return m.width*m.height - m.used }

// popcount recomputes Used from the bitset. Tests use it to check the counter.
func (m *Mask) popcount() int {
	n := 0
	for _, w := range m.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Selector draws unmarked coordinates uniformly from a generator. The mask is
// shared by every generator a session uses, so no coordinate is returned twice
// across segments.
type Selector struct {
	mask *Mask
	rng  *rand.Rand
}

func NewSelector(mask *Mask, rng *rand.Rand) *Selector {
	return &Selector{mask: mask, rng: rng}
}

// Reseed replaces the generator. The mask is kept.
func (s *Selector) Reseed(rng *rand.Rand) {
	s.rng = rng
}

// Draw samples coordinates until it finds an unmarked one, marks it and
// returns it. Draw never returns on a saturated mask; callers check Free first.
func (s *Selector) Draw() Point {
	for {
		p := Point{
			X: s.rng.IntN(s.mask.width),
			Y: s.rng.IntN(s.mask.height),
		}
		if s.mask.Mark(p) {
			return p
		}
	}
}

// DrawN fills dst with len(dst) fresh coordinates.
func (s *Selector) DrawN(dst []Point) {
	for i := range dst {
		dst[i] = s.Draw()
	}
}
