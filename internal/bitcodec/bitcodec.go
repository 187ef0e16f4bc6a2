// Package bitcodec converts byte streams to single bits and back,
// most-significant bit first. Both directions keep their position between
// calls, so a stream fed in pieces yields the same bits as one fed at once.
package bitcodec

// BitsPerPixel is the number of payload bits one pixel carries (R, G, B).
const BitsPerPixel = 3

// PixelsFor returns how many pixels hold n bits.
func PixelsFor(nbits int) int {
	return (nbits + BitsPerPixel - 1) / BitsPerPixel
}

// Reader yields the bits of a byte slice.
type Reader struct {
	data []byte
	pos  int // bit offset into data
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Next returns the next bit, or ok=false once every bit was read.
func (r *Reader) Next() (bit uint8, ok bool) {
	if r.pos >= len(r.data)*8 {
		return 0, false
	}
	b := r.data[r.pos/8]
	bit = (b >> (7 - uint(r.pos%8))) & 1
	r.pos++
	return bit, true
}

// Remaining is the number of unread bits.
func (r *Reader) Remaining() int {
	return len(r.data)*8 - r.pos
}

// Assembler collects bits into bytes. A partial byte survives between calls.
type Assembler struct {
	acc uint8
	n   uint8
}

// Push adds one bit. When it completes a byte the byte is returned with
// done=true and the assembler starts over.
func (a *Assembler) Push(bit uint8) (b byte, done bool) {
	a.acc = a.acc<<1 | bit&1
	a.n++
	if a.n < 8 {
		return 0, false
	}
	b = a.acc
	a.acc, a.n = 0, 0
	return b, true
}

// Pending is the number of bits of the unfinished byte.
func (a *Assembler) Pending() int { return int(a.n) }

// Reset drops any unfinished byte.
func (a *Assembler) Reset() {
	a.acc, a.n = 0, 0
}
