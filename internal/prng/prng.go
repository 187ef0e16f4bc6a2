// Package prng provides the deterministic generator that walks over pixel
// coordinates. It is a ChaCha20 keystream keyed by a segment seed and exposed
// as a math/rand/v2 Source, so the walk is identical on every platform.
package prng

import (
	"encoding/binary"
	"errors"
	"math/rand/v2"

	"golang.org/x/crypto/chacha20"
)

// KeySize is the largest seed accepted. Shorter seeds are zero-padded.
const KeySize = chacha20.KeySize

const blockBytes = 512

var ErrSeedSize = errors.New("prng: seed must be 1 to 32 bytes")

// Source is a rand.Source backed by a ChaCha20 keystream with a zero nonce.
type Source struct {
	cipher *chacha20.Cipher
	buf    [blockBytes]byte
	pos    int
}

var _ rand.Source = (*Source)(nil)

// NewSource keys a new keystream with seed.
func NewSource(seed []byte) (*Source, error) {
	if len(seed) == 0 || len(seed) > KeySize {
		return nil, ErrSeedSize
	}
	key := make([]byte, KeySize)
	copy(key, seed)

	c, err := chacha20.NewUnauthenticatedCipher(key, make([]byte, chacha20.NonceSize))
	if err != nil {
		return nil, err
	}
	return &Source{cipher: c, pos: blockBytes}, nil
}

// Uint64 returns the next 8 keystream bytes as a little-endian integer.
func (s *Source) Uint64() uint64 {
	if s.pos+8 > blockBytes {
		clear(s.buf[:])
		s.cipher.XORKeyStream(s.buf[:], s.buf[:])
		s.pos = 0
	}
	v := binary.LittleEndian.Uint64(s.buf[s.pos:])
	s.pos += 8
	return v
}

// New returns a *rand.Rand over a fresh Source for seed.
func New(seed []byte) (*rand.Rand, error) {
	src, err := NewSource(seed)
	if err != nil {
		return nil, err
	}
	return rand.New(src), nil
}
