// Package seedchain derives the ordered chain of PRNG seeds that select pixels
// for every hidden segment of an image.
//
// In derived mode each link is bound to the image dimensions and to every
// previous link, so knowing the seed of layer N never reveals layer N+1 and
// the same secrets behave differently on images of different size.
package seedchain

import (
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"
)

// SeedSize is the length of a derived seed: the second half of a SHA-512 digest.
const SeedSize = sha512.Size / 2

// protocolConstant is mixed into the basis of every chain. Changing it breaks
// every image hidden before.
var protocolConstant = []byte("steganon")

var (
	ErrNoSecrets   = errors.New("seedchain: at least one secret is required")
	ErrEmptySecret = errors.New("seedchain: secret can not be empty")
	ErrRawTooLong  = fmt.Errorf("seedchain: raw seed is longer than %d bytes", SeedSize)
)

// Chain is an immutable ordered list of seeds, one per secret layer.
type Chain struct {
	seeds [][]byte
}

// Derive builds a Chain for an image of the given dimensions. In raw mode the
// secrets are used verbatim; that mode exists for reproducibility and tests
// and is not recommended.
func Derive(secrets [][]byte, width, height int, raw bool) (*Chain, error) { // A
	if len(secrets) == 0 {
		return nil, ErrNoSecrets
	}
	for i, s := range secrets {
		if len(s) == 0 {
			return nil, fmt.Errorf("secret %d: %w", i, ErrEmptySecret)
		}
		if raw && len(s) > SeedSize {
			return nil, fmt.Errorf("secret %d: %w", i, ErrRawTooLong)
		}
	}

	seeds := make([][]byte, len(secrets))
	if raw {
		for i, s := range secrets {
			seeds[i] = append([]byte(nil), s...)
		}
		return &Chain{seeds: seeds}, nil
	}

	prev := Basis(width, height)
	for i, s := range secrets {
		seeds[i] = Link(s, prev)
		prev = seeds[i]
	}
	return &Chain{seeds: seeds}, nil
}

// Basis is the digest of the protocol constant and the image dimensions. It
// acts as the link before the first seed.
func Basis(width, height int) []byte {
	buf := make([]byte, 0, len(protocolConstant)+32)
	buf = append(buf, protocolConstant...)
	buf = appendUint128(buf, uint64(width))
	buf = appendUint128(buf, uint64(height))

	sum := sha512.Sum512(buf)
	return sum[:]
}

// Link derives the seed of one layer from its secret and the previous link.
func Link(secret, prev []byte) []byte {
	secretSum := sha512.Sum512(secret)

	h := sha512.New()
	h.Write(secretSum[:])
	h.Write(prev)
	sum := h.Sum(nil)

	return sum[SeedSize:]
}

// appendUint128 writes v as a 16 byte big-endian integer.
func appendUint128(buf []byte, v uint64) []byte {
	buf = append(buf, make([]byte, 8)...)
	return binary.BigEndian.AppendUint64(buf, v)
}

// Len returns the number of layers.
func (c *Chain) Len() int { return len(c.seeds) }

// At returns a copy of the seed of layer i.
func (c *Chain) At(i int) []byte {
	return append([]byte(nil), c.seeds[i]...)
}
