package seedchain

import (
	"bytes"
	"crypto/sha512"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDeriveSingleSecret(t *testing.T) { // A
	c, err := Derive([][]byte{[]byte("alpha")}, 100, 100, false)
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	dim := make([]byte, 16)
	dim[15] = 100
	pre := append([]byte("steganon"), dim...)
	pre = append(pre, dim...)
	basis := sha512.Sum512(pre)
	assert.Equal(t, basis[:], Basis(100, 100))

	secret := sha512.Sum512([]byte("alpha"))
	link := sha512.Sum512(append(secret[:], basis[:]...))
	assert.Equal(t, link[32:], c.At(0))
	assert.Len(t, c.At(0), SeedSize)
}

func TestDeriveDependsOnDimensions(t *testing.T) {
	a, err := Derive([][]byte{[]byte("alpha")}, 100, 100, false)
	require.NoError(t, err)
	b, err := Derive([][]byte{[]byte("alpha")}, 100, 101, false)
	require.NoError(t, err)

	assert.NotEqual(t, a.At(0), b.At(0))
}

func TestDeriveChainsPreviousLink(t *testing.T) {
	c, err := Derive([][]byte{[]byte("one"), []byte("two")}, 64, 32, false)
	require.NoError(t, err)

	assert.Equal(t, Link([]byte("two"), c.At(0)), c.At(1))

	// The second layer alone differs from the second layer behind the first.
	alone, err := Derive([][]byte{[]byte("two")}, 64, 32, false)
	require.NoError(t, err)
	assert.NotEqual(t, alone.At(0), c.At(1))
}

func TestDeriveRaw(t *testing.T) {
	c, err := Derive([][]byte{[]byte("raw-seed")}, 10, 10, true)
	require.NoError(t, err)
	assert.Equal(t, []byte("raw-seed"), c.At(0))

	_, err = Derive([][]byte{bytes.Repeat([]byte{1}, SeedSize+1)}, 10, 10, true)
	assert.True(t, errors.Is(err, ErrRawTooLong))
}

func TestDeriveRejectsEmpty(t *testing.T) {
	_, err := Derive(nil, 10, 10, false)
	assert.ErrorIs(t, err, ErrNoSecrets)

	_, err = Derive([][]byte{[]byte("a"), {}}, 10, 10, false)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestAtReturnsCopy(t *testing.T) {
	c, err := Derive([][]byte{[]byte("alpha")}, 8, 8, false)
	require.NoError(t, err)

	s := c.At(0)
	s[0] ^= 0xff
	assert.NotEqual(t, s, c.At(0))
}

func TestDeriveDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 4).Draw(t, "layers")
		secrets := make([][]byte, n)
		for i := range secrets {
			secrets[i] = rapid.SliceOfN(rapid.Byte(), 1, 64).Draw(t, "secret")
		}
		w := rapid.IntRange(1, 5000).Draw(t, "w")
		h := rapid.IntRange(1, 5000).Draw(t, "h")

		a, err := Derive(secrets, w, h, false)
		if err != nil {
			t.Fatalf("derive: %v", err)
		}
		b, err := Derive(secrets, w, h, false)
		if err != nil {
			t.Fatalf("derive: %v", err)
		}
		for i := 0; i < n; i++ {
			if !bytes.Equal(a.At(i), b.At(i)) {
				t.Fatalf("layer %d differs between runs", i)
			}
		}
	})
}
