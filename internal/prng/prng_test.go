package prng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSameSeedSameStream(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.SliceOfN(rapid.Byte(), 1, KeySize).Draw(t, "seed")
		a, err := NewSource(seed)
		if err != nil {
			t.Fatalf("new source: %v", err)
		}
		b, err := NewSource(seed)
		if err != nil {
			t.Fatalf("new source: %v", err)
		}
		// cross the block boundary a few times
		for i := 0; i < 3*blockBytes/8+5; i++ {
			if a.Uint64() != b.Uint64() {
				t.Fatalf("streams diverged at %d", i)
			}
		}
	})
}

func TestDifferentSeedsDiffer(t *testing.T) {
	a, err := NewSource([]byte("alpha"))
	require.NoError(t, err)
	b, err := NewSource([]byte("beta"))
	require.NoError(t, err)

	assert.NotEqual(t, a.Uint64(), b.Uint64())
}

func TestSeedSize(t *testing.T) {
	_, err := NewSource(nil)
	assert.ErrorIs(t, err, ErrSeedSize)

	_, err = NewSource(make([]byte, KeySize+1))
	assert.ErrorIs(t, err, ErrSeedSize)

	_, err = NewSource(make([]byte, KeySize))
	assert.NoError(t, err)
}

func TestRandIntNInRange(t *testing.T) {
	r, err := New([]byte("range"))
	require.NoError(t, err)

	for i := 0; i < 10000; i++ {
		v := r.IntN(7)
		if v < 0 || v >= 7 {
			t.Fatalf("IntN(7) returned %d", v)
		}
	}
}
