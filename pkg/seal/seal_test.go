package seal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundTrip(t *testing.T) {
	msg := []byte("meet at the usual place")
	sealed, err := Seal([]byte("pass"), msg)
	require.NoError(t, err)
	assert.Len(t, sealed, len(msg)+Overhead)

	got, err := Open([]byte("pass"), sealed)
	require.NoError(t, err)
	assert.Equal(t, msg, got)
}

func TestSealFreshSalt(t *testing.T) {
	a, err := Seal([]byte("pass"), []byte("x"))
	require.NoError(t, err)
	b, err := Seal([]byte("pass"), []byte("x"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestOpenWrongPassphrase(t *testing.T) {
	sealed, err := Seal([]byte("right"), []byte("secret"))
	require.NoError(t, err)

	_, err = Open([]byte("wrong"), sealed)
	assert.ErrorIs(t, err, ErrOpen)
}

func TestOpenTampered(t *testing.T) {
	sealed, err := Seal([]byte("pass"), []byte("secret"))
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 1

	_, err = Open([]byte("pass"), sealed)
	assert.ErrorIs(t, err, ErrOpen)
}

func TestRejectsBadInput(t *testing.T) {
	_, err := Seal(nil, []byte("x"))
	assert.ErrorIs(t, err, ErrEmptyPassphrase)

	_, err = Open([]byte("pass"), make([]byte, Overhead-1))
	assert.ErrorIs(t, err, ErrTooShort)
}
