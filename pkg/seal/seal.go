// Package seal encrypts payloads with a passphrase before they are hidden.
// Hidden bytes are only as secret as the seed; sealing adds a second,
// independent secret and authenticates the payload on extraction.
//
// Layout: salt(16) | nonce(24) | XChaCha20-Poly1305 ciphertext.
package seal

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize = 16
	// Rounds is the PBKDF2-SHA256 iteration count.
	Rounds = 210_000
)

// Overhead is the number of bytes Seal adds to a plaintext.
const Overhead = SaltSize + chacha20poly1305.NonceSizeX + chacha20poly1305.Overhead

var (
	ErrEmptyPassphrase = errors.New("seal: passphrase can not be empty")
	ErrTooShort        = errors.New("seal: sealed data too short")
	ErrOpen            = errors.New("seal: wrong passphrase or corrupted data")
)

var additionalData = []byte("steganon-seal-v1")

func deriveKey(passphrase, salt []byte) []byte {
	return pbkdf2.Key(passphrase, salt, Rounds, chacha20poly1305.KeySize, sha256.New)
}

// Seal encrypts plaintext under passphrase with a fresh salt and nonce.
func Seal(passphrase, plaintext []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}

	out := make([]byte, SaltSize+chacha20poly1305.NonceSizeX, Overhead+len(plaintext))
	if _, err := rand.Read(out); err != nil {
		return nil, fmt.Errorf("seal: read random: %w", err)
	}
	salt, nonce := out[:SaltSize], out[SaltSize:]

	aead, err := chacha20poly1305.NewX(deriveKey(passphrase, salt))
	if err != nil {
		return nil, fmt.Errorf("seal: %w", err)
	}
	return aead.Seal(out, nonce, plaintext, additionalData), nil
}

// Open reverses Seal.
func Open(passphrase, sealed []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}
	if len(sealed) < Overhead {
		return nil, ErrTooShort
	}
	salt := sealed[:SaltSize]
	nonce := sealed[SaltSize : SaltSize+chacha20poly1305.NonceSizeX]
	ciphertext := sealed[SaltSize+chacha20poly1305.NonceSizeX:]

	aead, err := chacha20poly1305.NewX(deriveKey(passphrase, salt))
	if err != nil {
		return nil, fmt.Errorf("seal: %w", err)
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, additionalData)
	if err != nil {
		return nil, ErrOpen
	}
	return plaintext, nil
}
