package sqlstore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrEncryptionKeyNotSet is returned when an encrypted token is read without
// GRAPHPILOT_SECRET_KEY configured.
var ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set GRAPHPILOT_SECRET_KEY")

// sealedPrefix marks tokens stored as AES-256-GCM ciphertext. Rows without it
// are plaintext, written while no key was configured.
const sealedPrefix = "enc:v1:"

// sealer encrypts tokens at rest. A nil key stores plaintext.
type sealer struct {
	key []byte
}

func newSealer(key []byte) (sealer, error) {
	if key != nil && len(key) != 32 {
		return sealer{}, fmt.Errorf("encryption key must be 32 bytes, got %d", len(key))
	}
	return sealer{key: key}, nil
}

// seal returns sealedPrefix followed by base64(nonce || ciphertext || tag).
func (s sealer) seal(plaintext string) (string, error) {
	if s.key == nil {
		return plaintext, nil
	}

	gcm, err := s.gcm()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return sealedPrefix + base64.StdEncoding.EncodeToString(ciphertext), nil
}

func (s sealer) open(stored string) (string, error) {
	encoded, sealed := strings.CutPrefix(stored, sealedPrefix)
	if !sealed {
		return stored, nil
	}
	if s.key == nil {
		return "", ErrEncryptionKeyNotSet
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}

	gcm, err := s.gcm()
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("gcm.Open: %w", err)
	}
	return string(plaintext), nil
}

func (s sealer) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	return gcm, nil
}
