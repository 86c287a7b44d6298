// Package vault protects a session's cookie set at rest. Blobs are
// AES-256-GCM over the JSON encoding of the cookie set, nonce-prefixed and
// base64 wrapped, so a stolen ledger row is useless without the process
// key and a tampered blob fails authentication instead of decoding to
// garbage.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/xkilldash9x/socialine-cli/api/schemas"
)

const keySize = 32

// Vault implements schemas.CredentialVault.
type Vault struct {
	aead cipher.AEAD
}

var _ schemas.CredentialVault = (*Vault)(nil)

// New builds a vault from a raw 32 byte key.
func New(key []byte) (*Vault, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("vault key must be %d bytes, got %d", keySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AEAD: %w", err)
	}
	return &Vault{aead: aead}, nil
}

// NewFromHex builds a vault from the hex-encoded key held in config.
func NewFromHex(hexKey string) (*Vault, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("vault key is not valid hex: %w", err)
	}
	return New(key)
}

// GenerateKey produces a fresh random key, hex encoded for config use.
func GenerateKey() (string, error) {
	key := make([]byte, keySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("failed to generate vault key: %w", err)
	}
	return hex.EncodeToString(key), nil
}

// Encode seals a cookie set into a storable blob.
func (v *Vault) Encode(cookies []schemas.Cookie) (string, error) {
	plaintext, err := json.Marshal(cookies)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cookie set: %w", err)
	}

	nonce := make([]byte, v.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := v.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decode opens a blob back into its cookie set. Every malformed input
// (bad base64, truncated blob, failed auth tag, bad JSON) surfaces as
// schemas.ErrDecode so callers treat it identically to "no valid session".
func (v *Vault) Decode(blob string) ([]schemas.Cookie, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid encoding", schemas.ErrDecode)
	}
	if len(raw) < v.aead.NonceSize() {
		return nil, fmt.Errorf("%w: blob too short", schemas.ErrDecode)
	}

	nonce, ciphertext := raw[:v.aead.NonceSize()], raw[v.aead.NonceSize():]
	plaintext, err := v.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: authentication failed", schemas.ErrDecode)
	}

	var cookies []schemas.Cookie
	if err := json.Unmarshal(plaintext, &cookies); err != nil {
		return nil, fmt.Errorf("%w: corrupt payload", schemas.ErrDecode)
	}
	return cookies, nil
}
