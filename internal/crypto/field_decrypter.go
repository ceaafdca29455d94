// Package crypto implements the field-level decryption adapter for the
// product's end-to-end encryption scheme: AES-256-GCM with the wire layout
// base64( iv[12] || authTag[16] || ciphertext ). Numeric fields are
// encrypted as UTF-8 decimal strings.
package crypto

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/centavohq/centavo-books/internal/core/ports"
)

const (
	ivLength  = 12
	tagLength = 16
	keyLength = 32
)

// AESFieldDecrypter decrypts individual encrypted scalar fields with a
// caller-supplied symmetric key. It is safe for concurrent use: the key is
// read-only and every call allocates its own buffers.
type AESFieldDecrypter struct {
	aead  cipher.AEAD
	keyID string
}

var _ ports.FieldDecrypter = (*AESFieldDecrypter)(nil)

// NewAESFieldDecrypter builds a decrypter from a 32-byte AES key.
func NewAESFieldDecrypter(key []byte) (*AESFieldDecrypter, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("invalid key length %d, want %d", len(key), keyLength)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GCM: %w", err)
	}
	sum := sha256.Sum256(key)
	return &AESFieldDecrypter{
		aead:  aead,
		keyID: hex.EncodeToString(sum[:8]),
	}, nil
}

// NewAESFieldDecrypterFromHex builds a decrypter from the hex key string the
// key-management collaborator hands out.
func NewAESFieldDecrypterFromHex(hexKey string) (*AESFieldDecrypter, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid hex key: %w", err)
	}
	return NewAESFieldDecrypter(key)
}

// KeyID identifies the key material without exposing it.
func (d *AESFieldDecrypter) KeyID() string {
	return d.keyID
}

// Decrypt opens one ciphertext field. It fails on malformed input or a key
// mismatch; callers wanting the degrade-to-default behavior use
// DecryptAmount / DecryptText instead.
func (d *AESFieldDecrypter) Decrypt(ctx context.Context, ciphertext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("malformed ciphertext: %w", err)
	}
	if len(data) < ivLength+tagLength {
		return "", fmt.Errorf("ciphertext too short: %d bytes", len(data))
	}
	iv := data[:ivLength]
	tag := data[ivLength : ivLength+tagLength]
	sealed := data[ivLength+tagLength:]

	// GCM in the standard library expects ciphertext||tag.
	combined := make([]byte, 0, len(sealed)+tagLength)
	combined = append(combined, sealed...)
	combined = append(combined, tag...)

	plaintext, err := d.aead.Open(nil, iv, combined, nil)
	if err != nil {
		return "", fmt.Errorf("decryption failed: %w", err)
	}
	return string(plaintext), nil
}

// DecryptAmount decrypts a numeric field. On any failure it degrades to
// zero and reports the error, so a single bad field never aborts a batch.
func (d *AESFieldDecrypter) DecryptAmount(ctx context.Context, ciphertext string) (decimal.Decimal, error) {
	plaintext, err := d.Decrypt(ctx, ciphertext)
	if err != nil {
		return decimal.Zero, err
	}
	amount, err := decimal.NewFromString(plaintext)
	if err != nil {
		return decimal.Zero, fmt.Errorf("decrypted amount is not numeric: %w", err)
	}
	return amount, nil
}

// DecryptText decrypts a free-text field, degrading to nil on failure.
func (d *AESFieldDecrypter) DecryptText(ctx context.Context, ciphertext string) (*string, error) {
	plaintext, err := d.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, err
	}
	return &plaintext, nil
}
