package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// FieldDecrypter is the decryption capability the core consumes. Key
// derivation and storage happen outside the core; implementations only need
// to turn a ciphertext string into plaintext.
//
// DecryptAmount and DecryptText never abort a batch: on failure they return
// the documented fallback (zero / nil) together with the error so callers
// can record the degradation.
type FieldDecrypter interface {
	// Decrypt is the raw fallible primitive.
	Decrypt(ctx context.Context, ciphertext string) (string, error)

	// DecryptAmount decrypts a numeric field, degrading to zero on failure.
	DecryptAmount(ctx context.Context, ciphertext string) (decimal.Decimal, error)

	// DecryptText decrypts a free-text field, degrading to nil on failure.
	DecryptText(ctx context.Context, ciphertext string) (*string, error)

	// KeyID identifies the underlying key material without exposing it, so
	// cached results can be invalidated when the capability changes.
	KeyID() string
}
