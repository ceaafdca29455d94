package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

const pbkdf2Iterations = 100000

// DeriveKey derives the 32-byte field-encryption key from the user secret
// and master key, salted with a hash of the stable subject identifier. The
// parameters match the product's key schedule, so keys derived here open
// ciphertexts produced by any other client.
func DeriveKey(secret, masterKey, subject string) []byte {
	salt := sha256.Sum256([]byte(subject))
	return pbkdf2.Key([]byte(secret+masterKey), salt[:], pbkdf2Iterations, keyLength, sha256.New)
}
