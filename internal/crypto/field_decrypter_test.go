package crypto_test

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcrypto "github.com/centavohq/centavo-books/internal/crypto"
)

// sealField produces a ciphertext in the product wire layout:
// base64( iv[12] || authTag[16] || ciphertext ).
func sealField(t *testing.T, key []byte, plaintext string) string {
	t.Helper()
	block, err := aes.NewCipher(key)
	require.NoError(t, err)
	aead, err := cipher.NewGCM(block)
	require.NoError(t, err)

	iv := make([]byte, 12)
	_, err = rand.Read(iv)
	require.NoError(t, err)

	sealed := aead.Seal(nil, iv, []byte(plaintext), nil) // ciphertext||tag
	ct := sealed[:len(sealed)-16]
	tag := sealed[len(sealed)-16:]

	out := make([]byte, 0, len(sealed)+12)
	out = append(out, iv...)
	out = append(out, tag...)
	out = append(out, ct...)
	return base64.StdEncoding.EncodeToString(out)
}

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestDecryptRoundtrip(t *testing.T) {
	key := testKey(t)
	dec, err := appcrypto.NewAESFieldDecrypter(key)
	require.NoError(t, err)

	ciphertext := sealField(t, key, "groceries at the corner store")
	plaintext, err := dec.Decrypt(context.Background(), ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "groceries at the corner store", plaintext)
}

func TestDecryptWrongKey(t *testing.T) {
	key := testKey(t)
	otherKey := testKey(t)
	dec, err := appcrypto.NewAESFieldDecrypter(otherKey)
	require.NoError(t, err)

	_, err = dec.Decrypt(context.Background(), sealField(t, key, "secret"))
	assert.Error(t, err)
}

func TestDecryptMalformedInputs(t *testing.T) {
	dec, err := appcrypto.NewAESFieldDecrypter(testKey(t))
	require.NoError(t, err)

	cases := map[string]string{
		"not base64":    "%%%not-base64%%%",
		"too short":     base64.StdEncoding.EncodeToString([]byte("short")),
		"empty payload": "",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := dec.Decrypt(context.Background(), input)
			assert.Error(t, err)
		})
	}
}

func TestDecryptAmount(t *testing.T) {
	key := testKey(t)
	dec, err := appcrypto.NewAESFieldDecrypter(key)
	require.NoError(t, err)

	amount, err := dec.DecryptAmount(context.Background(), sealField(t, key, "1234.56"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1234.56").Equal(amount))
}

func TestDecryptAmountDegradesToZero(t *testing.T) {
	key := testKey(t)
	dec, err := appcrypto.NewAESFieldDecrypter(key)
	require.NoError(t, err)

	// Corrupt ciphertext degrades to zero with an error.
	amount, err := dec.DecryptAmount(context.Background(), "garbage")
	assert.Error(t, err)
	assert.True(t, amount.IsZero())

	// A field that decrypts to non-numeric text degrades the same way.
	amount, err = dec.DecryptAmount(context.Background(), sealField(t, key, "not a number"))
	assert.Error(t, err)
	assert.True(t, amount.IsZero())
}

func TestDecryptTextDegradesToNil(t *testing.T) {
	dec, err := appcrypto.NewAESFieldDecrypter(testKey(t))
	require.NoError(t, err)

	text, err := dec.DecryptText(context.Background(), "garbage")
	assert.Error(t, err)
	assert.Nil(t, text)
}

func TestNewAESFieldDecrypterRejectsBadKeys(t *testing.T) {
	_, err := appcrypto.NewAESFieldDecrypter([]byte("short"))
	assert.Error(t, err)

	_, err = appcrypto.NewAESFieldDecrypterFromHex("zz")
	assert.Error(t, err)
}

func TestKeyIDStableAndDistinct(t *testing.T) {
	key := testKey(t)
	a, err := appcrypto.NewAESFieldDecrypter(key)
	require.NoError(t, err)
	b, err := appcrypto.NewAESFieldDecrypter(key)
	require.NoError(t, err)
	c, err := appcrypto.NewAESFieldDecrypter(testKey(t))
	require.NoError(t, err)

	assert.Equal(t, a.KeyID(), b.KeyID())
	assert.NotEqual(t, a.KeyID(), c.KeyID())
}

func TestDeriveKey(t *testing.T) {
	key := appcrypto.DeriveKey("123456", "master", "+15550001111")
	assert.Len(t, key, 32)

	same := appcrypto.DeriveKey("123456", "master", "+15550001111")
	assert.Equal(t, key, same)

	other := appcrypto.DeriveKey("654321", "master", "+15550001111")
	assert.NotEqual(t, key, other)

	// A derived key is directly usable as a field-decryption capability.
	dec, err := appcrypto.NewAESFieldDecrypter(key)
	require.NoError(t, err)
	plaintext, err := dec.Decrypt(context.Background(), sealField(t, key, "42"))
	require.NoError(t, err)
	assert.Equal(t, "42", plaintext)
}
