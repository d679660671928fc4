package cryptoutil_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/technokuro/novelBuilder/internal/cryptoutil"
)

const (
	testKey  = "test-crypto-key"
	testSalt = "test-crypto-salt"
)

func TestDeriveHashDeterministic(t *testing.T) {
	a := cryptoutil.DeriveHash("203.0.113.5", "salt", 1000, 64)
	b := cryptoutil.DeriveHash("203.0.113.5", "salt", 1000, 64)
	require.Equal(t, a, b)
}

func TestDeriveHashDistinctInputs(t *testing.T) {
	a := cryptoutil.DeriveHash("203.0.113.5", "salt", 1000, 64)
	b := cryptoutil.DeriveHash("198.51.100.9", "salt", 1000, 64)
	c := cryptoutil.DeriveHash("203.0.113.5", "other-salt", 1000, 64)
	require.NotEqual(t, a, b)
	require.NotEqual(t, a, c)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plaintext := []byte(`{"json":{"accountNo":42},"ip":"203.0.113.5"}`)

	ciphertext, iv, err := cryptoutil.EncryptAES(plaintext, testKey, testSalt)
	require.NoError(t, err)
	require.NotEmpty(t, ciphertext)
	require.Len(t, iv, 16)

	decrypted, err := cryptoutil.DecryptAES(ciphertext, iv, testKey, testSalt)
	require.NoError(t, err)
	require.Equal(t, plaintext, decrypted)
}

func TestEncryptNeverReusesIV(t *testing.T) {
	_, iv1, err := cryptoutil.EncryptAES([]byte("payload"), testKey, testSalt)
	require.NoError(t, err)
	_, iv2, err := cryptoutil.EncryptAES([]byte("payload"), testKey, testSalt)
	require.NoError(t, err)
	require.NotEqual(t, iv1, iv2)
}

func TestDecryptWrongSaltFails(t *testing.T) {
	ciphertext, iv, err := cryptoutil.EncryptAES([]byte("payload"), testKey, testSalt)
	require.NoError(t, err)

	_, err = cryptoutil.DecryptAES(ciphertext, iv, testKey, "different-salt")
	require.Error(t, err)
}

func TestDecryptWrongKeyFails(t *testing.T) {
	ciphertext, iv, err := cryptoutil.EncryptAES([]byte("payload"), testKey, testSalt)
	require.NoError(t, err)

	_, err = cryptoutil.DecryptAES(ciphertext, iv, "different-key", testSalt)
	require.Error(t, err)
}

func TestDecryptTruncatedCiphertext(t *testing.T) {
	ciphertext, iv, err := cryptoutil.EncryptAES([]byte("a longer payload spanning blocks"), testKey, testSalt)
	require.NoError(t, err)

	_, err = cryptoutil.DecryptAES(ciphertext[:len(ciphertext)-1], iv, testKey, testSalt)
	require.ErrorIs(t, err, cryptoutil.ErrDecryptFailed)
}

func TestBase64RoundTrip(t *testing.T) {
	raw := []byte{0x00, 0xff, 0x10, 0x80, 0x7f}
	encoded := cryptoutil.EncodeBase64(raw)
	decoded, err := cryptoutil.DecodeBase64(encoded)
	require.NoError(t, err)
	require.Equal(t, raw, decoded)

	_, err = cryptoutil.DecodeBase64("not-base64!!!")
	require.Error(t, err)
}

func TestRandomString(t *testing.T) {
	a, err := cryptoutil.RandomString(32)
	require.NoError(t, err)
	require.Len(t, a, 32)

	b, err := cryptoutil.RandomString(32)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestConstantTimeEqual(t *testing.T) {
	require.True(t, cryptoutil.ConstantTimeEqual("abc", "abc"))
	require.False(t, cryptoutil.ConstantTimeEqual("abc", "abd"))
	require.False(t, cryptoutil.ConstantTimeEqual("abc", "abcd"))
}
