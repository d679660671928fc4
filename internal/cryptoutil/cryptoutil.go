// Package cryptoutil provides the symmetric primitives behind the session
// token scheme: salted iterated hashing, AES-256-CBC encryption with a
// scrypt-derived key, and the text-safe encodings used to embed ciphertext
// in token claims.
package cryptoutil

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"

	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// ErrDecryptFailed is returned for any decryption failure: wrong key or
// salt, mismatched IV, truncated or corrupted ciphertext. Callers treat it
// as proof of tampering, never as a transient condition.
var ErrDecryptFailed = errors.New("decrypt failed")

// scrypt parameters matching the defaults of the encryption this scheme
// was deployed with. Changing them invalidates every outstanding token.
const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
)

// EncodeBase64 returns the standard base64 encoding of b.
func EncodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeBase64 decodes a standard base64 string.
func DecodeBase64(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "cryptoutil.DecodeBase64")
	}
	return b, nil
}

// DeriveHash computes a salted, iterated PBKDF2-SHA512 digest of input and
// returns it base64 encoded. It is deterministic for a given
// (input, salt, iterations, length) and serves both as the password digest
// and as the keyed fingerprint of client IP addresses.
func DeriveHash(input, salt string, iterations, length int) string {
	key := pbkdf2.Key([]byte(input), []byte(salt), iterations, length, sha512.New)
	return base64.StdEncoding.EncodeToString(key)
}

// ConstantTimeEqual compares two digests without leaking the position of
// the first differing byte.
func ConstantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// EncryptAES derives a 256-bit key from key and salt via scrypt, generates
// a fresh random IV, and encrypts plaintext with AES-256-CBC and PKCS#7
// padding. The IV is never reused across calls.
func EncryptAES(plaintext []byte, key, salt string) (ciphertext, iv []byte, err error) {
	derived, err := scrypt.Key([]byte(key), []byte(salt), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cryptoutil.EncryptAES scrypt")
	}

	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cryptoutil.EncryptAES cipher")
	}

	iv = make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, nil, errors.Wrap(err, "cryptoutil.EncryptAES iv")
	}

	padded := padPKCS7(plaintext, aes.BlockSize)
	ciphertext = make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)
	return ciphertext, iv, nil
}

// DecryptAES inverts EncryptAES. Any mismatch between the key, salt or IV
// and the values used at encryption time surfaces as ErrDecryptFailed.
func DecryptAES(ciphertext, iv []byte, key, salt string) ([]byte, error) {
	derived, err := scrypt.Key([]byte(key), []byte(salt), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, errors.Wrap(err, "cryptoutil.DecryptAES scrypt")
	}

	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, errors.Wrap(err, "cryptoutil.DecryptAES cipher")
	}

	if len(iv) != aes.BlockSize || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, ErrDecryptFailed
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)
	return unpadPKCS7(plaintext, aes.BlockSize)
}

const randomChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomString returns a random alphanumeric string of the given length.
func RandomString(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "cryptoutil.RandomString")
	}
	for i, b := range buf {
		buf[i] = randomChars[int(b)%len(randomChars)]
	}
	return string(buf), nil
}

func padPKCS7(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	padded := make([]byte, len(b)+n)
	copy(padded, b)
	for i := len(b); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func unpadPKCS7(b []byte, blockSize int) ([]byte, error) {
	if len(b) == 0 || len(b)%blockSize != 0 {
		return nil, ErrDecryptFailed
	}
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize {
		return nil, ErrDecryptFailed
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, ErrDecryptFailed
		}
	}
	return b[:len(b)-n], nil
}
