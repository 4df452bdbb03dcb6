// Package credential implements reversible password storage.
//
// Stored values use the OpenSSL "Salted__" envelope: an 8-byte random salt,
// AES-256-CBC with PKCS#7 padding, key and IV derived from the shared secret
// with EVP_BytesToKey (MD5, one round), all base64 encoded. The same envelope
// is read and written by `openssl enc -aes-256-cbc -md md5 -base64`.
//
// Passwords stored this way can be recovered by anyone holding the secret.
package credential

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

const (
	saltHeader = "Salted__"
	saltLen    = 8
	keyLen     = 32
)

// ErrMalformed is returned when a stored value was not produced by Encode
// with the codec's secret.
var ErrMalformed = errors.New("credential: malformed stored value")

// Codec encodes and decodes passwords with a shared secret.
type Codec struct {
	secret []byte
	rand   io.Reader
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret), rand: rand.Reader}
}

// Encode encrypts plaintext under a fresh salt.
func (c *Codec) Encode(plaintext string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(c.rand, salt); err != nil {
		return "", fmt.Errorf("credential: read salt: %w", err)
	}

	key, iv := deriveKeyIV(c.secret, salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("credential: %w", err)
	}

	padded := pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(saltHeader)+saltLen+len(padded))
	copy(out, saltHeader)
	copy(out[len(saltHeader):], salt)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[len(saltHeader)+saltLen:], padded)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Decode recovers the plaintext from a value produced by Encode.
func (c *Codec) Decode(stored string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return "", ErrMalformed
	}
	if len(raw) < len(saltHeader)+saltLen || !bytes.HasPrefix(raw, []byte(saltHeader)) {
		return "", ErrMalformed
	}

	salt := raw[len(saltHeader) : len(saltHeader)+saltLen]
	ciphertext := raw[len(saltHeader)+saltLen:]
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", ErrMalformed
	}

	key, iv := deriveKeyIV(c.secret, salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("credential: %w", err)
	}

	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ciphertext)

	plain, ok := unpad(plain, aes.BlockSize)
	if !ok || !utf8.Valid(plain) {
		return "", ErrMalformed
	}
	return string(plain), nil
}

// Matches reports whether stored decodes to candidate.
func (c *Codec) Matches(stored, candidate string) (bool, error) {
	plain, err := c.Decode(stored)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(plain), []byte(candidate)) == 1, nil
}

// deriveKeyIV is OpenSSL's EVP_BytesToKey with MD5 and a single iteration.
func deriveKeyIV(secret, salt []byte) (key, iv []byte) {
	var (
		derived []byte
		prev    []byte
	)
	for len(derived) < keyLen+aes.BlockSize {
		h := md5.New()
		h.Write(prev)
		h.Write(secret)
		h.Write(salt)
		prev = h.Sum(nil)
		derived = append(derived, prev...)
	}
	return derived[:keyLen], derived[keyLen : keyLen+aes.BlockSize]
}

func pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	return append(append([]byte{}, b...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(b []byte, blockSize int) ([]byte, bool) {
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize || n > len(b) {
		return nil, false
	}
	for _, v := range b[len(b)-n:] {
		if int(v) != n {
			return nil, false
		}
	}
	return b[:len(b)-n], true
}
