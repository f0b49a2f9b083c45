// Package cryptox implements the at-rest encryption used by the client:
// AES-GCM for the vault snapshot and for individual credential secrets,
// with the master key derived from a passphrase via Argon2id.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
)

// MaskedSecret is returned in place of a secret whose ciphertext could not
// be decrypted. Decryption failure of a single field is not propagated.
const MaskedSecret = "********"

// NonceSize is the AES-GCM nonce length in bytes.
const NonceSize = 12

// DeriveMasterKey derives a 32-byte AES key from a passphrase and salt.
func DeriveMasterKey(passphrase []byte, salt []byte) []byte {
	return deriveArgon2id(passphrase, salt)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// EncryptBlob encrypts plaintext with AES-GCM under key, using a fresh
// random nonce. Ciphertext and nonce are returned separately so they can be
// stored as two columns.
func EncryptBlob(plaintext, key []byte) (ciphertext, nonce []byte, err error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}
	nonce = make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}
	return aead.Seal(nil, nonce, plaintext, nil), nonce, nil
}

// DecryptBlob reverses EncryptBlob.
func DecryptBlob(ciphertext, nonce, key []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	return aead.Open(nil, nonce, ciphertext, nil)
}

// EncryptSecret encrypts a secret string and returns base64-encoded
// ciphertext and IV, the form credentials carry over the wire and at rest.
func EncryptSecret(plaintext string, key []byte) (cipherB64, ivB64 string, err error) {
	ciphertext, nonce, err := EncryptBlob([]byte(plaintext), key)
	if err != nil {
		return "", "", err
	}
	return base64.StdEncoding.EncodeToString(ciphertext),
		base64.StdEncoding.EncodeToString(nonce), nil
}

// DecryptSecret reverses EncryptSecret. Callers that render secrets should
// substitute MaskedSecret when an error is returned.
func DecryptSecret(cipherB64, ivB64 string, key []byte) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(cipherB64)
	if err != nil {
		return "", err
	}
	nonce, err := base64.StdEncoding.DecodeString(ivB64)
	if err != nil {
		return "", err
	}
	plaintext, err := DecryptBlob(ciphertext, nonce, key)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
