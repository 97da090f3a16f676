package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/dmitrijs2005/gophvault/internal/common"
)

const (
	// NonceSize is the AES-GCM nonce length.
	NonceSize = 12
	// TagSize is the GCM authentication tag length appended to ciphertexts.
	TagSize = 16
)

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d", common.ErrInvalidCredentialInput, KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Encrypt seals plaintext with AES-256-GCM under key. A new random 12-byte
// nonce is generated for each call and returned next to the ciphertext; the
// 16-byte tag is the ciphertext trailer.
func Encrypt(plaintext, key []byte) (ciphertext, nonce []byte, err error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = common.GenerateRandByteArray(NonceSize)
	ciphertext = aesgcm.Seal(nil, nonce, plaintext, nil)

	return ciphertext, nonce, nil
}

// Decrypt opens a ciphertext produced by Encrypt.
//
// A wrong key, a wrong nonce and a modified ciphertext or tag are
// indistinguishable: all of them yield common.ErrAuthenticationFailure.
func Decrypt(ciphertext, key, nonce []byte) ([]byte, error) {
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: nonce must be %d bytes, got %d", common.ErrInvalidCredentialInput, NonceSize, len(nonce))
	}
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, common.ErrAuthenticationFailure
	}
	return plaintext, nil
}

// AuthTag returns a copy of the GCM tag carried at the end of ciphertext,
// or nil if the ciphertext is too short to hold one.
func AuthTag(ciphertext []byte) []byte {
	if len(ciphertext) < TagSize {
		return nil
	}
	tag := make([]byte, TagSize)
	copy(tag, ciphertext[len(ciphertext)-TagSize:])
	return tag
}
