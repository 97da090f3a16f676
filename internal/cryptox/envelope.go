package cryptox

import (
	"encoding/base64"
	"fmt"

	"github.com/dmitrijs2005/gophvault/internal/common"
)

// Envelope is a sealed file body plus the non-secret values needed to open
// it again with the password.
type Envelope struct {
	Ciphertext []byte
	Nonce      []byte
	Salt       []byte
	AuthTag    []byte
}

// Seal encrypts plaintext under a key derived from password and a fresh
// salt. Sealing the same input twice yields unrelated envelopes.
func Seal(plaintext []byte, password string) (*Envelope, error) {
	salt := NewSalt()

	key, err := DeriveKey(password, salt)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	ciphertext, nonce, err := Encrypt(plaintext, key)
	if err != nil {
		return nil, err
	}

	return &Envelope{
		Ciphertext: ciphertext,
		Nonce:      nonce,
		Salt:       salt,
		AuthTag:    AuthTag(ciphertext),
	}, nil
}

// Open reverses Seal.
func Open(e *Envelope, password string) ([]byte, error) {
	key, err := DeriveKey(password, e.Salt)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	return Decrypt(e.Ciphertext, key, e.Nonce)
}

// EncodeB64 is the text form used for every binary field that leaves the
// process (database columns, RPC messages).
func EncodeB64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeB64 decodes a value written by EncodeB64.
func DecodeB64(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidCredentialInput, err)
	}
	return b, nil
}

// OpenEncoded opens a ciphertext whose nonce and salt are stored as base64.
func OpenEncoded(ciphertext []byte, password, nonceB64, saltB64 string) ([]byte, error) {
	nonce, err := DecodeB64(nonceB64)
	if err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}
	salt, err := DecodeB64(saltB64)
	if err != nil {
		return nil, fmt.Errorf("salt: %w", err)
	}
	return Open(&Envelope{Ciphertext: ciphertext, Nonce: nonce, Salt: salt}, password)
}
