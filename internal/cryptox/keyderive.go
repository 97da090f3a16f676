// Package cryptox implements the password-based envelope used for stored
// files: PBKDF2 key derivation, AES-256-GCM sealing and the storable
// password verifier.
package cryptox

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the length of every salt: per-user credential salts and
	// per-file key salts alike.
	SaltSize = 16
	// KeySize is the AES-256 key length.
	KeySize = 32
	// VerifierSize is the length of the stored password verifier.
	VerifierSize = 32
	// Iterations is the PBKDF2-HMAC-SHA256 work factor.
	Iterations = 100_000
)

// verifierInfo separates the verifier from file keys derived with the same
// password and salt.
const verifierInfo = "gophvault password verifier v1"

func checkInput(password string, salt []byte) error {
	if password == "" {
		return fmt.Errorf("%w: empty password", common.ErrInvalidCredentialInput)
	}
	if len(salt) != SaltSize {
		return fmt.Errorf("%w: salt must be %d bytes, got %d", common.ErrInvalidCredentialInput, SaltSize, len(salt))
	}
	return nil
}

func stretch(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, Iterations, KeySize, sha256.New)
}

// DeriveKey turns a password and a 16-byte salt into an AES-256 key.
//
// The result is the raw PBKDF2-HMAC-SHA256 output, which is what WebCrypto
// produces for deriveKey(PBKDF2 -> AES-GCM 256), so payloads sealed in a
// browser open here with the same password and salt.
func DeriveKey(password string, salt []byte) ([]byte, error) {
	if err := checkInput(password, salt); err != nil {
		return nil, err
	}
	return stretch(password, salt), nil
}

// DeriveVerifier returns the value stored to check a password later. It is
// never used as a key: the PBKDF2 output is passed through HKDF-SHA256 with
// a verifier-specific info string first.
func DeriveVerifier(password string, salt []byte) ([]byte, error) {
	if err := checkInput(password, salt); err != nil {
		return nil, err
	}

	prk := stretch(password, salt)
	defer common.WipeByteArray(prk)

	out := make([]byte, VerifierSize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, prk, salt, []byte(verifierInfo)), out); err != nil {
		return nil, fmt.Errorf("verifier expansion: %w", err)
	}
	return out, nil
}

// NewSalt returns a fresh random 16-byte salt.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}
