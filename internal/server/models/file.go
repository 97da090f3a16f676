package models

import "time"

// File describes an encrypted file. The ciphertext lives in the remote blob
// store under RemoteHandle; everything needed to open it, except the
// password, is kept here.
type File struct {
	ID     string
	UserID string
	// RemoteHandle is the blob store reference (Drive file id or S3 key).
	// Empty until the body has been uploaded.
	RemoteHandle string

	// Nonce is the AES-GCM nonce (12 bytes, base64).
	Nonce string
	// Salt feeds the per-file key derivation (16 bytes, base64). It is
	// unrelated to the user's credential salt.
	Salt string
	// AuthTag duplicates the ciphertext trailer (16 bytes, base64).
	AuthTag string

	FileName string
	MimeType string
	FileSize int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FileEncryption is the set of fields replaced together when a file is
// re-encrypted.
type FileEncryption struct {
	RemoteHandle string
	Nonce        string
	Salt         string
	AuthTag      string
}
