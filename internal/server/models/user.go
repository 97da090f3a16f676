// Package models defines server-side data models persisted in the database.
// Binary values (salts, nonces, tags, verifiers) are kept in their base64
// text form, which is also how they are stored and sent over the wire.
package models

import "time"

// User is the local account row. ID is the identity provider's user id
// carried in access tokens.
type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
}

// Credential is the per-user password verification record.
// Salt and VerificationHash always change together.
type Credential struct {
	UserID           string
	Salt             string
	VerificationHash string
	UpdatedAt        time.Time
}
