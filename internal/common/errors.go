// Package common defines shared constants, sentinel errors and small helpers
// used across client and server layers of GophVault. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Credential and encryption errors.
	ErrInvalidCredentialInput = errors.New("invalid credential input")
	ErrNoCredentialRecord     = errors.New("no credential record, set a password first")
	ErrAuthenticationFailure  = errors.New("incorrect password")
	ErrPasswordTooShort       = errors.New("password must be at least 8 characters")

	// Remote blob store errors. Transport failures are wrapped with it.
	ErrRemoteStore = errors.New("remote store failure")

	// Google account is not linked for the user.
	ErrNotConnected = errors.New("google drive not connected")

	// Re-encryption job errors.
	ErrJobOrchestration   = errors.New("job orchestration failure")
	ErrRotationInProgress = errors.New("password change already in progress")
	ErrShuttingDown       = errors.New("server is shutting down")
)
