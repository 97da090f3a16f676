package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/cryptox"
	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/dmitrijs2005/gophvault/internal/server/models"
	"github.com/dmitrijs2005/gophvault/internal/server/reencrypt"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/repomanager"
)

// ReEncryptor prepares, starts and reports re-encryption jobs.
type ReEncryptor interface {
	Prepare(ctx context.Context, userID string) (*reencrypt.Reservation, error)
	Launch(ctx context.Context, r *reencrypt.Reservation, oldPassword, newPassword string) (*reencrypt.Task, error)
	Status(jobID string) (reencrypt.Snapshot, error)
	ListJobs(userID string) []reencrypt.Snapshot
}

// CredentialService verifies and rotates the per-user encryption password.
type CredentialService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	engine      ReEncryptor
	log         logging.Logger
}

func NewCredentialService(db *sql.DB, m repomanager.RepositoryManager, engine ReEncryptor, log logging.Logger) *CredentialService {
	return &CredentialService{db: db, repomanager: m, engine: engine, log: log.With("module", "credentials")}
}

// newCredential derives a fresh salt and verifier for password.
func newCredential(userID, password string) (*models.Credential, error) {
	salt := cryptox.NewSalt()
	verifier, err := cryptox.DeriveVerifier(password, salt)
	if err != nil {
		return nil, err
	}
	return &models.Credential{
		UserID:           userID,
		Salt:             cryptox.EncodeB64(salt),
		VerificationHash: cryptox.EncodeB64(verifier),
	}, nil
}

// Verify reports whether password matches the stored verifier. A mismatch
// is (false, nil); errors are reserved for missing records, bad input and
// storage failures.
func (s *CredentialService) Verify(ctx context.Context, userID, password string) (bool, error) {
	if password == "" {
		return false, fmt.Errorf("%w: empty password", common.ErrInvalidCredentialInput)
	}

	cred, err := s.repomanager.Credentials(s.db).Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, common.ErrNoCredentialRecord
		}
		return false, fmt.Errorf("load credential: %w", err)
	}

	salt, err := cryptox.DecodeB64(cred.Salt)
	if err != nil {
		return false, fmt.Errorf("stored salt: %w", err)
	}
	stored, err := cryptox.DecodeB64(cred.VerificationHash)
	if err != nil {
		return false, fmt.Errorf("stored verifier: %w", err)
	}

	candidate, err := cryptox.DeriveVerifier(password, salt)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(candidate, stored) == 1, nil
}

// ChangePassword rotates the credential to newPassword and starts moving
// every file to the new key. When the user already has files the current
// password has to verify, since it is needed to open them.
//
// The job is reserved before the credential is written, so a rotation that
// cannot run leaves the credential untouched and two rotations never
// overlap.
func (s *CredentialService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) (string, error) {
	if len(newPassword) < common.MinPasswordLength {
		return "", common.ErrPasswordTooShort
	}

	if _, err := s.repomanager.Credentials(s.db).Get(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrNoCredentialRecord
		}
		return "", fmt.Errorf("load credential: %w", err)
	}

	res, err := s.engine.Prepare(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("prepare re-encryption: %w", err)
	}
	defer res.Release()

	files := res.Files()
	if len(files) > 0 {
		ok, err := s.Verify(ctx, userID, currentPassword)
		if err != nil {
			if errors.Is(err, common.ErrInvalidCredentialInput) {
				return "", common.ErrAuthenticationFailure
			}
			return "", err
		}
		if !ok {
			return "", common.ErrAuthenticationFailure
		}
	}

	cred, err := newCredential(userID, newPassword)
	if err != nil {
		return "", err
	}
	if err := s.repomanager.Credentials(s.db).Put(ctx, cred); err != nil {
		return "", fmt.Errorf("store credential: %w", err)
	}

	task, err := s.engine.Launch(ctx, res, currentPassword, newPassword)
	if err != nil {
		s.log.Error(ctx, "password rotated but re-encryption did not start", "user_id", userID, "error", err)
		return "", fmt.Errorf("start re-encryption: %w", err)
	}
	s.log.Info(ctx, "password changed", "user_id", userID, "job_id", task.JobID(), "files", len(files))
	return task.JobID(), nil
}

// JobStatus returns the job if it belongs to userID.
func (s *CredentialService) JobStatus(ctx context.Context, userID, jobID string) (reencrypt.Snapshot, error) {
	snap, err := s.engine.Status(jobID)
	if err != nil {
		return reencrypt.Snapshot{}, err
	}
	if snap.UserID != userID {
		return reencrypt.Snapshot{}, common.ErrorForbidden
	}
	return snap, nil
}

func (s *CredentialService) ListJobs(ctx context.Context, userID string) []reencrypt.Snapshot {
	return s.engine.ListJobs(userID)
}
