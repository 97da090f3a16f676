package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/dbx"
	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/dmitrijs2005/gophvault/internal/server/blobstore"
	"github.com/dmitrijs2005/gophvault/internal/server/models"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/repomanager"
)

// throwawayPasswordLength is the size of the random password a new user's
// credential is created with. Nobody ever learns it.
const throwawayPasswordLength = 32

// UserService bootstraps local accounts and removes them.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       blobstore.Store
	log         logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, blobs blobstore.Store, log logging.Logger) *UserService {
	return &UserService{db: db, repomanager: m, blobs: blobs, log: log.With("module", "users")}
}

// InitUser creates the user and its credential record if they do not exist
// yet. It reports whether anything was created.
func (s *UserService) InitUser(ctx context.Context, userID, email, name string) (bool, error) {
	if userID == "" {
		return false, common.ErrorUnauthorized
	}

	var created bool
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		created, err = s.repomanager.Users(tx).Create(ctx, &models.User{ID: userID, Email: email, Name: name})
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		if !created {
			return nil
		}
		cred, err := newCredential(userID, common.RandomPassword(throwawayPasswordLength))
		if err != nil {
			return err
		}
		return s.repomanager.Credentials(tx).Put(ctx, cred)
	})
	if err != nil {
		return false, err
	}
	if created {
		s.log.Info(ctx, "user initialized", "user_id", userID)
	}
	return created, nil
}

// DeleteAccount removes every stored ciphertext on a best-effort basis and
// then the user row, which cascades to credentials, files and tokens.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	if _, err := s.repomanager.Users(s.db).Get(ctx, userID); err != nil {
		return err
	}

	files, err := s.repomanager.Files(s.db).ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list files: %w", err)
	}
	for _, f := range files {
		if f.RemoteHandle == "" {
			continue
		}
		if err := s.blobs.Delete(ctx, userID, f.RemoteHandle); err != nil {
			s.log.Warn(ctx, "failed to delete remote file", "user_id", userID, "file_id", f.ID, "error", err)
		}
	}

	if err := s.repomanager.Users(s.db).Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.log.Info(ctx, "account deleted", "user_id", userID, "files", len(files))
	return nil
}
