package files

import (
	"context"

	"github.com/dmitrijs2005/gophvault/internal/server/models"
)

// Repository stores encrypted file records. Every read and delete is scoped
// by owner; a record of another user is reported as common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, file *models.File) error
	Get(ctx context.Context, userID, id string) (*models.File, error)
	ListByUser(ctx context.Context, userID string) ([]*models.File, error)
	// UpdateEncryption replaces handle, nonce, salt and tag in one statement.
	UpdateEncryption(ctx context.Context, id string, enc models.FileEncryption) error
	Delete(ctx context.Context, userID, id string) error
}
