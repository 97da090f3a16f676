package credentials

import (
	"context"

	"github.com/dmitrijs2005/gophvault/internal/server/models"
)

// Repository stores one credential record per user.
type Repository interface {
	Get(ctx context.Context, userID string) (*models.Credential, error)
	// Put creates or replaces the record; salt and hash are written in a
	// single statement.
	Put(ctx context.Context, c *models.Credential) error
}
