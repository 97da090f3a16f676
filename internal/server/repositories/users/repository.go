package users

import (
	"context"

	"github.com/dmitrijs2005/gophvault/internal/server/models"
)

// Repository persists local user rows.
type Repository interface {
	// Create inserts the user unless a row with the same id exists.
	// It reports whether a row was inserted.
	Create(ctx context.Context, user *models.User) (bool, error)
	Get(ctx context.Context, id string) (*models.User, error)
	// Delete removes the user; credentials, files and tokens cascade.
	Delete(ctx context.Context, id string) error
}
