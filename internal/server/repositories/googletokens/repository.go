package googletokens

import (
	"context"

	"github.com/dmitrijs2005/gophvault/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, userID string) (*models.GoogleToken, error)
	Put(ctx context.Context, t *models.GoogleToken) error
	Delete(ctx context.Context, userID string) error
}
