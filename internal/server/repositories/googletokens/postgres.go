// Package googletokens persists the OAuth tokens used to reach a user's
// Google Drive.
package googletokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/dbx"
	"github.com/dmitrijs2005/gophvault/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.GoogleToken, error) {
	query := `SELECT user_id, access_token, refresh_token, expires_at, updated_at FROM google_tokens WHERE user_id = $1`

	t := &models.GoogleToken{}
	var expiry sql.NullTime
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&t.UserID, &t.AccessToken, &t.RefreshToken, &expiry, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if expiry.Valid {
		t.Expiry = expiry.Time
	}
	return t, nil
}

// Put stores the token. An empty refresh token keeps the one already saved,
// since Google only returns it on the first consent.
func (r *PostgresRepository) Put(ctx context.Context, t *models.GoogleToken) error {
	query := `
		INSERT INTO google_tokens (user_id, access_token, refresh_token, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = COALESCE(NULLIF(EXCLUDED.refresh_token, ''), google_tokens.refresh_token),
			expires_at = EXCLUDED.expires_at,
			updated_at = now()
	`
	var expiry sql.NullTime
	if !t.Expiry.IsZero() {
		expiry = sql.NullTime{Time: t.Expiry, Valid: true}
	}
	res, err := r.db.ExecContext(ctx, query, t.UserID, t.AccessToken, t.RefreshToken, expiry)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM google_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete google token: %w", err)
	}
	return dbx.ExpectOneRow(res)
}
