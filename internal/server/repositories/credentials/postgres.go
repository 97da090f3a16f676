// Package credentials contains the PostgreSQL repository for password
// verification records (table user_keys).
package credentials

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

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.Credential, error) {
	query := `SELECT user_id, salt, key_hash, updated_at FROM user_keys WHERE user_id = $1`

	c := &models.Credential{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&c.UserID, &c.Salt, &c.VerificationHash, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Put(ctx context.Context, c *models.Credential) error {
	query := `
		INSERT INTO user_keys (user_id, salt, key_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET
			salt = EXCLUDED.salt,
			key_hash = EXCLUDED.key_hash,
			updated_at = now()
	`
	res, err := r.db.ExecContext(ctx, query, c.UserID, c.Salt, c.VerificationHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectOneRow(res)
}
