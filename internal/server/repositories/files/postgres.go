// Package files contains the PostgreSQL repository for encrypted file records.
package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/dbx"
	"github.com/dmitrijs2005/gophvault/internal/server/models"
)

// PostgresRepository implements file storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const fileColumns = `id, user_id, remote_handle, iv, salt, auth_tag, file_name, mime_type, file_size, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(s scanner) (*models.File, error) {
	f := &models.File{}
	err := s.Scan(&f.ID, &f.UserID, &f.RemoteHandle, &f.Nonce, &f.Salt, &f.AuthTag,
		&f.FileName, &f.MimeType, &f.FileSize, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Create inserts a new file record.
func (r *PostgresRepository) Create(ctx context.Context, file *models.File) error {
	query := `
		INSERT INTO files (id, user_id, remote_handle, iv, salt, auth_tag, file_name, mime_type, file_size)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		file.ID, file.UserID, file.RemoteHandle, file.Nonce, file.Salt, file.AuthTag,
		file.FileName, file.MimeType, file.FileSize)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Get returns the file id owned by userID.
func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1 AND user_id = $2`

	f, err := scanFile(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

// ListByUser returns all files of userID, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	var result []*models.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateEncryption swaps the encryption metadata of a file. Exactly one row
// must be affected.
func (r *PostgresRepository) UpdateEncryption(ctx context.Context, id string, enc models.FileEncryption) error {
	query := `
		UPDATE files
		SET remote_handle = $2, iv = $3, salt = $4, auth_tag = $5, updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, enc.RemoteHandle, enc.Nonce, enc.Salt, enc.AuthTag)
	if err != nil {
		return fmt.Errorf("failed to update file encryption: %w", err)
	}
	return dbx.ExpectOneRow(res)
}

// Delete removes the file id owned by userID.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return dbx.ExpectOneRow(res)
}
