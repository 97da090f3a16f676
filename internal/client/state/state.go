// Package state keeps the CLI's local SQLite database: the saved access
// token and the re-encryption jobs started from this machine.
package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/client/migrations"
	"github.com/dmitrijs2005/gophvault/internal/dbx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const keyAccessToken = "access_token"

var gooseUpContext = goose.UpContext

type Store struct {
	db  dbx.DBTX
	raw *sql.DB
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, ".")
}

// Open opens (creating if needed) the state database at path and migrates
// it. The parent directory is created with owner-only permissions.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("state migrations: %w", err)
	}
	return &Store{db: db, raw: db}, nil
}

func (s *Store) Close() error {
	return s.raw.Close()
}

func (s *Store) get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func (s *Store) set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (s *Store) delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
	}
	return nil
}

// Token returns the saved access token, or "" if none.
func (s *Store) Token(ctx context.Context) (string, error) {
	v, err := s.get(ctx, keyAccessToken)
	return string(v), err
}

func (s *Store) SetToken(ctx context.Context, token string) error {
	return s.set(ctx, keyAccessToken, []byte(token))
}

func (s *Store) ClearToken(ctx context.Context) error {
	return s.delete(ctx, keyAccessToken)
}

// RecordJob remembers a job started at the given time. Recording the same
// id twice keeps the first time.
func (s *Store) RecordJob(ctx context.Context, jobID string, startedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (job_id, started_at) VALUES (?, ?) ON CONFLICT(job_id) DO NOTHING`,
		jobID, startedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to record job %s: %w", jobID, err)
	}
	return nil
}

// LastJob returns the most recently started job id, or "" if none.
func (s *Store) LastJob(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT job_id FROM jobs ORDER BY started_at DESC, job_id DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get last job: %w", err)
	}
	return id, nil
}

// Jobs lists recorded job ids, newest first.
func (s *Store) Jobs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT job_id FROM jobs ORDER BY started_at DESC, job_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate job rows: %w", err)
	}
	return out, nil
}

// Reset forgets the token and all jobs in one transaction.
func (s *Store) Reset(ctx context.Context) error {
	return dbx.WithTx(ctx, s.raw, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM metadata`); err != nil {
			return fmt.Errorf("failed to clear metadata: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM jobs`); err != nil {
			return fmt.Errorf("failed to clear jobs: %w", err)
		}
		return nil
	})
}
