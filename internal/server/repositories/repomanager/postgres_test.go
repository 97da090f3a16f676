package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestFactories_ReturnRepos(t *testing.T) {
	db := newDB(t)

	var m RepositoryManager = NewPostgresRepositoryManager()

	assert.NotNil(t, m.Users(db))
	assert.NotNil(t, m.Credentials(db))
	assert.NotNil(t, m.Files(db))
	assert.NotNil(t, m.GoogleTokens(db))
}

func TestRunMigrations(t *testing.T) {
	tests := []struct {
		name    string
		upErr   error
		wantErr bool
	}{
		{"success", nil, false},
		{"goose error", errors.New("boom"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newDB(t)

			orig := gooseUpContext
			t.Cleanup(func() { gooseUpContext = orig })

			var gotDir string
			gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
				gotDir = dir
				return tt.upErr
			}

			err := NewPostgresRepositoryManager().RunMigrations(context.Background(), db)
			if tt.wantErr {
				assert.EqualError(t, err, "boom")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, ".", gotDir)
		})
	}
}
