package state

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestToken_SetGetClear(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	tok, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, s.SetToken(ctx, "t1"))
	require.NoError(t, s.SetToken(ctx, "t2"))
	tok, err = s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t2", tok)

	require.NoError(t, s.ClearToken(ctx))
	require.NoError(t, s.ClearToken(ctx))
	tok, err = s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestJobs_NewestFirst(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	last, err := s.LastJob(ctx)
	require.NoError(t, err)
	assert.Empty(t, last)

	require.NoError(t, s.RecordJob(ctx, "j1", base))
	require.NoError(t, s.RecordJob(ctx, "j2", base.Add(time.Minute)))
	require.NoError(t, s.RecordJob(ctx, "j1", base.Add(time.Hour)))

	last, err = s.LastJob(ctx)
	require.NoError(t, err)
	assert.Equal(t, "j2", last)

	jobs, err := s.Jobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"j2", "j1"}, jobs)
}

func TestReset(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	require.NoError(t, s.SetToken(ctx, "t"))
	require.NoError(t, s.RecordJob(ctx, "j", time.Now()))
	require.NoError(t, s.Reset(ctx))

	tok, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
	jobs, err := s.Jobs(ctx)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.SetToken(ctx, "persisted"))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	tok, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "persisted", tok)
}

func TestOpen_MigrationError(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}

	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "s.db"))
	assert.ErrorContains(t, err, "state migrations: boom")
}

func TestClosedDBErrorsAreWrapped(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	require.NoError(t, s.Close())

	_, err := s.Token(ctx)
	assert.ErrorContains(t, err, "failed to get metadata[access_token]")
	assert.ErrorContains(t, s.SetToken(ctx, "x"), "failed to set metadata[access_token]")
	assert.ErrorContains(t, s.RecordJob(ctx, "j", time.Now()), "failed to record job j")
	_, err = s.Jobs(ctx)
	assert.ErrorContains(t, err, "failed to list jobs")
}
