package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/dbx"
	"github.com/dmitrijs2005/gophvault/internal/server/models"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/files"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/googletokens"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/users"
)

// memDB is an in-memory stand-in for the PostgreSQL schema, shared by the
// fake repositories below.
type memDB struct {
	mu     sync.Mutex
	users  map[string]*models.User
	creds  map[string]*models.Credential
	files  map[string]*models.File
	tokens map[string]*models.GoogleToken

	createFileErr error
	putCredErr    error
	listErr       error
}

func newMemDB() *memDB {
	return &memDB{
		users:  map[string]*models.User{},
		creds:  map[string]*models.Credential{},
		files:  map[string]*models.File{},
		tokens: map[string]*models.GoogleToken{},
	}
}

type fakeRepoManager struct{ m *memDB }

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (f *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return (*fakeUsers)(f.m) }
func (f *fakeRepoManager) Credentials(dbx.DBTX) credentials.Repository  { return (*fakeCreds)(f.m) }
func (f *fakeRepoManager) Files(dbx.DBTX) files.Repository              { return (*fakeFiles)(f.m) }
func (f *fakeRepoManager) GoogleTokens(dbx.DBTX) googletokens.Repository {
	return (*fakeTokens)(f.m)
}

type fakeUsers memDB

func (r *fakeUsers) Create(ctx context.Context, u *models.User) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; ok {
		return false, nil
	}
	c := *u
	r.users[u.ID] = &c
	return true, nil
}

func (r *fakeUsers) Get(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *u
	return &c, nil
}

func (r *fakeUsers) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.users, id)
	delete(r.creds, id)
	delete(r.tokens, id)
	for fid, f := range r.files {
		if f.UserID == id {
			delete(r.files, fid)
		}
	}
	return nil
}

type fakeCreds memDB

func (r *fakeCreds) Get(ctx context.Context, userID string) (*models.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.creds[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cc := *c
	return &cc, nil
}

func (r *fakeCreds) Put(ctx context.Context, c *models.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.putCredErr != nil {
		return r.putCredErr
	}
	cc := *c
	r.creds[c.UserID] = &cc
	return nil
}

type fakeFiles memDB

func (r *fakeFiles) Create(ctx context.Context, f *models.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createFileErr != nil {
		return r.createFileErr
	}
	c := *f
	r.files[f.ID] = &c
	return nil
}

func (r *fakeFiles) Get(ctx context.Context, userID, id string) (*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok || f.UserID != userID {
		return nil, common.ErrorNotFound
	}
	c := *f
	return &c, nil
}

func (r *fakeFiles) ListByUser(ctx context.Context, userID string) ([]*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*models.File
	for _, f := range r.files {
		if f.UserID == userID {
			c := *f
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeFiles) UpdateEncryption(ctx context.Context, id string, enc models.FileEncryption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok {
		return common.ErrorNotFound
	}
	f.RemoteHandle, f.Nonce, f.Salt, f.AuthTag = enc.RemoteHandle, enc.Nonce, enc.Salt, enc.AuthTag
	return nil
}

func (r *fakeFiles) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok || f.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.files, id)
	return nil
}

type fakeTokens memDB

func (r *fakeTokens) Get(ctx context.Context, userID string) (*models.GoogleToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *t
	return &c, nil
}

func (r *fakeTokens) Put(ctx context.Context, t *models.GoogleToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *t
	if old, ok := r.tokens[t.UserID]; ok && c.RefreshToken == "" {
		c.RefreshToken = old.RefreshToken
	}
	r.tokens[t.UserID] = &c
	return nil
}

func (r *fakeTokens) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[userID]; !ok {
		return common.ErrorNotFound
	}
	delete(r.tokens, userID)
	return nil
}

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}
