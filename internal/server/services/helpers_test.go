package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/dmitrijs2005/gophvault/internal/server/blobstore"
	"github.com/dmitrijs2005/gophvault/internal/server/reencrypt"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    *sql.DB
	mock  sqlmock.Sqlmock
	mem   *memDB
	rm    *fakeRepoManager
	store *blobstore.MemoryStore
	eng   *reencrypt.Engine

	users *UserService
	creds *CredentialService
	files *FileService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, mock := newSQLMockDB(t)
	mem := newMemDB()
	rm := &fakeRepoManager{m: mem}
	store := blobstore.NewMemoryStore()
	eng := reencrypt.NewEngine(rm.Users(db), rm.Files(db), store, reencrypt.NewMemoryJobStore(), reencrypt.WithWorkers(2))
	t.Cleanup(func() { _ = eng.Shutdown(context.Background()) })

	log := logging.Nop{}
	creds := NewCredentialService(db, rm, eng, log)
	return &fixture{
		db: db, mock: mock, mem: mem, rm: rm, store: store, eng: eng,
		users: NewUserService(db, rm, store, log),
		creds: creds,
		files: NewFileService(db, rm, store, creds, log),
	}
}

// initUser runs InitUser for userID and then sets password.
func (fx *fixture) initUser(t *testing.T, userID, password string) {
	t.Helper()
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()
	created, err := fx.users.InitUser(context.Background(), userID, userID+"@example.com", "User")
	require.NoError(t, err)
	require.True(t, created)

	if password != "" {
		jobID, err := fx.creds.ChangePassword(context.Background(), userID, "", password)
		require.NoError(t, err)
		fx.waitJob(t, jobID)
	}
}

func (fx *fixture) waitJob(t *testing.T, jobID string) reencrypt.Snapshot {
	t.Helper()
	deadline := time.Now().Add(30 * time.Second)
	for {
		s, err := fx.eng.Status(jobID)
		require.NoError(t, err)
		if s.Status.Terminal() {
			return s
		}
		if time.Now().After(deadline) {
			t.Fatalf("job %s did not finish: %+v", jobID, s)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
