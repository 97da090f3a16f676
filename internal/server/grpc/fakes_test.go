package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/dmitrijs2005/gophvault/internal/server/models"
	"github.com/dmitrijs2005/gophvault/internal/server/reencrypt"
	"github.com/dmitrijs2005/gophvault/internal/server/services"
)

type fakeUsers struct {
	created  bool
	initErr  error
	deleted  string
	delErr   error
	initArgs [3]string
}

func (f *fakeUsers) InitUser(ctx context.Context, userID, email, name string) (bool, error) {
	f.initArgs = [3]string{userID, email, name}
	return f.created, f.initErr
}

func (f *fakeUsers) DeleteAccount(ctx context.Context, userID string) error {
	f.deleted = userID
	return f.delErr
}

type fakeCreds struct {
	valid     bool
	verifyErr error
	jobID     string
	changeErr error
	snap      reencrypt.Snapshot
	statusErr error
	jobs      []reencrypt.Snapshot
	gotPw     [2]string
}

func (f *fakeCreds) Verify(ctx context.Context, userID, password string) (bool, error) {
	return f.valid, f.verifyErr
}

func (f *fakeCreds) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) (string, error) {
	f.gotPw = [2]string{currentPassword, newPassword}
	return f.jobID, f.changeErr
}

func (f *fakeCreds) JobStatus(ctx context.Context, userID, jobID string) (reencrypt.Snapshot, error) {
	return f.snap, f.statusErr
}

func (f *fakeCreds) ListJobs(ctx context.Context, userID string) []reencrypt.Snapshot {
	return f.jobs
}

type fakeFiles struct {
	file     *models.File
	data     []byte
	err      error
	list     []*models.File
	upload   *services.EncryptedUpload
	deleted  string
	password string
}

func (f *fakeFiles) UploadEncrypted(ctx context.Context, userID string, u *services.EncryptedUpload) (*models.File, error) {
	f.upload = u
	return f.file, f.err
}

func (f *fakeFiles) EncryptAndUpload(ctx context.Context, userID, fileName, mimeType string, plaintext []byte, password string) (*models.File, error) {
	f.data = plaintext
	f.password = password
	return f.file, f.err
}

func (f *fakeFiles) Download(ctx context.Context, userID, fileID string) (*models.File, []byte, error) {
	return f.file, f.data, f.err
}

func (f *fakeFiles) DownloadAndDecrypt(ctx context.Context, userID, fileID, password string) (*models.File, []byte, error) {
	f.password = password
	return f.file, f.data, f.err
}

func (f *fakeFiles) List(ctx context.Context, userID string) ([]*models.File, error) {
	return f.list, f.err
}

func (f *fakeFiles) Delete(ctx context.Context, userID, fileID string) error {
	f.deleted = fileID
	return f.err
}

type fakeGoogle struct {
	url, state string
	code       string
	status     services.GoogleStatus
	err        error
	discCalls  int
}

func (f *fakeGoogle) AuthURL(ctx context.Context, userID string) (string, string, error) {
	return f.url, f.state, f.err
}

func (f *fakeGoogle) Connect(ctx context.Context, userID, code string) error {
	f.code = code
	return f.err
}

func (f *fakeGoogle) Status(ctx context.Context, userID string) (services.GoogleStatus, error) {
	return f.status, f.err
}

func (f *fakeGoogle) Disconnect(ctx context.Context, userID string) error {
	f.discCalls++
	return f.err
}

type fakes struct {
	users  *fakeUsers
	creds  *fakeCreds
	files  *fakeFiles
	google *fakeGoogle
}

func newTestServer(secret string) (*GRPCServer, *fakes) {
	f := &fakes{users: &fakeUsers{}, creds: &fakeCreds{}, files: &fakeFiles{}, google: &fakeGoogle{}}
	s := NewGRPCServer("127.0.0.1:0", logging.Nop{}, Services{
		Users:       f.users,
		Credentials: f.creds,
		Files:       f.files,
		Google:      f.google,
	}, secret)
	return s, f
}

func authed(userID string) context.Context {
	return context.WithValue(context.Background(), UserIDKey, userID)
}
