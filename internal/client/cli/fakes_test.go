package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/client/config"
	"github.com/dmitrijs2005/gophvault/internal/client/state"
	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/dmitrijs2005/gophvault/internal/rpc"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	mu sync.Mutex

	password  string
	files     map[string]rpc.File
	blobs     map[string][]byte
	jobs      []rpc.Job
	statuses  []rpc.Job
	google    rpc.GoogleStatusResponse
	uploads   int
	changed   [2]string
	deleted   bool
	closed    bool
	initCalls int
}

func newFakeClient(password string) *fakeClient {
	return &fakeClient{password: password, files: map[string]rpc.File{}, blobs: map[string][]byte{}}
}

func (f *fakeClient) Close() error                 { f.closed = true; return nil }
func (f *fakeClient) Ping(ctx context.Context) error { return nil }

func (f *fakeClient) InitUser(ctx context.Context, email, name string) (bool, error) {
	f.initCalls++
	return f.initCalls == 1, nil
}

func (f *fakeClient) DeleteAccount(ctx context.Context) error {
	f.deleted = true
	return nil
}

func (f *fakeClient) VerifyPassword(ctx context.Context, password string) (bool, error) {
	return password == f.password, nil
}

func (f *fakeClient) ChangePassword(ctx context.Context, current, next string) (string, error) {
	f.changed = [2]string{current, next}
	return "job-1", nil
}

// JobStatus replays statuses in order and then repeats the last one.
func (f *fakeClient) JobStatus(ctx context.Context, jobID string) (*rpc.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j := f.statuses[0]
	if len(f.statuses) > 1 {
		f.statuses = f.statuses[1:]
	}
	j.JobID = jobID
	return &j, nil
}

func (f *fakeClient) ListJobs(ctx context.Context) ([]rpc.Job, error) {
	return f.jobs, nil
}

func (f *fakeClient) UploadEncrypted(ctx context.Context, req *rpc.UploadEncryptedRequest) (*rpc.File, error) {
	f.uploads++
	file := rpc.File{
		ID:        "file-1",
		FileName:  req.FileName,
		MimeType:  req.MimeType,
		FileSize:  int64(len(req.Ciphertext)),
		Nonce:     req.Nonce,
		Salt:      req.Salt,
		AuthTag:   req.AuthTag,
		Stored:    true,
		UpdatedAt: time.Now(),
	}
	f.files[file.ID] = file
	f.blobs[file.ID] = append([]byte(nil), req.Ciphertext...)
	return &file, nil
}

func (f *fakeClient) Download(ctx context.Context, fileID string) (*rpc.File, []byte, error) {
	file := f.files[fileID]
	return &file, f.blobs[fileID], nil
}

func (f *fakeClient) ListFiles(ctx context.Context) ([]rpc.File, error) {
	out := make([]rpc.File, 0, len(f.files))
	for _, file := range f.files {
		out = append(out, file)
	}
	return out, nil
}

func (f *fakeClient) DeleteFile(ctx context.Context, fileID string) error {
	delete(f.files, fileID)
	return nil
}

func (f *fakeClient) GoogleAuthURL(ctx context.Context) (string, string, error) {
	return "https://accounts.example/auth?state=abc", "abc", nil
}

func (f *fakeClient) GoogleConnect(ctx context.Context, code string) error {
	f.google = rpc.GoogleStatusResponse{Connected: true, Expiry: time.Now().Add(time.Hour)}
	return nil
}

func (f *fakeClient) GoogleStatus(ctx context.Context) (*rpc.GoogleStatusResponse, error) {
	st := f.google
	return &st, nil
}

func (f *fakeClient) GoogleDisconnect(ctx context.Context) error {
	f.google = rpc.GoogleStatusResponse{}
	return nil
}

func newTestApp(t *testing.T, api *fakeClient) *App {
	t.Helper()
	st, err := state.Open(context.Background(), filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)

	a := &App{
		config: &config.Config{ServerEndpointAddr: "bufnet", RequestTimeout: 5 * time.Second},
		state:  st,
		logger: logging.Nop{},
	}
	if api != nil {
		a.api = api
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// stubPasswords makes readPassword return the given answers in order.
func stubPasswords(t *testing.T, answers ...string) {
	t.Helper()
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })

	readPassword = func(int) ([]byte, error) {
		require.NotEmpty(t, answers, "unexpected password prompt")
		next := answers[0]
		answers = answers[1:]
		return []byte(next), nil
	}
}

func run(t *testing.T, a *App, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd(a)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}
