package client

import (
	"context"

	"github.com/dmitrijs2005/gophvault/internal/rpc"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error

	InitUser(ctx context.Context, email, name string) (bool, error)
	DeleteAccount(ctx context.Context) error

	VerifyPassword(ctx context.Context, password string) (bool, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) (string, error)
	JobStatus(ctx context.Context, jobID string) (*rpc.Job, error)
	ListJobs(ctx context.Context) ([]rpc.Job, error)

	UploadEncrypted(ctx context.Context, req *rpc.UploadEncryptedRequest) (*rpc.File, error)
	Download(ctx context.Context, fileID string) (*rpc.File, []byte, error)
	ListFiles(ctx context.Context) ([]rpc.File, error)
	DeleteFile(ctx context.Context, fileID string) error

	GoogleAuthURL(ctx context.Context) (string, string, error)
	GoogleConnect(ctx context.Context, code string) error
	GoogleStatus(ctx context.Context) (*rpc.GoogleStatusResponse, error)
	GoogleDisconnect(ctx context.Context) error
}
