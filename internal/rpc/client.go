package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// VaultClient is a typed client for the vault service. The connection must
// use the JSON codec, see CallOptions.
type VaultClient struct {
	cc grpc.ClientConnInterface
}

func NewVaultClient(cc grpc.ClientConnInterface) *VaultClient {
	return &VaultClient{cc: cc}
}

// CallOptions selects the JSON codec for every call on a connection.
func CallOptions() grpc.DialOption {
	return grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName))
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, name string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, FullMethod(name), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *VaultClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, "Ping", in, opts)
}

func (c *VaultClient) InitUser(ctx context.Context, in *InitUserRequest, opts ...grpc.CallOption) (*InitUserResponse, error) {
	return invoke[InitUserResponse](ctx, c.cc, "InitUser", in, opts)
}

func (c *VaultClient) DeleteAccount(ctx context.Context, in *DeleteAccountRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "DeleteAccount", in, opts)
}

func (c *VaultClient) VerifyPassword(ctx context.Context, in *VerifyPasswordRequest, opts ...grpc.CallOption) (*VerifyPasswordResponse, error) {
	return invoke[VerifyPasswordResponse](ctx, c.cc, "VerifyPassword", in, opts)
}

func (c *VaultClient) ChangePassword(ctx context.Context, in *ChangePasswordRequest, opts ...grpc.CallOption) (*ChangePasswordResponse, error) {
	return invoke[ChangePasswordResponse](ctx, c.cc, "ChangePassword", in, opts)
}

func (c *VaultClient) JobStatus(ctx context.Context, in *JobStatusRequest, opts ...grpc.CallOption) (*JobStatusResponse, error) {
	return invoke[JobStatusResponse](ctx, c.cc, "JobStatus", in, opts)
}

func (c *VaultClient) ListJobs(ctx context.Context, in *ListJobsRequest, opts ...grpc.CallOption) (*ListJobsResponse, error) {
	return invoke[ListJobsResponse](ctx, c.cc, "ListJobs", in, opts)
}

func (c *VaultClient) UploadEncrypted(ctx context.Context, in *UploadEncryptedRequest, opts ...grpc.CallOption) (*FileResponse, error) {
	return invoke[FileResponse](ctx, c.cc, "UploadEncrypted", in, opts)
}

func (c *VaultClient) EncryptAndUpload(ctx context.Context, in *EncryptAndUploadRequest, opts ...grpc.CallOption) (*FileResponse, error) {
	return invoke[FileResponse](ctx, c.cc, "EncryptAndUpload", in, opts)
}

func (c *VaultClient) Download(ctx context.Context, in *DownloadRequest, opts ...grpc.CallOption) (*DownloadResponse, error) {
	return invoke[DownloadResponse](ctx, c.cc, "Download", in, opts)
}

func (c *VaultClient) DownloadDecrypted(ctx context.Context, in *DownloadDecryptedRequest, opts ...grpc.CallOption) (*DownloadDecryptedResponse, error) {
	return invoke[DownloadDecryptedResponse](ctx, c.cc, "DownloadDecrypted", in, opts)
}

func (c *VaultClient) ListFiles(ctx context.Context, in *ListFilesRequest, opts ...grpc.CallOption) (*ListFilesResponse, error) {
	return invoke[ListFilesResponse](ctx, c.cc, "ListFiles", in, opts)
}

func (c *VaultClient) DeleteFile(ctx context.Context, in *DeleteFileRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "DeleteFile", in, opts)
}

func (c *VaultClient) GoogleAuthURL(ctx context.Context, in *GoogleAuthURLRequest, opts ...grpc.CallOption) (*GoogleAuthURLResponse, error) {
	return invoke[GoogleAuthURLResponse](ctx, c.cc, "GoogleAuthURL", in, opts)
}

func (c *VaultClient) GoogleConnect(ctx context.Context, in *GoogleConnectRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "GoogleConnect", in, opts)
}

func (c *VaultClient) GoogleStatus(ctx context.Context, in *GoogleStatusRequest, opts ...grpc.CallOption) (*GoogleStatusResponse, error) {
	return invoke[GoogleStatusResponse](ctx, c.cc, "GoogleStatus", in, opts)
}

func (c *VaultClient) GoogleDisconnect(ctx context.Context, in *GoogleDisconnectRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "GoogleDisconnect", in, opts)
}
