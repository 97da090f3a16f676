package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      *rpc.VaultClient
	accessToken string
}

var _ Client = (*GRPCClient)(nil)

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGophVaultClient connects to endpointURL. The token may be empty for
// Ping.
func NewGophVaultClient(endpointURL, accessToken string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, accessToken: accessToken}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
		rpc.CallOptions(),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = rpc.NewVaultClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.PermissionDenied:
		if st.Message() == common.ErrAuthenticationFailure.Error() {
			return ErrWrongPassword
		}
		return ErrForbidden
	case codes.NotFound:
		return ErrNotFound
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	case codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", ErrPrecondition, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &rpc.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) InitUser(ctx context.Context, email, name string) (bool, error) {
	resp, err := s.client.InitUser(ctx, &rpc.InitUserRequest{Email: email, Name: name})
	if err != nil {
		return false, s.mapError(err)
	}
	return resp.Created, nil
}

func (s *GRPCClient) DeleteAccount(ctx context.Context) error {
	_, err := s.client.DeleteAccount(ctx, &rpc.DeleteAccountRequest{})
	return s.mapError(err)
}

func (s *GRPCClient) VerifyPassword(ctx context.Context, password string) (bool, error) {
	resp, err := s.client.VerifyPassword(ctx, &rpc.VerifyPasswordRequest{Password: password})
	if err != nil {
		return false, s.mapError(err)
	}
	return resp.Valid, nil
}

func (s *GRPCClient) ChangePassword(ctx context.Context, currentPassword, newPassword string) (string, error) {
	resp, err := s.client.ChangePassword(ctx, &rpc.ChangePasswordRequest{CurrentPassword: currentPassword, NewPassword: newPassword})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.JobID, nil
}

func (s *GRPCClient) JobStatus(ctx context.Context, jobID string) (*rpc.Job, error) {
	resp, err := s.client.JobStatus(ctx, &rpc.JobStatusRequest{JobID: jobID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.Job, nil
}

func (s *GRPCClient) ListJobs(ctx context.Context) ([]rpc.Job, error) {
	resp, err := s.client.ListJobs(ctx, &rpc.ListJobsRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Jobs, nil
}

func (s *GRPCClient) UploadEncrypted(ctx context.Context, req *rpc.UploadEncryptedRequest) (*rpc.File, error) {
	resp, err := s.client.UploadEncrypted(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.File, nil
}

func (s *GRPCClient) Download(ctx context.Context, fileID string) (*rpc.File, []byte, error) {
	resp, err := s.client.Download(ctx, &rpc.DownloadRequest{FileID: fileID})
	if err != nil {
		return nil, nil, s.mapError(err)
	}
	return &resp.File, resp.Ciphertext, nil
}

func (s *GRPCClient) ListFiles(ctx context.Context) ([]rpc.File, error) {
	resp, err := s.client.ListFiles(ctx, &rpc.ListFilesRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Files, nil
}

func (s *GRPCClient) DeleteFile(ctx context.Context, fileID string) error {
	_, err := s.client.DeleteFile(ctx, &rpc.DeleteFileRequest{FileID: fileID})
	return s.mapError(err)
}

func (s *GRPCClient) GoogleAuthURL(ctx context.Context) (string, string, error) {
	resp, err := s.client.GoogleAuthURL(ctx, &rpc.GoogleAuthURLRequest{})
	if err != nil {
		return "", "", s.mapError(err)
	}
	return resp.URL, resp.State, nil
}

func (s *GRPCClient) GoogleConnect(ctx context.Context, code string) error {
	_, err := s.client.GoogleConnect(ctx, &rpc.GoogleConnectRequest{Code: code})
	return s.mapError(err)
}

func (s *GRPCClient) GoogleStatus(ctx context.Context) (*rpc.GoogleStatusResponse, error) {
	resp, err := s.client.GoogleStatus(ctx, &rpc.GoogleStatusRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) GoogleDisconnect(ctx context.Context) error {
	_, err := s.client.GoogleDisconnect(ctx, &rpc.GoogleDisconnectRequest{})
	return s.mapError(err)
}
