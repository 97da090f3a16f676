// Package rpc holds the wire contract of the vault gRPC service: message
// types, the service descriptor, a typed client and the JSON codec both
// sides use. vault.proto is the contract the hand-written ServiceDesc and
// messages follow.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "gophvault.Vault"

// FullMethod returns the gRPC method path for name.
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// VaultServer is implemented by the server side of the vault service.
type VaultServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)

	InitUser(context.Context, *InitUserRequest) (*InitUserResponse, error)
	DeleteAccount(context.Context, *DeleteAccountRequest) (*Empty, error)

	VerifyPassword(context.Context, *VerifyPasswordRequest) (*VerifyPasswordResponse, error)
	ChangePassword(context.Context, *ChangePasswordRequest) (*ChangePasswordResponse, error)
	JobStatus(context.Context, *JobStatusRequest) (*JobStatusResponse, error)
	ListJobs(context.Context, *ListJobsRequest) (*ListJobsResponse, error)

	UploadEncrypted(context.Context, *UploadEncryptedRequest) (*FileResponse, error)
	EncryptAndUpload(context.Context, *EncryptAndUploadRequest) (*FileResponse, error)
	Download(context.Context, *DownloadRequest) (*DownloadResponse, error)
	DownloadDecrypted(context.Context, *DownloadDecryptedRequest) (*DownloadDecryptedResponse, error)
	ListFiles(context.Context, *ListFilesRequest) (*ListFilesResponse, error)
	DeleteFile(context.Context, *DeleteFileRequest) (*Empty, error)

	GoogleAuthURL(context.Context, *GoogleAuthURLRequest) (*GoogleAuthURLResponse, error)
	GoogleConnect(context.Context, *GoogleConnectRequest) (*Empty, error)
	GoogleStatus(context.Context, *GoogleStatusRequest) (*GoogleStatusResponse, error)
	GoogleDisconnect(context.Context, *GoogleDisconnectRequest) (*Empty, error)
}

// UnimplementedVaultServer answers every method with codes.Unimplemented.
// Embed it to implement only part of VaultServer.
type UnimplementedVaultServer struct{}

func unimplemented(name string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", name)
}

func (UnimplementedVaultServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, unimplemented("Ping")
}
func (UnimplementedVaultServer) InitUser(context.Context, *InitUserRequest) (*InitUserResponse, error) {
	return nil, unimplemented("InitUser")
}
func (UnimplementedVaultServer) DeleteAccount(context.Context, *DeleteAccountRequest) (*Empty, error) {
	return nil, unimplemented("DeleteAccount")
}
func (UnimplementedVaultServer) VerifyPassword(context.Context, *VerifyPasswordRequest) (*VerifyPasswordResponse, error) {
	return nil, unimplemented("VerifyPassword")
}
func (UnimplementedVaultServer) ChangePassword(context.Context, *ChangePasswordRequest) (*ChangePasswordResponse, error) {
	return nil, unimplemented("ChangePassword")
}
func (UnimplementedVaultServer) JobStatus(context.Context, *JobStatusRequest) (*JobStatusResponse, error) {
	return nil, unimplemented("JobStatus")
}
func (UnimplementedVaultServer) ListJobs(context.Context, *ListJobsRequest) (*ListJobsResponse, error) {
	return nil, unimplemented("ListJobs")
}
func (UnimplementedVaultServer) UploadEncrypted(context.Context, *UploadEncryptedRequest) (*FileResponse, error) {
	return nil, unimplemented("UploadEncrypted")
}
func (UnimplementedVaultServer) EncryptAndUpload(context.Context, *EncryptAndUploadRequest) (*FileResponse, error) {
	return nil, unimplemented("EncryptAndUpload")
}
func (UnimplementedVaultServer) Download(context.Context, *DownloadRequest) (*DownloadResponse, error) {
	return nil, unimplemented("Download")
}
func (UnimplementedVaultServer) DownloadDecrypted(context.Context, *DownloadDecryptedRequest) (*DownloadDecryptedResponse, error) {
	return nil, unimplemented("DownloadDecrypted")
}
func (UnimplementedVaultServer) ListFiles(context.Context, *ListFilesRequest) (*ListFilesResponse, error) {
	return nil, unimplemented("ListFiles")
}
func (UnimplementedVaultServer) DeleteFile(context.Context, *DeleteFileRequest) (*Empty, error) {
	return nil, unimplemented("DeleteFile")
}
func (UnimplementedVaultServer) GoogleAuthURL(context.Context, *GoogleAuthURLRequest) (*GoogleAuthURLResponse, error) {
	return nil, unimplemented("GoogleAuthURL")
}
func (UnimplementedVaultServer) GoogleConnect(context.Context, *GoogleConnectRequest) (*Empty, error) {
	return nil, unimplemented("GoogleConnect")
}
func (UnimplementedVaultServer) GoogleStatus(context.Context, *GoogleStatusRequest) (*GoogleStatusResponse, error) {
	return nil, unimplemented("GoogleStatus")
}
func (UnimplementedVaultServer) GoogleDisconnect(context.Context, *GoogleDisconnectRequest) (*Empty, error) {
	return nil, unimplemented("GoogleDisconnect")
}

func unary[Req, Resp any](name string, call func(VaultServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(VaultServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(VaultServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*VaultServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Ping", VaultServer.Ping),
		unary("InitUser", VaultServer.InitUser),
		unary("DeleteAccount", VaultServer.DeleteAccount),
		unary("VerifyPassword", VaultServer.VerifyPassword),
		unary("ChangePassword", VaultServer.ChangePassword),
		unary("JobStatus", VaultServer.JobStatus),
		unary("ListJobs", VaultServer.ListJobs),
		unary("UploadEncrypted", VaultServer.UploadEncrypted),
		unary("EncryptAndUpload", VaultServer.EncryptAndUpload),
		unary("Download", VaultServer.Download),
		unary("DownloadDecrypted", VaultServer.DownloadDecrypted),
		unary("ListFiles", VaultServer.ListFiles),
		unary("DeleteFile", VaultServer.DeleteFile),
		unary("GoogleAuthURL", VaultServer.GoogleAuthURL),
		unary("GoogleConnect", VaultServer.GoogleConnect),
		unary("GoogleStatus", VaultServer.GoogleStatus),
		unary("GoogleDisconnect", VaultServer.GoogleDisconnect),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophvault/vault",
}

func RegisterVaultServer(s grpc.ServiceRegistrar, srv VaultServer) {
	s.RegisterService(&ServiceDesc, srv)
}
