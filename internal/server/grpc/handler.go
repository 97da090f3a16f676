package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophvault/internal/rpc"
	"github.com/dmitrijs2005/gophvault/internal/server/models"
	"github.com/dmitrijs2005/gophvault/internal/server/reencrypt"
	"github.com/dmitrijs2005/gophvault/internal/server/services"
)

func fileToRPC(f *models.File) rpc.File {
	return rpc.File{
		ID:        f.ID,
		FileName:  f.FileName,
		MimeType:  f.MimeType,
		FileSize:  f.FileSize,
		Nonce:     f.Nonce,
		Salt:      f.Salt,
		AuthTag:   f.AuthTag,
		Stored:    f.RemoteHandle != "",
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func jobToRPC(s reencrypt.Snapshot) rpc.Job {
	return rpc.Job{
		JobID:          s.JobID,
		UserID:         s.UserID,
		TotalFiles:     s.TotalFiles,
		ProcessedFiles: s.ProcessedFiles,
		FailedFiles:    s.FailedFiles,
		Status:         string(s.Status),
		CreatedAt:      s.CreatedAt,
		CompletedAt:    s.CompletedAt,
		Failures:       s.Failures,
		Error:          s.Error,
	}
}

func (s *GRPCServer) Ping(ctx context.Context, req *rpc.PingRequest) (*rpc.PingResponse, error) {
	return &rpc.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) InitUser(ctx context.Context, req *rpc.InitUserRequest) (*rpc.InitUserResponse, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	created, err := s.users.InitUser(ctx, userID, req.Email, req.Name)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.InitUserResponse{Created: created}, nil
}

func (s *GRPCServer) DeleteAccount(ctx context.Context, req *rpc.DeleteAccountRequest) (*rpc.Empty, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.users.DeleteAccount(ctx, userID); err != nil {
		return nil, toStatus(err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) VerifyPassword(ctx context.Context, req *rpc.VerifyPasswordRequest) (*rpc.VerifyPasswordResponse, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	ok, err := s.credentials.Verify(ctx, userID, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.VerifyPasswordResponse{Valid: ok}, nil
}

func (s *GRPCServer) ChangePassword(ctx context.Context, req *rpc.ChangePasswordRequest) (*rpc.ChangePasswordResponse, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	jobID, err := s.credentials.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.ChangePasswordResponse{JobID: jobID}, nil
}

func (s *GRPCServer) JobStatus(ctx context.Context, req *rpc.JobStatusRequest) (*rpc.JobStatusResponse, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := s.credentials.JobStatus(ctx, userID, req.JobID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.JobStatusResponse{Job: jobToRPC(snap)}, nil
}

func (s *GRPCServer) ListJobs(ctx context.Context, req *rpc.ListJobsRequest) (*rpc.ListJobsResponse, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	snaps := s.credentials.ListJobs(ctx, userID)
	jobs := make([]rpc.Job, 0, len(snaps))
	for _, snap := range snaps {
		jobs = append(jobs, jobToRPC(snap))
	}
	return &rpc.ListJobsResponse{Jobs: jobs}, nil
}

func (s *GRPCServer) UploadEncrypted(ctx context.Context, req *rpc.UploadEncryptedRequest) (*rpc.FileResponse, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	f, err := s.files.UploadEncrypted(ctx, userID, &services.EncryptedUpload{
		FileName:   req.FileName,
		MimeType:   req.MimeType,
		Ciphertext: req.Ciphertext,
		Nonce:      req.Nonce,
		Salt:       req.Salt,
		AuthTag:    req.AuthTag,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.FileResponse{File: fileToRPC(f)}, nil
}

func (s *GRPCServer) EncryptAndUpload(ctx context.Context, req *rpc.EncryptAndUploadRequest) (*rpc.FileResponse, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	f, err := s.files.EncryptAndUpload(ctx, userID, req.FileName, req.MimeType, req.Data, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.FileResponse{File: fileToRPC(f)}, nil
}

func (s *GRPCServer) Download(ctx context.Context, req *rpc.DownloadRequest) (*rpc.DownloadResponse, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	f, data, err := s.files.Download(ctx, userID, req.FileID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.DownloadResponse{File: fileToRPC(f), Ciphertext: data}, nil
}

func (s *GRPCServer) DownloadDecrypted(ctx context.Context, req *rpc.DownloadDecryptedRequest) (*rpc.DownloadDecryptedResponse, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	f, data, err := s.files.DownloadAndDecrypt(ctx, userID, req.FileID, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.DownloadDecryptedResponse{File: fileToRPC(f), Data: data}, nil
}

func (s *GRPCServer) ListFiles(ctx context.Context, req *rpc.ListFilesRequest) (*rpc.ListFilesResponse, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.files.List(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}
	out := make([]rpc.File, 0, len(list))
	for _, f := range list {
		out = append(out, fileToRPC(f))
	}
	return &rpc.ListFilesResponse{Files: out}, nil
}

func (s *GRPCServer) DeleteFile(ctx context.Context, req *rpc.DeleteFileRequest) (*rpc.Empty, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.files.Delete(ctx, userID, req.FileID); err != nil {
		return nil, toStatus(err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) GoogleAuthURL(ctx context.Context, req *rpc.GoogleAuthURLRequest) (*rpc.GoogleAuthURLResponse, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	url, state, err := s.google.AuthURL(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.GoogleAuthURLResponse{URL: url, State: state}, nil
}

func (s *GRPCServer) GoogleConnect(ctx context.Context, req *rpc.GoogleConnectRequest) (*rpc.Empty, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.google.Connect(ctx, userID, req.Code); err != nil {
		return nil, toStatus(err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) GoogleStatus(ctx context.Context, req *rpc.GoogleStatusRequest) (*rpc.GoogleStatusResponse, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	st, err := s.google.Status(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.GoogleStatusResponse{Connected: st.Connected, Expiry: st.Expiry}, nil
}

func (s *GRPCServer) GoogleDisconnect(ctx context.Context, req *rpc.GoogleDisconnectRequest) (*rpc.Empty, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.google.Disconnect(ctx, userID); err != nil {
		return nil, toStatus(err)
	}
	return &rpc.Empty{}, nil
}
