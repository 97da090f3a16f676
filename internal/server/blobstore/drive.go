package blobstore

import (
	"bytes"
	"context"
	"io"

	"google.golang.org/api/drive/v3"
)

const (
	appDataFolder = "appDataFolder"
	uploaderName  = "gophvault"
)

// DriveServiceFunc returns a Drive client authorized as userID. It fails
// with common.ErrNotConnected when the user has not linked Google.
type DriveServiceFunc func(ctx context.Context, userID string) (*drive.Service, error)

// DriveStore keeps blobs in the application data folder of each user's
// Google Drive. Handles are Drive file ids.
type DriveStore struct {
	service DriveServiceFunc
}

func NewDriveStore(service DriveServiceFunc) *DriveStore {
	return &DriveStore{service: service}
}

func (s *DriveStore) Upload(ctx context.Context, userID, name string, data []byte) (string, error) {
	srv, err := s.service(ctx, userID)
	if err != nil {
		return "", err
	}
	meta := &drive.File{
		Name:     EncryptedName(name),
		Parents:  []string{appDataFolder},
		MimeType: "application/octet-stream",
		Properties: map[string]string{
			"encrypted":  "true",
			"uploadedBy": uploaderName,
		},
	}
	f, err := srv.Files.Create(meta).Media(bytes.NewReader(data)).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", remoteErr("drive upload", err)
	}
	return f.Id, nil
}

func (s *DriveStore) Download(ctx context.Context, userID, handle string) ([]byte, error) {
	srv, err := s.service(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp, err := srv.Files.Get(handle).Context(ctx).Download()
	if err != nil {
		return nil, remoteErr("drive download", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, remoteErr("drive read", err)
	}
	return data, nil
}

func (s *DriveStore) Delete(ctx context.Context, userID, handle string) error {
	srv, err := s.service(ctx, userID)
	if err != nil {
		return err
	}
	if err := srv.Files.Delete(handle).Context(ctx).Do(); err != nil {
		return remoteErr("drive delete", err)
	}
	return nil
}
