package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/cryptox"
	"github.com/dmitrijs2005/gophvault/internal/filex"
	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/dmitrijs2005/gophvault/internal/server/blobstore"
	"github.com/dmitrijs2005/gophvault/internal/server/models"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const defaultMimeType = "application/octet-stream"

// PasswordVerifier is satisfied by *CredentialService.
type PasswordVerifier interface {
	Verify(ctx context.Context, userID, password string) (bool, error)
}

// EncryptedUpload is a file body that was encrypted by the client.
type EncryptedUpload struct {
	FileName   string
	MimeType   string
	Ciphertext []byte
	Nonce      string
	Salt       string
	AuthTag    string
}

// FileService stores encrypted files in the blob store and their metadata in
// the database.
type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       blobstore.Store
	verifier    PasswordVerifier
	log         logging.Logger
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, blobs blobstore.Store, verifier PasswordVerifier, log logging.Logger) *FileService {
	return &FileService{db: db, repomanager: m, blobs: blobs, verifier: verifier, log: log.With("module", "files")}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrInvalidCredentialInput, fmt.Sprintf(format, args...))
}

// validateUpload checks that the metadata has the sizes AES-GCM produces and
// that the tag matches the ciphertext trailer.
func validateUpload(u *EncryptedUpload) error {
	nonce, err := cryptox.DecodeB64(u.Nonce)
	if err != nil || len(nonce) != cryptox.NonceSize {
		return invalid("nonce must be %d bytes", cryptox.NonceSize)
	}
	salt, err := cryptox.DecodeB64(u.Salt)
	if err != nil || len(salt) != cryptox.SaltSize {
		return invalid("salt must be %d bytes", cryptox.SaltSize)
	}
	tag, err := cryptox.DecodeB64(u.AuthTag)
	if err != nil || len(tag) != cryptox.TagSize {
		return invalid("auth tag must be %d bytes", cryptox.TagSize)
	}
	if len(u.Ciphertext) < cryptox.TagSize {
		return invalid("ciphertext too short")
	}
	if !bytes.Equal(tag, cryptox.AuthTag(u.Ciphertext)) {
		return invalid("auth tag does not match ciphertext")
	}
	return nil
}

// UploadEncrypted stores a body encrypted on the client. The server never
// sees the password or the plaintext.
func (s *FileService) UploadEncrypted(ctx context.Context, userID string, u *EncryptedUpload) (*models.File, error) {
	if err := validateUpload(u); err != nil {
		return nil, err
	}
	return s.store(ctx, userID, u)
}

// EncryptAndUpload encrypts plaintext with a key derived from password and
// stores it. The password has to match the user's credential.
func (s *FileService) EncryptAndUpload(ctx context.Context, userID, fileName, mimeType string, plaintext []byte, password string) (*models.File, error) {
	ok, err := s.verifier.Verify(ctx, userID, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrAuthenticationFailure
	}

	env, err := cryptox.Seal(plaintext, password)
	if err != nil {
		return nil, err
	}
	return s.store(ctx, userID, &EncryptedUpload{
		FileName:   fileName,
		MimeType:   mimeType,
		Ciphertext: env.Ciphertext,
		Nonce:      cryptox.EncodeB64(env.Nonce),
		Salt:       cryptox.EncodeB64(env.Salt),
		AuthTag:    cryptox.EncodeB64(env.AuthTag),
	})
}

func (s *FileService) store(ctx context.Context, userID string, u *EncryptedUpload) (*models.File, error) {
	if name, ok := filex.BaseName(u.FileName); ok {
		u.FileName = name
	} else {
		u.FileName = "file"
	}
	if u.MimeType == "" {
		u.MimeType = defaultMimeType
	}

	handle, err := s.blobs.Upload(ctx, userID, u.FileName, u.Ciphertext)
	if err != nil {
		return nil, err
	}

	f := &models.File{
		ID:           uuid.NewString(),
		UserID:       userID,
		RemoteHandle: handle,
		Nonce:        u.Nonce,
		Salt:         u.Salt,
		AuthTag:      u.AuthTag,
		FileName:     u.FileName,
		MimeType:     u.MimeType,
		FileSize:     int64(len(u.Ciphertext) - cryptox.TagSize),
	}
	if err := s.repomanager.Files(s.db).Create(ctx, f); err != nil {
		if derr := s.blobs.Delete(ctx, userID, handle); derr != nil {
			s.log.Warn(ctx, "failed to remove orphaned upload", "user_id", userID, "handle", handle, "error", derr)
		}
		return nil, fmt.Errorf("create file record: %w", err)
	}
	s.log.Info(ctx, "file stored", "user_id", userID, "file_id", f.ID, "size", f.FileSize)
	return f, nil
}

// Download returns the record and its ciphertext.
func (s *FileService) Download(ctx context.Context, userID, fileID string) (*models.File, []byte, error) {
	f, err := s.repomanager.Files(s.db).Get(ctx, userID, fileID)
	if err != nil {
		return nil, nil, err
	}
	if f.RemoteHandle == "" {
		return nil, nil, fmt.Errorf("file %s has no stored content: %w", fileID, common.ErrorNotFound)
	}
	data, err := s.blobs.Download(ctx, userID, f.RemoteHandle)
	if err != nil {
		return nil, nil, err
	}
	return f, data, nil
}

// DownloadAndDecrypt returns the plaintext of fileID. A wrong password
// yields common.ErrAuthenticationFailure.
func (s *FileService) DownloadAndDecrypt(ctx context.Context, userID, fileID, password string) (*models.File, []byte, error) {
	f, data, err := s.Download(ctx, userID, fileID)
	if err != nil {
		return nil, nil, err
	}
	plaintext, err := cryptox.OpenEncoded(data, password, f.Nonce, f.Salt)
	if err != nil {
		return nil, nil, err
	}
	return f, plaintext, nil
}

func (s *FileService) List(ctx context.Context, userID string) ([]*models.File, error) {
	return s.repomanager.Files(s.db).ListByUser(ctx, userID)
}

// Delete removes the record. The remote copy is removed on a best-effort
// basis first.
func (s *FileService) Delete(ctx context.Context, userID, fileID string) error {
	repo := s.repomanager.Files(s.db)
	f, err := repo.Get(ctx, userID, fileID)
	if err != nil {
		return err
	}
	if f.RemoteHandle != "" {
		if err := s.blobs.Delete(ctx, userID, f.RemoteHandle); err != nil {
			s.log.Warn(ctx, "failed to delete remote file", "user_id", userID, "file_id", fileID, "error", err)
		}
	}
	return repo.Delete(ctx, userID, fileID)
}
