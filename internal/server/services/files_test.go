package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/cryptox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clientUpload encrypts the way a browser or the CLI does before sending.
func clientUpload(t *testing.T, name, body, password string) *EncryptedUpload {
	t.Helper()
	env, err := cryptox.Seal([]byte(body), password)
	require.NoError(t, err)
	return &EncryptedUpload{
		FileName:   name,
		MimeType:   "text/plain",
		Ciphertext: env.Ciphertext,
		Nonce:      cryptox.EncodeB64(env.Nonce),
		Salt:       cryptox.EncodeB64(env.Salt),
		AuthTag:    cryptox.EncodeB64(env.AuthTag),
	}
}

func TestUploadEncrypted_HelloWorld(t *testing.T) {
	fx := newFixture(t)
	fx.initUser(t, "u1", "correct-horse-battery")
	ctx := context.Background()

	f, err := fx.files.UploadEncrypted(ctx, "u1", clientUpload(t, "hello.txt", "hello world", "correct-horse-battery"))
	require.NoError(t, err)
	assert.Equal(t, int64(len("hello world")), f.FileSize)
	assert.Equal(t, "hello.txt", f.FileName)
	assert.NotEmpty(t, f.RemoteHandle)

	_, plain, err := fx.files.DownloadAndDecrypt(ctx, "u1", f.ID, "correct-horse-battery")
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(plain))

	_, _, err = fx.files.DownloadAndDecrypt(ctx, "u1", f.ID, "wrong-horse-battery")
	assert.ErrorIs(t, err, common.ErrAuthenticationFailure)
}

func TestUploadEncrypted_Validation(t *testing.T) {
	fx := newFixture(t)
	fx.initUser(t, "u1", "")

	tests := []struct {
		name   string
		mutate func(u *EncryptedUpload)
	}{
		{"bad nonce", func(u *EncryptedUpload) { u.Nonce = cryptox.EncodeB64(make([]byte, 8)) }},
		{"nonce not base64", func(u *EncryptedUpload) { u.Nonce = "!!" }},
		{"bad salt", func(u *EncryptedUpload) { u.Salt = cryptox.EncodeB64(make([]byte, 4)) }},
		{"bad tag size", func(u *EncryptedUpload) { u.AuthTag = cryptox.EncodeB64(make([]byte, 15)) }},
		{"tag mismatch", func(u *EncryptedUpload) { u.AuthTag = cryptox.EncodeB64(make([]byte, cryptox.TagSize)) }},
		{"short ciphertext", func(u *EncryptedUpload) { u.Ciphertext = []byte("tiny") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := clientUpload(t, "a.txt", "body", "pw-12345678")
			tt.mutate(u)

			_, err := fx.files.UploadEncrypted(context.Background(), "u1", u)
			assert.ErrorIs(t, err, common.ErrInvalidCredentialInput)
			assert.Equal(t, 0, fx.store.Len("u1"))
		})
	}
}

func TestUploadEncrypted_RecordFailureRemovesBlob(t *testing.T) {
	fx := newFixture(t)
	fx.initUser(t, "u1", "")
	fx.mem.createFileErr = errors.New("db down")

	_, err := fx.files.UploadEncrypted(context.Background(), "u1", clientUpload(t, "a", "b", "pw-12345678"))
	assert.ErrorContains(t, err, "db down")
	assert.Equal(t, 0, fx.store.Len("u1"))
}

func TestEncryptAndUpload_RequiresPassword(t *testing.T) {
	fx := newFixture(t)
	fx.initUser(t, "u1", "right-password")
	ctx := context.Background()

	_, err := fx.files.EncryptAndUpload(ctx, "u1", "a.txt", "", []byte("x"), "wrong-password")
	assert.ErrorIs(t, err, common.ErrAuthenticationFailure)

	_, err = fx.files.EncryptAndUpload(ctx, "ghost", "a.txt", "", []byte("x"), "right-password")
	assert.ErrorIs(t, err, common.ErrNoCredentialRecord)

	f, err := fx.files.EncryptAndUpload(ctx, "u1", "", "", []byte("x"), "right-password")
	require.NoError(t, err)
	assert.Equal(t, "file", f.FileName)
	assert.Equal(t, "application/octet-stream", f.MimeType)
}

func TestDownload_ScopedByOwner(t *testing.T) {
	fx := newFixture(t)
	fx.initUser(t, "u1", "")
	fx.initUser(t, "u2", "")
	ctx := context.Background()

	f, err := fx.files.UploadEncrypted(ctx, "u1", clientUpload(t, "a", "secret", "pw-12345678"))
	require.NoError(t, err)

	rec, data, err := fx.files.Download(ctx, "u1", f.ID)
	require.NoError(t, err)
	assert.Equal(t, f.Nonce, rec.Nonce)
	assert.NotEmpty(t, data)

	_, _, err = fx.files.Download(ctx, "u2", f.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, fx.files.Delete(ctx, "u2", f.ID), common.ErrorNotFound)
}

func TestDownload_NoRemoteHandle(t *testing.T) {
	fx := newFixture(t)
	fx.initUser(t, "u1", "")
	f, err := fx.files.UploadEncrypted(context.Background(), "u1", clientUpload(t, "a", "x", "pw-12345678"))
	require.NoError(t, err)
	fx.mem.files[f.ID].RemoteHandle = ""

	_, _, err = fx.files.Download(context.Background(), "u1", f.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestListAndDelete(t *testing.T) {
	fx := newFixture(t)
	fx.initUser(t, "u1", "")
	ctx := context.Background()

	a, err := fx.files.UploadEncrypted(ctx, "u1", clientUpload(t, "a", "x", "pw-12345678"))
	require.NoError(t, err)
	_, err = fx.files.UploadEncrypted(ctx, "u1", clientUpload(t, "b", "y", "pw-12345678"))
	require.NoError(t, err)

	list, err := fx.files.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, fx.files.Delete(ctx, "u1", a.ID))
	assert.Equal(t, 1, fx.store.Len("u1"))

	list, err = fx.files.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDelete_RemoteFailureStillRemovesRecord(t *testing.T) {
	fx := newFixture(t)
	fx.initUser(t, "u1", "")
	ctx := context.Background()

	f, err := fx.files.UploadEncrypted(ctx, "u1", clientUpload(t, "a", "x", "pw-12345678"))
	require.NoError(t, err)
	require.NoError(t, fx.store.Delete(ctx, "u1", f.RemoteHandle))

	require.NoError(t, fx.files.Delete(ctx, "u1", f.ID))
	_, err = fx.files.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, fx.mem.files)
}

func TestStore_KeepsOnlyBaseName(t *testing.T) {
	fx := newFixture(t)
	fx.initUser(t, "u1", "OldPass123")
	ctx := context.Background()

	for in, want := range map[string]string{
		"../../evil.txt": "evil.txt",
		"/etc/passwd":    "passwd",
		`dir\name.bin`:   "name.bin",
		"..":             "file",
	} {
		f, err := fx.files.EncryptAndUpload(ctx, "u1", in, "", []byte("x"), "OldPass123")
		require.NoError(t, err, in)
		assert.Equal(t, want, f.FileName, in)
	}
}
