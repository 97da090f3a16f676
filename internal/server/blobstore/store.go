// Package blobstore holds the remote object stores that keep encrypted file
// bodies. Stores only ever see ciphertext.
package blobstore

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/dmitrijs2005/gophvault/internal/common"
)

// Store is a per-user remote blob store. Handles are opaque to callers and
// only valid for the user that created them.
type Store interface {
	Upload(ctx context.Context, userID, name string, data []byte) (string, error)
	Download(ctx context.Context, userID, handle string) ([]byte, error)
	Delete(ctx context.Context, userID, handle string) error
}

// EncryptedName is the object name used for a stored ciphertext.
func EncryptedName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" {
		base = "file"
	}
	return base + ".encrypted"
}

func remoteErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", common.ErrRemoteStore, op, err)
}
