// Package filex holds the small file helpers the CLI uses for decrypted
// downloads.
package filex

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
)

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// BaseName strips any directory part from a stored file name, treating both
// slash styles as separators. It reports false when nothing usable is left.
func BaseName(name string) (string, bool) {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	switch base {
	case "", ".", "..", "/":
		return "", false
	}
	return base, true
}

// WriteFileAtomic writes data to a synced temp file next to path and renames
// it into place, so a failed write never leaves a truncated plaintext behind.
// An existing file is only replaced when overwrite is set.
func WriteFileAtomic(path string, data []byte, perm os.FileMode, overwrite bool) error {
	if !overwrite {
		if _, err := os.Lstat(path); err == nil {
			return fmt.Errorf("%s: %w", path, os.ErrExist)
		}
	}

	if err := EnsureParentDir(path); err != nil {
		return err
	}

	if err := renameio.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
