package filex

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureParentDir_CreatesNestedDirs(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "a", "b", "out.bin")

	require.NoError(t, EnsureParentDir(target))

	fi, err := os.Stat(filepath.Join(tmp, "a", "b"))
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureParentDir_FailsIfFileInTheWay(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "a"), []byte("x"), 0o600))

	require.Error(t, EnsureParentDir(filepath.Join(tmp, "a", "out.bin")))
}

func TestWriteFileAtomic_WritesWithPerm(t *testing.T) {
	target := filepath.Join(t.TempDir(), "sub", "hello.txt")

	require.NoError(t, WriteFileAtomic(target, []byte("hello world"), 0o600, false))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(got))

	if runtime.GOOS != "windows" {
		fi, err := os.Stat(target)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
	}

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file must not be left behind")
}

func TestWriteFileAtomic_RefusesOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "x.txt")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o600))

	err := WriteFileAtomic(target, []byte("new"), 0o600, false)
	require.True(t, errors.Is(err, os.ErrExist))

	got, _ := os.ReadFile(target)
	require.Equal(t, "old", string(got))

	require.NoError(t, WriteFileAtomic(target, []byte("new"), 0o600, true))
	got, _ = os.ReadFile(target)
	require.Equal(t, "new", string(got))
}

func TestWriteFileAtomic_RefusesDanglingSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	link := filepath.Join(dir, "out.txt")
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing.txt"), link))

	err := WriteFileAtomic(link, []byte("plain"), 0o600, false)
	require.ErrorIs(t, err, os.ErrExist)

	_, err = os.Stat(filepath.Join(dir, "missing.txt"))
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{name: "plain", in: "report.pdf", want: "report.pdf", ok: true},
		{name: "parent traversal", in: "../../evil.txt", want: "evil.txt", ok: true},
		{name: "absolute", in: "/etc/passwd", want: "passwd", ok: true},
		{name: "backslashes", in: `..\..\evil.txt`, want: "evil.txt", ok: true},
		{name: "empty", in: "", ok: false},
		{name: "dot", in: ".", ok: false},
		{name: "dotdot", in: "..", ok: false},
		{name: "trailing dotdot", in: "a/..", ok: false},
		{name: "root", in: "/", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BaseName(tt.in)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}
