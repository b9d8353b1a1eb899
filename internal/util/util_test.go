package util

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirectoryIsIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "host_vars")

	require.NoError(t, EnsureDirectory(dir))
	require.NoError(t, EnsureDirectory(dir))

	fi, exists := PathExists(dir)
	require.True(t, exists)
	assert.True(t, fi.IsDir())
}

func TestEnsureDirectoryRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host_vars")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	assert.Error(t, EnsureDirectory(path))
}

func TestWriteFileAtomicReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "r1.yaml")

	require.NoError(t, WriteFileAtomic(path, []byte("first\n"), DefaultFileMode))
	require.NoError(t, WriteFileAtomic(path, []byte("second\n"), DefaultFileMode))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(b))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files should be left behind")
}

func TestFormatErrorList(t *testing.T) {
	assert.NoError(t, FormatErrorList(nil))

	err := FormatErrorList([]error{errors.New("a"), errors.New("b")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[0] a")
	assert.Contains(t, err.Error(), "[1] b")
}

func TestGetCurrentUsername(t *testing.T) {
	assert.NotEmpty(t, GetCurrentUsername())
}
