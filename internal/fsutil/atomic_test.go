package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomicCreatesAndReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "version")

	require.NoError(t, WriteFileAtomic(path, []byte("1.21.0\n"), 0o644))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1.21.0\n", string(data))

	require.NoError(t, WriteFileAtomic(path, []byte("1.22.0\n"), 0o644))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1.22.0\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestWriteFileAtomicSetsPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "go")
	require.NoError(t, WriteFileAtomic(path, []byte("#!/bin/sh\n"), 0o755))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestWriteFileAtomicRenameFailureCleansUp(t *testing.T) {
	orig := osRename
	t.Cleanup(func() { osRename = orig })
	osRename = func(string, string) error { return errors.New("rename failed") }

	dir := t.TempDir()
	err := WriteFileAtomic(filepath.Join(dir, "version"), []byte("x"), 0o644)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rename failed")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	err := WriteFileAtomic(filepath.Join(t.TempDir(), "missing", "version"), []byte("x"), 0o644)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create temp file")
}
