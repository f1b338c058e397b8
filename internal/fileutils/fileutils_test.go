package fileutils_test

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/statement-import/internal/fileutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))

	assert.True(t, fileutils.FileExists(testFile))
	assert.False(t, fileutils.FileExists(filepath.Join(tmpDir, "nonexistent.txt")))
	assert.False(t, fileutils.FileExists(tmpDir))
	assert.True(t, fileutils.DirectoryExists(tmpDir))
	assert.False(t, fileutils.DirectoryExists(testFile))
}

func TestEnsureParentDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "a", "b", "ledger.csv")

	require.NoError(t, fileutils.EnsureParentDirectory(target))
	assert.True(t, fileutils.DirectoryExists(filepath.Join(tmpDir, "a", "b")))
	assert.NoError(t, fileutils.EnsureDirectoryExists("."))
}

func TestReadFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "statement.csv")
	require.NoError(t, os.WriteFile(path, []byte("Date,Amount"), 0600))

	data, err := fileutils.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Date,Amount", string(data))

	_, err = fileutils.ReadFile(filepath.Join(tmpDir, "missing.csv"))
	assert.Error(t, err)
}

func TestListFilesWithExtensions(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"b.csv", "a.OFX", "notes.txt", "c.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "sub.csv"), 0750))

	files, err := fileutils.ListFilesWithExtensions(tmpDir, []string{".csv", ".ofx", ".pdf"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(tmpDir, "a.OFX"),
		filepath.Join(tmpDir, "b.csv"),
		filepath.Join(tmpDir, "c.pdf"),
	}, files)

	_, err = fileutils.ListFilesWithExtensions(filepath.Join(tmpDir, "missing"), []string{".csv"})
	assert.Error(t, err)
}
