package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadModel_Success tests reading a well-placed model file.
func TestLoadModel_Success(t *testing.T) {
	path := writeModel(t, `(model M v1.0)`)
	source, err := LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, `(model M v1.0)`, source)
}

// TestLoadModel_NotFound tests L001 for a missing path.
func TestLoadModel_NotFound(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "nope.forma"))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
	assert.Contains(t, loadErr.Message, "file not found")
}

// TestLoadModel_Directory tests L001 when the path is a directory.
func TestLoadModel_Directory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "model.forma")
	require.NoError(t, os.Mkdir(dir, 0o755))

	_, err := LoadModel(dir)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
	assert.Contains(t, loadErr.Message, "not a file")
}

// TestLoadModel_WrongExtension tests L002 for any non-.forma file.
func TestLoadModel_WrongExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.txt")
	require.NoError(t, os.WriteFile(path, []byte("(model M v1.0)"), 0o644))

	_, err := LoadModel(path)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeExtension, loadErr.Code)
	assert.Contains(t, loadErr.Message, `.forma`)
}

// TestLoadError_Error tests the code-prefixed message form.
func TestLoadError_Error(t *testing.T) {
	err := &LoadError{Code: ErrCodeNotFound, Path: "x", Message: "file not found: x"}
	assert.Equal(t, "L001: file not found: x", err.Error())
}
