package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFindModuleRoot walks up from a nested directory to the go.mod two
// levels above it.
func TestFindModuleRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"),
		[]byte("module example.com/app\n"), 0644))

	deep := filepath.Join(root, "internal", "widgets")
	require.NoError(t, os.MkdirAll(deep, 0755))

	found, err := findModuleRoot(deep)
	require.NoError(t, err)
	assert.Equal(t, root, found)
}

// TestFindModuleRoot_AtRoot finds a go.mod in the starting directory
// itself, without walking.
func TestFindModuleRoot_AtRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"),
		[]byte("module example.com/app\n"), 0644))

	found, err := findModuleRoot(root)
	require.NoError(t, err)
	assert.Equal(t, root, found)
}

// TestFindModuleRoot_NotFound verifies the error when no go.mod exists
// anywhere up the tree.
func TestFindModuleRoot_NotFound(t *testing.T) {
	dir := t.TempDir()

	_, err := findModuleRoot(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no go.mod found")
}

// TestModulePath reads the declared module path.
func TestModulePath(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"),
		[]byte("module example.com/widget\n\ngo 1.24\n\nrequire gopkg.in/yaml.v3 v3.0.1\n"), 0644))

	path, err := modulePath(root)
	require.NoError(t, err)
	assert.Equal(t, "example.com/widget", path)
}

// TestModulePath_NoModuleLine handles a go.mod without a module
// declaration; the lax parser skips lines it does not recognize, so this
// surfaces as a missing declaration rather than a parse error.
func TestModulePath_NoModuleLine(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"),
		[]byte("go 1.24\n"), 0644))

	_, err := modulePath(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no module declaration")
}

// TestModulePath_MissingFile verifies the read error when go.mod was
// removed between discovery and parse.
func TestModulePath_MissingFile(t *testing.T) {
	_, err := modulePath(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}
