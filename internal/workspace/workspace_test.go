package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmoroni/cactusbot/internal/config"
)

func TestWorkspace_EnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cactus")
	ws := New(config.WorkspaceConfig{Path: dir})

	require.NoError(t, ws.EnsureDir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Second call is a no-op
	require.NoError(t, ws.EnsureDir())
}

func TestWorkspace_EnsureDirEmptyPath(t *testing.T) {
	ws := New(config.WorkspaceConfig{})
	require.Error(t, ws.EnsureDir())
}

func TestWorkspace_EnsureDirFileCollision(t *testing.T) {
	file := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	ws := New(config.WorkspaceConfig{Path: file})
	err := ws.EnsureDir()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestWorkspace_Bootstrap(t *testing.T) {
	dir := t.TempDir()
	ws := New(config.WorkspaceConfig{Path: dir})

	require.NoError(t, ws.Bootstrap())

	for _, sub := range []string{"reminders", "prefs", "personas"} {
		info, err := os.Stat(filepath.Join(dir, sub))
		require.NoError(t, err, sub)
		assert.True(t, info.IsDir(), sub)
	}
}

func TestWorkspace_Subpath(t *testing.T) {
	ws := New(config.WorkspaceConfig{Path: "/data/cactus"})
	assert.Equal(t, "/data/cactus/reminders", ws.Subpath("reminders"))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home, expandHome("~"))
	assert.Equal(t, filepath.Join(home, ".cactusbot"), expandHome("~/.cactusbot"))
	assert.Equal(t, "/absolute/path", expandHome("/absolute/path"))
	assert.Equal(t, "relative/path", expandHome("relative/path"))
}
