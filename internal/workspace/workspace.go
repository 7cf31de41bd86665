// Package workspace manages the directory where Cactusbot keeps its
// durable state:
//   - reminders/: per-conversation pending reminder and timer files
//   - prefs/: per-conversation user preference files
//   - personas/: persona prompt overrides
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lmoroni/cactusbot/internal/config"
	"github.com/lmoroni/cactusbot/internal/constants"
)

// Workspace is the root directory of all durable assistant state.
type Workspace struct {
	path     string // Expanded workspace path
	basePath string // Original path from config (may contain ~)
}

// New creates a Workspace from the given configuration. The configured path
// is kept as-is in basePath and expanded (~ to the home directory) in path.
func New(cfg config.WorkspaceConfig) *Workspace {
	return &Workspace{
		path:     expandHome(cfg.Path),
		basePath: cfg.Path,
	}
}

// Path returns the expanded workspace path.
func (w *Workspace) Path() string {
	return w.path
}

// BasePath returns the original path from config.
func (w *Workspace) BasePath() string {
	return w.basePath
}

// EnsureDir creates the workspace directory if it does not exist.
func (w *Workspace) EnsureDir() error {
	if w.path == "" {
		return fmt.Errorf("workspace path is empty")
	}

	info, err := os.Stat(w.path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("workspace path exists but is not a directory: %s", w.path)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access workspace path %s: %w", w.path, err)
	}

	if err := os.MkdirAll(w.path, 0755); err != nil {
		return fmt.Errorf("failed to create workspace directory %s: %w", w.path, err)
	}
	return nil
}

// Subpath returns the path of a workspace subdirectory.
func (w *Workspace) Subpath(name string) string {
	return filepath.Join(w.path, name)
}

// EnsureSubpath creates a subdirectory within the workspace if it does not
// exist.
func (w *Workspace) EnsureSubpath(name string) error {
	if err := w.EnsureDir(); err != nil {
		return fmt.Errorf("failed to ensure workspace: %w", err)
	}
	if name == "" {
		return fmt.Errorf("subdirectory name is empty")
	}

	subpath := w.Subpath(name)
	info, err := os.Stat(subpath)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("subdirectory path exists but is not a directory: %s", subpath)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access subdirectory %s: %w", subpath, err)
	}

	if err := os.MkdirAll(subpath, 0755); err != nil {
		return fmt.Errorf("failed to create subdirectory %s: %w", subpath, err)
	}
	return nil
}

// Bootstrap creates the workspace directory and every standard
// subdirectory.
func (w *Workspace) Bootstrap() error {
	for _, name := range []string{
		constants.RemindersSubdirectory,
		constants.PrefsSubdirectory,
		constants.PersonaSubdirectory,
	} {
		if err := w.EnsureSubpath(name); err != nil {
			return err
		}
	}
	return nil
}

// expandHome expands a leading ~ to the current user's home directory. An
// unresolvable home leaves the path untouched.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
