// Package workspace manages the ephemeral per-request download directories.
// Each request gets an exclusively owned, uniquely named directory that is
// removed on every exit path; a sweeper reclaims directories left behind by
// an earlier crash.
package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Prefix marks directories owned by this bot so the sweeper never touches
// unrelated tmp entries.
const Prefix = "media_bot_"

// Manager allocates and reclaims workspaces under a single root.
type Manager struct {
	root   string
	logger *slog.Logger
}

// Workspace is one request-scoped directory. Release is safe to call more
// than once and from a defer on any exit path.
type Workspace struct {
	dir    string
	logger *slog.Logger
	once   sync.Once
}

// NewManager creates a Manager rooted at root; empty root means the system
// temp directory.
func NewManager(root string, log *slog.Logger) *Manager {
	if root == "" {
		root = os.TempDir()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		root:   root,
		logger: log.With(slog.String("component", "workspace")),
	}
}

// Acquire creates a fresh uniquely named directory.
func (m *Manager) Acquire() (*Workspace, error) {
	dir := filepath.Join(m.root, Prefix+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{dir: dir, logger: m.logger}, nil
}

// Dir returns the workspace directory path.
func (w *Workspace) Dir() string {
	return w.dir
}

// Release removes the directory and everything in it. Removal errors are
// logged and swallowed; the sweeper picks up anything left behind.
func (w *Workspace) Release() {
	w.once.Do(func() {
		if err := os.RemoveAll(w.dir); err != nil {
			w.logger.Warn("release failed", slog.String("dir", w.dir), slog.Any("error", err))
		}
	})
}

// Sweep removes workspaces under the root older than olderThan. It reclaims
// directories orphaned by a crash; live workspaces are younger than any
// reasonable cutoff. Returns the number of directories removed.
func (m *Manager) Sweep(olderThan time.Duration) int {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		m.logger.Warn("sweep read root failed", slog.String("root", m.root), slog.Any("error", err))
		return 0
	}
	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), Prefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		dir := filepath.Join(m.root, entry.Name())
		if err := os.RemoveAll(dir); err != nil {
			m.logger.Warn("sweep remove failed", slog.String("dir", dir), slog.Any("error", err))
			continue
		}
		removed++
	}
	if removed > 0 {
		m.logger.Info("swept orphaned workspaces", slog.Int("removed", removed))
	}
	return removed
}
