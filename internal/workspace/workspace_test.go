package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	t.Parallel()

	m := NewManager(t.TempDir(), nil)

	ws, err := m.Acquire()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(ws.Dir()), Prefix))

	info, err := os.Stat(ws.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Contents go with the directory.
	require.NoError(t, os.WriteFile(filepath.Join(ws.Dir(), "a.mp4"), []byte("x"), 0o644))

	ws.Release()
	_, err = os.Stat(ws.Dir())
	assert.True(t, os.IsNotExist(err))

	// Second release is a no-op.
	ws.Release()
}

func TestAcquireUnique(t *testing.T) {
	t.Parallel()

	m := NewManager(t.TempDir(), nil)
	a, err := m.Acquire()
	require.NoError(t, err)
	b, err := m.Acquire()
	require.NoError(t, err)
	assert.NotEqual(t, a.Dir(), b.Dir())
}

func TestSweep(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	m := NewManager(root, nil)

	stale := filepath.Join(root, Prefix+"stale")
	require.NoError(t, os.Mkdir(stale, 0o755))
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	fresh, err := m.Acquire()
	require.NoError(t, err)

	unrelated := filepath.Join(root, "keep-me")
	require.NoError(t, os.Mkdir(unrelated, 0o755))
	require.NoError(t, os.Chtimes(unrelated, old, old))

	removed := m.Sweep(time.Hour)
	assert.Equal(t, 1, removed)

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(fresh.Dir())
	assert.NoError(t, err)
	_, err = os.Stat(unrelated)
	assert.NoError(t, err)
}
