package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitRefresh(t *testing.T, w *Watcher) string {
	t.Helper()
	select {
	case dir := <-w.Refresh():
		return dir
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for refresh signal")
		return ""
	}
}

func TestWatcherSignalsOnNewFile(t *testing.T) {
	dir := t.TempDir()

	w, err := New()
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Point(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ServerRoles_1.xml"), []byte("x"), 0o644))

	assert.Equal(t, dir, waitRefresh(t, w))
}

func TestWatcherRepoint(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	w, err := New()
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Point(first))
	require.NoError(t, w.Point(second))

	require.NoError(t, os.WriteFile(filepath.Join(second, "a.xml"), []byte("x"), 0o644))
	assert.Equal(t, second, waitRefresh(t, w))
}

func TestWatcherPointErrors(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	defer w.Close()

	t.Run("missing directory", func(t *testing.T) {
		assert.Error(t, w.Point(filepath.Join(t.TempDir(), "nope")))
	})

	t.Run("not a directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file.txt")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
		assert.Error(t, w.Point(file))
	})
}

func TestWatcherCloseClosesRefresh(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	require.NoError(t, w.Close())

	select {
	case _, ok := <-w.Refresh():
		assert.False(t, ok, "refresh channel should be closed")
	case <-time.After(3 * time.Second):
		t.Fatal("refresh channel was not closed")
	}

	assert.Error(t, w.Point(t.TempDir()))
	assert.NoError(t, w.Close(), "double close should be safe")
}
