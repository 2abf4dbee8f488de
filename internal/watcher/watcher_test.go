package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Nomadcxx/findedupe/internal/config"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("scan_page_size = 10\n"), 0644))

	reloaded := make(chan *config.Config, 4)
	w, err := NewConfigWatcher(path, func(cfg *config.Config) { reloaded <- cfg }, nil, WithDebounce(100*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// An invalid file is skipped; the valid one that follows is delivered.
	require.NoError(t, os.WriteFile(path, []byte("scan_page_size = 0\n"), 0644))
	require.NoError(t, os.WriteFile(path, []byte("[exclusions]\nglob_patterns = [\"*.sample.*\"]\n"), 0644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, []string{"*.sample.*"}, cfg.Exclusions.GlobPatterns)
		assert.Equal(t, 50, cfg.ScanPageSize)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestConfigWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	w, err := NewConfigWatcher(path, nil, nil)
	require.NoError(t, err)
	defer w.fsWatcher.Close()

	assert.False(t, w.relevant(fsnotifyEvent(filepath.Join(dir, "other.toml"))))
	assert.True(t, w.relevant(fsnotifyEvent(path)))
}

func TestNewConfigWatcher_MissingDirectory(t *testing.T) {
	_, err := NewConfigWatcher(filepath.Join(t.TempDir(), "missing", "config.toml"), nil, nil)
	assert.Error(t, err)
}

func fsnotifyEvent(name string) fsnotify.Event {
	return fsnotify.Event{Name: name, Op: fsnotify.Write}
}
