package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestLogger_WritesComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "debug")

	l.Info("exclusion", "Compiled glob pattern", F("pattern", "*.nfo"), F("count", 2))
	l.Error("watcher", "Reload failed", errors.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"component":"exclusion"`)
	assert.Contains(t, lines[0], `"pattern":"*.nfo"`)
	assert.Contains(t, lines[0], `"count":2`)
	assert.Contains(t, lines[0], `"message":"Compiled glob pattern"`)
	assert.Contains(t, lines[1], `"level":"error"`)
	assert.Contains(t, lines[1], `"error":"boom"`)
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "warn")

	l.Debug("c", "hidden")
	l.Info("c", "hidden")
	assert.Empty(t, buf.String())

	l.Warn("c", "shown")
	assert.Contains(t, buf.String(), "shown")

	l.SetLevel("debug")
	assert.Equal(t, zerolog.DebugLevel, l.Level())
	l.Debug("c", "now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestLogger_NilAndNop(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Debug("c", "m")
		l.Info("c", "m")
		l.Warn("c", "m")
		l.Error("c", "m", nil)
		_ = l.Close()
	})

	n := Nop()
	assert.NotPanics(t, func() { n.Info("c", "m") })
	assert.Empty(t, n.FilePath())
}

func TestNew_WithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "findedupe.log")
	l, err := New(Config{Level: "info", File: path, JSON: true})
	require.NoError(t, err)

	l.Info("cli", "Scan complete", F("groups", 3))
	assert.Equal(t, path, l.FilePath())
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"groups":3`)
}

func TestRotatingFile_KeepsMaxBackups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	rf, err := openRotatingFile(path, 100, 2)
	require.NoError(t, err)

	line := []byte(strings.Repeat("x", 59) + "\n")
	for i := 0; i < 5; i++ {
		_, err := rf.Write(line)
		require.NoError(t, err)
	}
	require.NoError(t, rf.Close())

	assert.FileExists(t, path)
	assert.FileExists(t, filepath.Join(dir, "app.1.log"))
	assert.FileExists(t, filepath.Join(dir, "app.2.log"))
	assert.NoFileExists(t, filepath.Join(dir, "app.3.log"))

	_, err = rf.Write(line)
	assert.ErrorIs(t, err, os.ErrClosed)
}
