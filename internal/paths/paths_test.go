package paths

import (
	"os"
	"os/user"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserHomeDir(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		sudoUser string
	}{
		{"no sudo", ""},
		{"sudo as root is ignored", "root"},
		{"unknown sudo user falls back", "nonexistent_user_12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SUDO_USER", tt.sudoUser)
			got, err := UserHomeDir()
			require.NoError(t, err)
			assert.Equal(t, home, got)
		})
	}
}

func TestUserHomeDir_WithSudoUser(t *testing.T) {
	current, err := user.Current()
	if err != nil {
		t.Skip("cannot resolve current user")
	}
	t.Setenv("SUDO_USER", current.Username)

	got, err := UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, current.HomeDir, got)
}

func TestConfigAndLogPath(t *testing.T) {
	t.Setenv("SUDO_USER", "")
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg, err := ConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "findedupe", "config.toml"), cfg)

	logPath, err := LogPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "findedupe", "findedupe.log"), logPath)
}
