// Package paths resolves findedupe's per-user files.
//
// Under sudo the paths point at the invoking user's directories (via
// SUDO_USER) rather than root's.
package paths

import (
	"os"
	"os/user"
	"path/filepath"
)

const appName = "findedupe"

// UserHomeDir returns the home directory of the actual user.
func UserHomeDir() (string, error) {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" && sudoUser != "root" {
		if u, err := user.Lookup(sudoUser); err == nil {
			return u.HomeDir, nil
		}
	}
	return os.UserHomeDir()
}

// AppDir returns ~/.config/findedupe for the actual user.
func AppDir() (string, error) {
	home, err := UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// ConfigPath returns ~/.config/findedupe/config.toml.
func ConfigPath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LogPath returns ~/.config/findedupe/findedupe.log.
func LogPath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName+".log"), nil
}

// PlansDir returns ~/.config/findedupe/plans, where scan reports are saved.
func PlansDir() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "plans"), nil
}
