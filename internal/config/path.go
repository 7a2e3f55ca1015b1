// Package config resolves where tally keeps its files and reads the settings
// every command shares.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// appDir is the directory name used under the XDG base directories.
const appDir = "tally"

// ExpandPath expands a leading ~ to the home directory, then $VAR references.
// A path whose home directory cannot be resolved keeps its ~.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}
	return os.ExpandEnv(path)
}

// ConfigDir returns the directory holding config.yaml and the Google Sheets
// token: $XDG_CONFIG_HOME/tally, or ~/.config/tally.
func ConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns the directory holding the database and cache files:
// $XDG_DATA_HOME/tally, or ~/.local/share/tally. It falls back to the working
// directory when no home directory is known.
func DataDir() string {
	dir, err := xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	if err != nil {
		return "."
	}
	return dir
}

func xdgDir(env, fallback string) (string, error) {
	if base := strings.TrimSpace(os.Getenv(env)); base != "" {
		return filepath.Join(ExpandPath(base), appDir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, fallback, appDir), nil
}
