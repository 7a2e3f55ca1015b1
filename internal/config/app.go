package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/shedtally/internal/common"
)

// DefaultDebounce coalesces bursts of store changes in the live watcher.
const DefaultDebounce = 100 * time.Millisecond

// SetDefaults registers the defaults every command relies on.
func SetDefaults() {
	viper.SetDefault("database.path", filepath.Join(DataDir(), "tally.db"))
	viper.SetDefault("cache.path", filepath.Join(DataDir(), "cache.json"))
	viper.SetDefault("contractor.id", "local")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
	viper.SetDefault("export.dir", ".")
	viper.SetDefault("watch.debounce", DefaultDebounce)
}

// DatabasePath returns the expanded SQLite database path.
func DatabasePath() string {
	return ExpandPath(viper.GetString("database.path"))
}

// CachePath returns the expanded local cache file path.
func CachePath() string {
	return ExpandPath(viper.GetString("cache.path"))
}

// ExportDir returns the expanded directory export files are written to.
func ExportDir() string {
	return ExpandPath(viper.GetString("export.dir"))
}

// ContractorID returns the configured account boundary for stored sessions.
func ContractorID() (string, error) {
	id := strings.TrimSpace(viper.GetString("contractor.id"))
	if id == "" {
		return "", common.ErrMissingContractor
	}
	return id, nil
}

// Debounce returns the watcher debounce interval.
func Debounce() time.Duration {
	d := viper.GetDuration("watch.debounce")
	if d <= 0 {
		return DefaultDebounce
	}
	return d
}
