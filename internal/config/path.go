// Package config resolves file locations used by spice.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultDatabasePath is used when database.path is not configured.
	DefaultDatabasePath = "~/.local/share/spice/spice.db"

	configName = "config"
	configType = "yaml"
)

// ExpandPath expands a leading ~ and $VAR references in path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}

	return os.ExpandEnv(path)
}

// DatabasePath returns the expanded database path from v, falling back to
// DefaultDatabasePath. ":memory:" is returned unchanged.
func DatabasePath(v *viper.Viper) string {
	path := v.GetString("database.path")
	if path == "" {
		path = DefaultDatabasePath
	}
	if path == ":memory:" {
		return path
	}
	return ExpandPath(path)
}

// SearchPaths lists the directories searched for config.yaml, in order:
// ~/.config/spice, the platform config directory when it differs, then the
// working directory.
func SearchPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "spice"))
	}
	if dir, err := os.UserConfigDir(); err == nil {
		if p := filepath.Join(dir, "spice"); len(paths) == 0 || paths[0] != p {
			paths = append(paths, p)
		}
	}
	return append(paths, ".")
}

// Configure points v at cfgFile, or at config.yaml in SearchPaths when
// cfgFile is empty, and enables SPICE_ environment overrides.
func Configure(v *viper.Viper, cfgFile string) {
	if cfgFile != "" {
		v.SetConfigFile(ExpandPath(cfgFile))
	} else {
		for _, p := range SearchPaths() {
			v.AddConfigPath(p)
		}
		v.SetConfigName(configName)
		v.SetConfigType(configType)
	}

	v.SetEnvPrefix("SPICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}
