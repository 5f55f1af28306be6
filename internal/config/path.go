// Package config loads smsledger settings from viper and optional side files.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// ConfigDir returns the directory searched for config.yaml.
func ConfigDir() string {
	return ExpandPath("~/.config/smsledger")
}

// DefaultDatabasePath returns where the ledger lives when database.path is unset.
func DefaultDatabasePath() string {
	return ExpandPath("~/.local/share/smsledger/smsledger.db")
}
