// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// AppName names the per-user config and data directories.
const AppName = "financas"

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	// First expand tilde if present
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

	// Then expand environment variables
	return os.ExpandEnv(path)
}

// Dir returns ~/.config/financas.
func Dir() string {
	return ExpandPath(filepath.Join("~", ".config", AppName))
}

// DefaultDBPath is where the ledger lives unless database.path says otherwise.
func DefaultDBPath() string {
	return ExpandPath(filepath.Join("~", ".local", "share", AppName, AppName+".db"))
}

// DefaultTokenFile is where the Google OAuth token is cached.
func DefaultTokenFile() string {
	return filepath.Join(Dir(), "sheets-token.json")
}
