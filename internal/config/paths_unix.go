//go:build !windows

package config

import (
	"os"
	"path/filepath"
)

func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	return []string{
		filepath.Join(home, ".config", "bin2c", "config.yaml"),
		"/etc/bin2c/config.yaml",
	}
}
