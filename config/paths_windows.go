//go:build windows

package config

import (
	"os"
	"path/filepath"
)

// GetDefaultConfigLocation returns the default configuration file path for Windows.
func GetDefaultConfigLocation() string {
	if programData := os.Getenv("ProgramData"); programData != "" {
		return filepath.Join(programData, "treesize", "config.yml")
	}
	return `C:\ProgramData\treesize\config.yml`
}
