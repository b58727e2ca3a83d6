//go:build !windows

package config

// GetDefaultConfigLocation returns the default configuration file path.
func GetDefaultConfigLocation() string {
	return "/etc/treesize/config.yml"
}
