//go:build windows

package system

import (
	"path/filepath"

	"github.com/shirou/gopsutil/v3/disk"
)

// getDiskForPath finds the partition holding path. Drive letters ("C:") and
// volumes mounted into folders ("C:\mnt\data") are both matched, the deepest
// one wins. filepath.Rel compares the paths case-insensitively.
func getDiskForPath(path string, partitions []disk.PartitionStat) (string, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", "", err
	}
	device, mountpoint := deepestMountpoint(abs, partitions)
	return device, mountpoint, nil
}
