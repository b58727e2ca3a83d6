//go:build !linux && !windows

package system

import "github.com/shirou/gopsutil/v3/disk"

func getDiskForPath(path string, partitions []disk.PartitionStat) (string, string, error) {
	// Without an fsid to compare the deepest containing mountpoint is used.
	device, mountpoint := deepestMountpoint(path, partitions)
	return device, mountpoint, nil
}
