package system

import (
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
)

// isWithin reports whether path is mountpoint or below it.
func isWithin(path, mountpoint string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(mountpoint, abs)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// deepestMountpoint returns the partition with the longest mountpoint that
// contains path, so a volume mounted in a folder wins over the drive or root
// filesystem holding that folder.
func deepestMountpoint(path string, partitions []disk.PartitionStat) (device, mountpoint string) {
	best := -1
	for _, part := range partitions {
		mp := part.Mountpoint
		// "C:" alone means the working directory on drive C.
		if v := filepath.VolumeName(mp); v != "" && v == mp {
			mp += string(filepath.Separator)
		}
		if len(mp) > best && isWithin(path, mp) {
			device, mountpoint, best = part.Device, part.Mountpoint, len(mp)
		}
	}
	return device, mountpoint
}
