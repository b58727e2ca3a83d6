package system

import (
	"path/filepath"

	"emperror.dev/errors"
	"github.com/shirou/gopsutil/v3/disk"
)

// Version is overridden at build time with -ldflags.
var Version = "develop"

// Volume describes the filesystem a path is stored on.
type Volume struct {
	Device     string `json:"device"`
	Mountpoint string `json:"mountpoint"`
	Fstype     string `json:"fstype"`
	TotalSpace uint64 `json:"total_space"`
	UsedSpace  uint64 `json:"used_space"`
}

// Share returns the percentage of the volume's total space that size bytes
// represent.
func (v *Volume) Share(size int64) float64 {
	if v.TotalSpace == 0 || size <= 0 {
		return 0
	}
	return float64(size) / float64(v.TotalSpace) * 100
}

// Name returns the most descriptive label available for the volume.
func (v *Volume) Name() string {
	switch {
	case v.Device != "" && v.Mountpoint != "":
		return v.Device + " on " + v.Mountpoint
	case v.Mountpoint != "":
		return v.Mountpoint
	case v.Device != "":
		return v.Device
	}
	return "volume"
}

// GetVolume returns usage information for the volume holding path.
func GetVolume(path string) (*Volume, error) {
	if p, err := filepath.EvalSymlinks(path); err == nil {
		path = p
	}
	usage, err := disk.Usage(path)
	if err != nil {
		return nil, errors.Wrap(err, "system: failed to get disk usage")
	}
	v := &Volume{
		Fstype:     usage.Fstype,
		TotalSpace: usage.Total,
		UsedSpace:  usage.Used,
	}

	// Failing to name the device is not fatal, the totals are what matter.
	partitions, err := disk.Partitions(false)
	if err != nil {
		return v, nil
	}
	device, mountpoint, err := getDiskForPath(path, partitions)
	if err != nil || mountpoint == "" {
		return v, nil
	}
	v.Device = device
	v.Mountpoint = mountpoint
	return v, nil
}
