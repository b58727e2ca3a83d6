//go:build unix

package ufs

import (
	"errors"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// ReadDir returns the immediate children of the directory at path. Regular
// files are sized with fstatat relative to the open directory so the lookup
// never leaves it, and symbolic links are reported as TypeLink without being
// resolved.
//
// Entries that disappear between the listing and the stat are dropped.
func ReadDir(path string) ([]Entry, error) {
	var fd int
	var err error
	for {
		fd, err = unix.Open(path, O_RDONLY|O_DIRECTORY|O_CLOEXEC, 0)
		if !errors.Is(err, unix.EINTR) {
			break
		}
	}
	if err != nil {
		return nil, convertErrorType(err, "open", path)
	}
	// f takes ownership of fd and closes it.
	f := os.NewFile(uintptr(fd), path)
	defer f.Close()

	dirents, err := f.ReadDir(-1)
	if err != nil {
		return nil, convertErrorType(err, "readdirent", path)
	}

	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		e := Entry{Name: d.Name()}
		switch t := d.Type(); {
		case t&os.ModeSymlink != 0:
			e.Type = TypeLink
		case t.IsDir():
			e.Type = TypeDir
		case t.IsRegular():
			var st unix.Stat_t
			if err := unix.Fstatat(fd, e.Name, &st, AT_SYMLINK_NOFOLLOW); err != nil {
				if errors.Is(err, unix.ENOENT) {
					continue
				}
				e.Err = convertErrorType(err, "fstatat", filepath.Join(path, e.Name))
				break
			}
			e.Type = TypeRegular
			e.Size = st.Size
		default:
			e.Type = TypeOther
		}
		entries = append(entries, e)
	}
	return entries, nil
}
