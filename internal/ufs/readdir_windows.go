//go:build windows

package ufs

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"

	"golang.org/x/sys/windows"
)

// ReadDir returns the immediate children of the directory at path. Symbolic
// links, and directories carrying FILE_ATTRIBUTE_REPARSE_POINT (junctions,
// mount points), are reported as TypeLink and never resolved. Files with any
// other reparse tag are sized like regular files.
//
// Entries that disappear between the listing and the stat are dropped.
func ReadDir(path string) ([]Entry, error) {
	dirents, err := os.ReadDir(path)
	if err != nil {
		return nil, convertErrorType(err, "readdir", path)
	}

	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		e := Entry{Name: d.Name()}
		info, err := d.Info()
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			e.Err = convertErrorType(err, "stat", filepath.Join(path, e.Name))
			entries = append(entries, e)
			continue
		}
		var dir, reparse bool
		if attrs, ok := info.Sys().(*syscall.Win32FileAttributeData); ok {
			dir = attrs.FileAttributes&windows.FILE_ATTRIBUTE_DIRECTORY != 0
			reparse = attrs.FileAttributes&windows.FILE_ATTRIBUTE_REPARSE_POINT != 0
		}
		e.Type = typeOf(info.Mode(), dir, reparse)
		if e.Type == TypeRegular {
			e.Size = info.Size()
		}
		entries = append(entries, e)
	}
	return entries, nil
}
