//go:build windows

package ufs

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// errnoToPathError converts an errno into a proper path error.
// On Windows, syscall.Errno matches Windows error codes.
func errnoToPathError(err syscall.Errno, op, path string) error {
	switch err {
	case windows.ERROR_FILE_EXISTS, windows.ERROR_ALREADY_EXISTS:
		return &PathError{Op: op, Path: path, Err: ErrExist}
	case windows.ERROR_PATH_NOT_FOUND, windows.ERROR_FILE_NOT_FOUND, windows.ERROR_INVALID_NAME:
		return &PathError{Op: op, Path: path, Err: ErrNotExist}
	// Returned when a file is opened as a directory.
	case windows.ERROR_DIRECTORY:
		return &PathError{Op: op, Path: path, Err: ErrNotDirectory}
	case windows.ERROR_ACCESS_DENIED:
		return &PathError{Op: op, Path: path, Err: ErrPermission}
	case windows.ERROR_CANT_RESOLVE_FILENAME:
		return &PathError{Op: op, Path: path, Err: ErrBadPathResolution}
	default:
		return &PathError{Op: op, Path: path, Err: err}
	}
}
