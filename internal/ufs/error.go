package ufs

import (
	"errors"
	iofs "io/fs"
	"os"
	"syscall"
)

var (
	// ErrIsDirectory is an error for when an operation that operates only on
	// files is given a path to a directory.
	ErrIsDirectory = errors.New("is a directory")
	// ErrNotDirectory is an error for when an operation that operates only on
	// directories is given a path to a file.
	ErrNotDirectory = errors.New("not a directory")
	// ErrBadPathResolution is an error for when a path cannot be resolved
	// without looping through symbolic links.
	ErrBadPathResolution = errors.New("bad path resolution")
)

// Re-using the same names as Go's official `io/fs` package does.
var (
	ErrExist      = iofs.ErrExist
	ErrNotExist   = iofs.ErrNotExist
	ErrPermission = iofs.ErrPermission
)

// PathError records an error and the operation and file path that caused it.
type PathError = iofs.PathError

// convertErrorType converts errors returned by the platform into one of the
// path errors above, keeping the operation and path intact.
func convertErrorType(err error, op, path string) error {
	if err == nil {
		return nil
	}
	var pErr *os.PathError
	if errors.As(err, &pErr) {
		op, path, err = pErr.Op, pErr.Path, pErr.Err
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errnoToPathError(errno, op, path)
	}
	return &PathError{Op: op, Path: path, Err: err}
}
