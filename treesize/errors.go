package treesize

import (
	"fmt"
)

// EnumerationError is recorded for every directory or directory entry that
// could not be read during a computation.
type EnumerationError struct {
	Path string
	Err  error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("treesize: failed to enumerate %s: %s", e.Path, e.Err)
}

func (e *EnumerationError) Unwrap() error {
	return e.Err
}
