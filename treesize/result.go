package treesize

import (
	"emperror.dev/errors"
)

// Result is the aggregate for a single subtree.
type Result struct {
	// Bytes is the sum of the lengths of every regular file reachable without
	// crossing a reparse point.
	Bytes int64
	// Files is the number of regular files counted in Bytes.
	Files int64
	// Directories is the number of directories listed, including the root.
	Directories int64
	// ReparsePoints is the number of links and junctions that were skipped.
	ReparsePoints int64
	// Failures holds an *EnumerationError for every subtree or entry that was
	// counted as zero because it could not be read.
	Failures []error
}

func (r *Result) merge(o Result) {
	r.Bytes += o.Bytes
	r.Files += o.Files
	r.Directories += o.Directories
	r.ReparsePoints += o.ReparsePoints
	r.Failures = append(r.Failures, o.Failures...)
}

// Err combines all recorded failures into a single error, or returns nil if
// the tree was read completely.
func (r *Result) Err() error {
	return errors.Combine(r.Failures...)
}
