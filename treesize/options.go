package treesize

import (
	"runtime"
	"strings"

	"emperror.dev/errors"
	"github.com/apex/log"

	"github.com/priyxstudio/treesize/internal/ufs"
)

// FailurePolicy decides what happens when a directory, or an entry inside of
// it, cannot be read.
type FailurePolicy int

const (
	// SkipOnFailure counts the unreadable subtree as zero bytes, records the
	// failure on the Result and keeps going.
	SkipOnFailure FailurePolicy = iota
	// AbortOnFailure stops the whole computation on the first failure.
	AbortOnFailure
)

func (p FailurePolicy) String() string {
	if p == AbortOnFailure {
		return "abort"
	}
	return "skip"
}

// ParseFailurePolicy parses the textual form used in configuration files and
// on the command line.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skip":
		return SkipOnFailure, nil
	case "abort":
		return AbortOnFailure, nil
	}
	return SkipOnFailure, errors.Errorf("treesize: unknown failure policy %q (expected \"skip\" or \"abort\")", s)
}

// Lister enumerates the immediate children of a single directory.
type Lister interface {
	ReadDir(path string) ([]ufs.Entry, error)
}

// ListerFunc adapts a plain function to the Lister interface.
type ListerFunc func(path string) ([]ufs.Entry, error)

func (f ListerFunc) ReadDir(path string) ([]ufs.Entry, error) {
	return f(path)
}

// DefaultLister reads directories straight from the operating system.
var DefaultLister Lister = ListerFunc(ufs.ReadDir)

// DefaultParallelism is used whenever a parallelism below one is requested.
func DefaultParallelism() int {
	return runtime.NumCPU()
}

type Option func(a *Accumulator)

// WithRecursive controls whether subdirectories are descended into.
func WithRecursive(recursive bool) Option {
	return func(a *Accumulator) {
		a.recursive = recursive
	}
}

// WithMaxParallelism bounds the number of subdirectories of any one directory
// that are processed at the same time. Values below one fall back to the
// number of CPUs.
func WithMaxParallelism(n int) Option {
	return func(a *Accumulator) {
		a.maxParallelism = n
	}
}

// WithGlobalLimit caps the number of directories being listed at once across
// the whole tree. Zero disables the cap.
func WithGlobalLimit(n int) Option {
	return func(a *Accumulator) {
		a.globalLimit = n
	}
}

func WithFailurePolicy(p FailurePolicy) Option {
	return func(a *Accumulator) {
		a.policy = p
	}
}

func WithLister(l Lister) Option {
	return func(a *Accumulator) {
		a.lister = l
	}
}

func WithLogger(l *log.Entry) Option {
	return func(a *Accumulator) {
		a.logger = l
	}
}
