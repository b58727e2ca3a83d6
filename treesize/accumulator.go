// Package treesize computes the total size of a directory tree, listing
// sibling subdirectories in parallel.
package treesize

import (
	"context"
	"path/filepath"

	"emperror.dev/errors"
	"github.com/apex/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/priyxstudio/treesize/internal/ufs"
)

// Accumulator sums the sizes of regular files below a directory. An
// Accumulator holds no per-run state and may be used for any number of
// concurrent computations.
type Accumulator struct {
	recursive      bool
	maxParallelism int
	globalLimit    int
	policy         FailurePolicy
	lister         Lister
	logger         *log.Entry

	sem *semaphore.Weighted
}

// New returns an Accumulator that descends recursively, skips unreadable
// subtrees and lists at most runtime.NumCPU() children of a directory at once
// unless configured otherwise.
func New(opts ...Option) *Accumulator {
	a := &Accumulator{
		recursive: true,
		lister:    DefaultLister,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.maxParallelism < 1 {
		a.maxParallelism = DefaultParallelism()
	}
	if a.lister == nil {
		a.lister = DefaultLister
	}
	if a.logger == nil {
		a.logger = log.WithField("subsystem", "treesize")
	}
	if a.globalLimit > 0 {
		a.sem = semaphore.NewWeighted(int64(a.globalLimit))
	}
	return a
}

// MaxParallelism returns the effective per-directory bound.
func (a *Accumulator) MaxParallelism() int {
	return a.maxParallelism
}

// ComputeSize returns the number of bytes used by regular files under path.
// A path that does not exist, or is not a directory, has a size of zero. So
// does an empty path. Unreadable subtrees are counted as zero. Use an
// Accumulator directly to find out which subtrees those were.
func ComputeSize(path string, recursive bool, maxParallelism int) int64 {
	res, _ := New(WithRecursive(recursive), WithMaxParallelism(maxParallelism)).Compute(context.Background(), path)
	return res.Bytes
}

// Compute walks the tree rooted at path.
//
// Under SkipOnFailure the returned error is only ever the context's error.
// Under AbortOnFailure the first *EnumerationError is returned as well, along
// with whatever had been summed up to that point.
func (a *Accumulator) Compute(ctx context.Context, path string) (Result, error) {
	a.logger.WithField("path", path).
		WithField("recursive", a.recursive).
		WithField("max_parallelism", a.maxParallelism).
		WithField("policy", a.policy).
		Debug("computing directory size")

	// Cleaning "" would give ".", the working directory.
	if path == "" {
		return Result{}, nil
	}
	res, err := a.directorySize(ctx, filepath.Clean(path))
	if err != nil {
		return res, errors.WrapIf(err, "treesize: failed to compute directory size")
	}
	return res, nil
}

// directorySize sums the immediate files of dir and, when recursive, the
// results of one task per subdirectory. Each task writes into its own slot
// and the slots are reduced once every task has returned.
func (a *Accumulator) directorySize(ctx context.Context, dir string) (Result, error) {
	var res Result

	entries, err := a.readDir(ctx, dir)
	if err != nil {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		// Missing directories, including ones removed mid-walk, have no size.
		if errors.Is(err, ufs.ErrNotExist) || errors.Is(err, ufs.ErrNotDirectory) {
			return res, nil
		}
		return res, a.fail(&res, dir, err)
	}
	res.Directories = 1

	var subdirs []string
	for _, e := range entries {
		if e.Err != nil {
			if err := a.fail(&res, filepath.Join(dir, e.Name), e.Err); err != nil {
				return res, err
			}
			continue
		}
		switch e.Type {
		case ufs.TypeRegular:
			res.Bytes += e.Size
			res.Files++
		case ufs.TypeDir:
			if a.recursive {
				subdirs = append(subdirs, filepath.Join(dir, e.Name))
			}
		case ufs.TypeLink:
			res.ReparsePoints++
			a.logger.WithField("path", filepath.Join(dir, e.Name)).Debug("skipping reparse point")
		}
	}
	if len(subdirs) == 0 {
		return res, nil
	}

	results := make([]Result, len(subdirs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxParallelism)
	for i, p := range subdirs {
		g.Go(func() error {
			r, err := a.directorySize(gctx, p)
			results[i] = r
			return err
		})
	}
	err = g.Wait()
	for _, r := range results {
		res.merge(r)
	}
	return res, err
}

func (a *Accumulator) readDir(ctx context.Context, dir string) ([]ufs.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if a.sem != nil {
		if err := a.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer a.sem.Release(1)
	}
	return a.lister.ReadDir(dir)
}

// fail applies the failure policy to a read error at path. It returns nil
// when the computation should carry on.
func (a *Accumulator) fail(res *Result, path string, err error) error {
	eErr := &EnumerationError{Path: path, Err: err}
	if a.policy == AbortOnFailure {
		return eErr
	}
	a.logger.WithField("path", path).WithError(err).Warn("failed to read path, counting it as zero bytes")
	res.Failures = append(res.Failures, eErr)
	return nil
}
