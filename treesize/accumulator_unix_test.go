//go:build unix

package treesize_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/franela/goblin"

	"github.com/priyxstudio/treesize/treesize"
)

func TestAccumulator_Symlinks(t *testing.T) {
	g := Goblin(t)
	logger := newTestLogger()

	g.Describe("Symlinks", func() {
		var root, outside string

		g.BeforeEach(func() {
			root = t.TempDir()
			outside = t.TempDir()
		})

		g.It("skips a link to a directory outside of the tree", func() {
			g.Assert(writeFile(root, "a.txt", 10)).IsNil()
			g.Assert(writeFile(outside, "big", 1000)).IsNil()
			g.Assert(os.Symlink(outside, filepath.Join(root, "link"))).IsNil()

			res, err := treesize.New(treesize.WithLogger(logger)).Compute(context.Background(), root)

			g.Assert(err).IsNil()
			g.Assert(res.Bytes).Equal(int64(10))
			g.Assert(res.ReparsePoints).Equal(int64(1))
		})

		g.It("terminates on a link back to its own parent", func() {
			g.Assert(writeFile(root, "sub/a.txt", 10)).IsNil()
			g.Assert(os.Symlink(root, filepath.Join(root, "sub", "loop"))).IsNil()

			g.Assert(treesize.ComputeSize(root, true, 2)).Equal(int64(10))
		})

		g.It("does not count links to files", func() {
			g.Assert(writeFile(root, "a.txt", 10)).IsNil()
			g.Assert(os.Symlink(filepath.Join(root, "a.txt"), filepath.Join(root, "b.txt"))).IsNil()

			g.Assert(treesize.ComputeSize(root, true, 2)).Equal(int64(10))
		})

		g.It("follows a root that is itself a link", func() {
			g.Assert(writeFile(outside, "a.txt", 10)).IsNil()
			g.Assert(os.Symlink(outside, filepath.Join(root, "link"))).IsNil()

			g.Assert(treesize.ComputeSize(filepath.Join(root, "link"), true, 2)).Equal(int64(10))
		})

		g.It("records an unreadable directory as a failure", func() {
			// Permission checks do not apply to root.
			if os.Geteuid() == 0 {
				return
			}
			g.Assert(writeFile(root, "a.txt", 10)).IsNil()
			g.Assert(writeFile(root, "locked/b.txt", 20)).IsNil()
			g.Assert(os.Chmod(filepath.Join(root, "locked"), 0o000)).IsNil()
			defer os.Chmod(filepath.Join(root, "locked"), 0o755)

			res, err := treesize.New(treesize.WithLogger(logger)).Compute(context.Background(), root)

			g.Assert(err).IsNil()
			g.Assert(res.Bytes).Equal(int64(10))
			g.Assert(len(res.Failures)).Equal(1)
		})
	})
}
