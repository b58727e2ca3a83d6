package ufs

import (
	iofs "io/fs"
	"testing"
)

func TestTypeOf(t *testing.T) {
	cases := []struct {
		name    string
		mode    iofs.FileMode
		dir     bool
		reparse bool
		want    Type
	}{
		{"regular file", 0o644, false, false, TypeRegular},
		{"directory", iofs.ModeDir | 0o755, true, false, TypeDir},
		{"directory from attributes only", 0, true, false, TypeDir},
		{"symbolic link to a file", iofs.ModeSymlink, false, true, TypeLink},
		{"symbolic link to a directory", iofs.ModeSymlink, true, true, TypeLink},
		{"junction", iofs.ModeIrregular, true, true, TypeLink},
		{"junction reported as a directory", iofs.ModeDir, true, true, TypeLink},
		{"deduplicated file", 0o644, false, true, TypeRegular},
		{"cloud placeholder", iofs.ModeIrregular, false, true, TypeRegular},
		{"named pipe", iofs.ModeNamedPipe, false, false, TypeOther},
		{"socket", iofs.ModeSocket, false, false, TypeOther},
		{"character device", iofs.ModeDevice | iofs.ModeCharDevice, false, false, TypeOther},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := typeOf(c.mode, c.dir, c.reparse); got != c.want {
				t.Fatalf("typeOf(%v, %t, %t) = %s, want %s", c.mode, c.dir, c.reparse, got, c.want)
			}
		})
	}
}
