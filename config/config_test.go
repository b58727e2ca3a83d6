package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/priyxstudio/treesize/treesize"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return p
}

func TestNewAtPath_Defaults(t *testing.T) {
	c, err := NewAtPath("/tmp/config.yml")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Path() != "/tmp/config.yml" {
		t.Fatalf("expected path to be tracked, got %q", c.Path())
	}
	if !c.Scan.Recursive {
		t.Fatalf("expected recursive to default to true")
	}
	if c.Scan.Threads != 0 || c.Scan.GlobalLimit != 0 || c.Scan.Timeout != 0 {
		t.Fatalf("unexpected numeric defaults: %#v", c.Scan)
	}
	if c.Scan.OnError != "skip" {
		t.Fatalf("expected on_error to default to skip, got %q", c.Scan.OnError)
	}
	if c.FailurePolicy() != treesize.SkipOnFailure {
		t.Fatalf("expected skip policy")
	}
	if c.Output.Human || c.Output.ShowVolume || c.Output.JSON || c.Debug {
		t.Fatalf("expected output flags to be off by default")
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestFromFile(t *testing.T) {
	p := writeConfig(t, `
debug: true
scan:
  threads: 8
  recursive: false
  on_error: abort
  timeout: 30
output:
  human: true
`)
	if err := FromFile(p); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	c := Get()
	if !c.Debug {
		t.Fatalf("expected debug to be set")
	}
	if c.Scan.Threads != 8 || c.Scan.Recursive || c.Scan.Timeout != 30 {
		t.Fatalf("unexpected scan configuration: %#v", c.Scan)
	}
	if c.FailurePolicy() != treesize.AbortOnFailure {
		t.Fatalf("expected abort policy, got %s", c.FailurePolicy())
	}
	if !c.Output.Human || c.Output.ShowVolume {
		t.Fatalf("unexpected output configuration: %#v", c.Output)
	}
	// Values absent from the file keep their defaults.
	if c.Scan.GlobalLimit != 0 {
		t.Fatalf("expected global_limit default, got %d", c.Scan.GlobalLimit)
	}
}

func TestFromFile_Invalid(t *testing.T) {
	cases := map[string]string{
		"policy":       "scan:\n  on_error: ignore\n",
		"global limit": "scan:\n  global_limit: -1\n",
		"timeout":      "scan:\n  timeout: -5\n",
		"yaml":         "scan: [not, a, map\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if err := FromFile(writeConfig(t, content)); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	p := filepath.Join(t.TempDir(), "missing.yml")

	if err := Load(p, true); err == nil {
		t.Fatalf("expected an error for an explicit missing file")
	}

	if err := Load(p, false); err != nil {
		t.Fatalf("expected defaults for an implicit missing file, got %v", err)
	}
	c := Get()
	if c.Path() != p || !c.Scan.Recursive {
		t.Fatalf("expected default configuration at %q, got %#v", p, c)
	}
}

func TestUpdate(t *testing.T) {
	c, err := NewAtPath("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	Set(c)

	Update(func(c *Configuration) {
		c.Scan.Threads = 3
	})
	got := Get()
	if got.Scan.Threads != 3 {
		t.Fatalf("expected update to apply, got %d", got.Scan.Threads)
	}

	// Modifying the copy does not touch the stored configuration.
	got.Scan.Threads = 9
	if Get().Scan.Threads != 3 {
		t.Fatalf("expected Get to return a copy")
	}
}

func TestWriteToDisk(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "config.yml")
	c, err := NewAtPath(p)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	c.Scan.Threads = 4
	c.Output.ShowVolume = true

	if err := WriteToDisk(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := FromFile(p); err != nil {
		t.Fatalf("expected written file to load, got %v", err)
	}
	got := Get()
	if got.Scan.Threads != 4 || !got.Output.ShowVolume {
		t.Fatalf("unexpected configuration after reload: %#v", got)
	}

	if err := WriteToDisk(&Configuration{}); err == nil {
		t.Fatalf("expected an error without a path")
	}
}
