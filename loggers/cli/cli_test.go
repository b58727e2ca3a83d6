package cli

import (
	"bytes"
	"strings"
	"testing"

	"emperror.dev/errors"
	"github.com/apex/log"
)

func TestHandleLog(t *testing.T) {
	var buf bytes.Buffer
	logger := &log.Logger{Handler: New(&buf, false), Level: log.InfoLevel}

	logger.WithField("path", "/srv/data").WithField("subsystem", "treesize").Warn("failed to read path")

	out := buf.String()
	if !strings.Contains(out, "WARN") {
		t.Fatalf("expected level in output, got %q", out)
	}
	if !strings.Contains(out, "failed to read path") {
		t.Fatalf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "path=/srv/data") {
		t.Fatalf("expected field in output, got %q", out)
	}
	if strings.Contains(out, "subsystem") {
		t.Fatalf("expected subsystem field to be hidden, got %q", out)
	}
}

func TestHandleLog_DebugStack(t *testing.T) {
	var buf bytes.Buffer
	logger := &log.Logger{Handler: New(&buf, false), Level: log.DebugLevel}

	logger.WithField("error", errors.New("boom")).Debug("something failed")

	out := buf.String()
	if strings.Count(out, "boom") < 2 {
		t.Fatalf("expected the error field and its stack in output, got %q", out)
	}
}
