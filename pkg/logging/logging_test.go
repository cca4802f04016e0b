package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canvas.log")
	logger, closeFn, err := New(path, "debug")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.WithField("component", "test").Debug("hello")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "component=test") || !strings.Contains(string(data), "hello") {
		t.Fatalf("unexpected log output %q", data)
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, _, err := New("", "loud"); err == nil {
		t.Fatalf("expected error for invalid level")
	}
}
