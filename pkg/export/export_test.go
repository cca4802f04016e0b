package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tableflip.dev/codecanvas/pkg/index/indextest"
	"tableflip.dev/codecanvas/pkg/manifest"
)

func TestSnapshotWritesFilesAsOf(t *testing.T) {
	svc := indextest.New()
	past := time.UnixMilli(1500).UTC()
	svc.SetManifest(&past,
		manifest.Raw{FilePath: "a.go", LineCount: manifest.Int64(1)},
		manifest.Raw{FilePath: "pkg/b.go", LineCount: manifest.Int64(1)},
		manifest.Raw{FilePath: "pkg/gone.go", LineCount: manifest.Int64(1)},
		manifest.Raw{FilePath: "empty/"},
	)
	svc.SetContent("a.go", &past, "package a\n", "Go")
	svc.SetContent("pkg/b.go", nil, "package b\n", "Go")

	dir := t.TempDir()
	res, err := Snapshot(context.Background(), svc, &past, dir, 2)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if res.Files != 2 || res.Folders != 1 || res.Bytes != int64(len("package a\n")+len("package b\n")) {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(res.Missing) != 1 || res.Missing[0] != "pkg/gone.go" {
		t.Fatalf("missing = %v", res.Missing)
	}

	body, err := os.ReadFile(filepath.Join(dir, "pkg", "b.go"))
	if err != nil || string(body) != "package b\n" {
		t.Fatalf("pkg/b.go = %q, %v", body, err)
	}
	if info, err := os.Stat(filepath.Join(dir, "empty")); err != nil || !info.IsDir() {
		t.Fatalf("empty folder not created: %v", err)
	}
}

func TestSnapshotPropagatesFailures(t *testing.T) {
	svc := indextest.New()
	svc.SetManifest(nil, manifest.Raw{FilePath: "a.go"})
	boom := errors.New("boom")

	svc.Fail("content", boom)
	if _, err := Snapshot(context.Background(), svc, nil, t.TempDir(), 1); !errors.Is(err, boom) {
		t.Fatalf("expected content failure, got %v", err)
	}

	svc.Fail("manifest", boom)
	if _, err := Snapshot(context.Background(), svc, nil, t.TempDir(), 1); !errors.Is(err, boom) {
		t.Fatalf("expected manifest failure, got %v", err)
	}
}

func TestDestination(t *testing.T) {
	dir := t.TempDir()
	got, err := destination(dir, "/a/../b.go")
	if err != nil || got != filepath.Join(dir, "b.go") {
		t.Fatalf("destination = %q, %v", got, err)
	}
}
