package app

import (
	"context"
	"testing"
	"time"

	"tableflip.dev/codecanvas/pkg/index/indextest"
	"tableflip.dev/codecanvas/pkg/live"
	"tableflip.dev/codecanvas/pkg/manifest"
)

func row(path string, bytes, lines int64) manifest.Raw {
	return manifest.Raw{FilePath: path, SizeBytes: manifest.Int64(bytes), LineCount: manifest.Int64(lines)}
}

func TestStatsTotals(t *testing.T) {
	idx := indextest.New()
	idx.SetManifest(nil,
		row("main.go", 100, 10),
		row("pkg/a/a.go", 300, 40),
		row("pkg/b.go", 50, 5),
		row("docs/", 0, 0),
	)
	svc := &Service{Index: idx}

	got, err := svc.Stats(context.Background(), nil, 2)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if got.Files != 3 || got.Bytes != 450 || got.Lines != 55 {
		t.Fatalf("unexpected totals: %+v", got)
	}
	if got.Folders != 3 {
		t.Fatalf("expected pkg, pkg/a and docs, got %d folders", got.Folders)
	}
	if len(got.Largest) != 2 || got.Largest[0].Path != "pkg/a/a.go" {
		t.Fatalf("unexpected ranking: %+v", got.Largest)
	}
	if got.Top[0].Folder != "pkg" || got.Top[0].Files != 2 || got.Top[0].Lines != 45 {
		t.Fatalf("unexpected top folder: %+v", got.Top[0])
	}
	if got.Top[1].Folder != "." {
		t.Fatalf("expected root files under \".\", got %+v", got.Top[1])
	}
}

func TestReportDiffsWindow(t *testing.T) {
	idx := indextest.New()
	since := time.UnixMilli(1_000).UTC()
	idx.SetManifest(&since,
		row("main.go", 100, 10),
		row("pkg/old.go", 20, 2),
		row("pkg/same.go", 30, 3),
	)
	idx.SetManifest(nil,
		row("main.go", 120, 12),
		row("pkg/same.go", 30, 3),
		row("pkg/new.go", 40, 4),
	)
	svc := &Service{Index: idx}

	got, err := svc.Report(context.Background(), since, nil)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if got.Added != 1 || got.Updated != 1 || got.Deleted != 1 || got.Total != 3 {
		t.Fatalf("unexpected counts: %+v", got)
	}
	if len(got.Sections) != 2 || got.Sections[0].Folder != "." || got.Sections[1].Folder != "pkg" {
		t.Fatalf("unexpected sections: %+v", got.Sections)
	}
	main := got.Sections[0].Changes[0]
	if main.Action != live.Updated || main.BytesDelta != 20 || main.LinesDelta != 2 {
		t.Fatalf("unexpected update: %+v", main)
	}
	pkg := got.Sections[1].Changes
	if pkg[0].Path != "pkg/new.go" || pkg[0].Action != live.Added {
		t.Fatalf("unexpected first pkg change: %+v", pkg[0])
	}
	if pkg[1].Path != "pkg/old.go" || pkg[1].Action != live.Deleted || pkg[1].LinesDelta != -2 {
		t.Fatalf("unexpected second pkg change: %+v", pkg[1])
	}
}

func TestReportNeedsIndex(t *testing.T) {
	svc := &Service{}
	if _, err := svc.Report(context.Background(), time.Now(), nil); err == nil {
		t.Fatal("expected error without an index")
	}
}
