package layout

import (
	"fmt"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"tableflip.dev/codecanvas/pkg/manifest"
)

func sampleEntries(seed int64, n int) []manifest.Entry {
	r := rand.New(rand.NewSource(seed))
	dirs := []string{"", "cmd", "pkg", "pkg/store", "pkg/store/internal", "pkg/tui", "docs", "pkg/tui/theme"}
	entries := make([]manifest.Entry, 0, n)
	for i := 0; i < n; i++ {
		dir := dirs[r.Intn(len(dirs))]
		name := fmt.Sprintf("f%03d.go", i)
		if dir != "" {
			name = dir + "/" + name
		}
		entries = append(entries, manifest.Entry{
			Path:  name,
			Bytes: int64(r.Intn(50000)),
			Lines: int64(r.Intn(2000)),
		})
	}
	return entries
}

func folderSet(entries []manifest.Entry) map[string]struct{} {
	set := make(map[string]struct{})
	for _, e := range entries {
		for p := manifest.Parent(e.Path); p != ""; p = manifest.Parent(p) {
			set[p] = struct{}{}
		}
	}
	return set
}

func assertNoSiblingOverlap(t *testing.T, res Result) {
	t.Helper()
	byParent := make(map[string][]Rect)
	for _, r := range res.Rects() {
		parent := manifest.Parent(r.ID)
		byParent[parent] = append(byParent[parent], r)
	}
	for parent, siblings := range byParent {
		for i := range siblings {
			for j := i + 1; j < len(siblings); j++ {
				if siblings[i].Overlaps(siblings[j]) {
					t.Fatalf("siblings under %q overlap: %+v and %+v", parent, siblings[i], siblings[j])
				}
			}
		}
	}
}

func TestHierarchicalOneRectPerFileAndFolder(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		entries := sampleEntries(seed, 40)
		res := Compute(entries, Hierarchical, Lines)

		if got := len(res.Files()); got != len(entries) {
			t.Fatalf("seed %d: %d file rects, want %d", seed, got, len(entries))
		}
		folders := folderSet(entries)
		if got := len(res.Folders()); got != len(folders) {
			t.Fatalf("seed %d: %d folder rects, want %d", seed, got, len(folders))
		}
		for f := range folders {
			if _, ok := res.Rect(f); !ok {
				t.Fatalf("seed %d: missing folder rect %q", seed, f)
			}
		}
		assertNoSiblingOverlap(t, res)

		for _, r := range res.Rects() {
			parent := manifest.Parent(r.ID)
			if parent == "" {
				continue
			}
			pr, ok := res.Rect(parent)
			if !ok {
				t.Fatalf("seed %d: parent %q of %q has no rect", seed, parent, r.ID)
			}
			if !pr.Encloses(r) {
				t.Fatalf("seed %d: %q does not enclose %q", seed, parent, r.ID)
			}
			if r.X < pr.X+FolderPadding || r.Y < pr.Y+FolderHeader+FolderPadding {
				t.Fatalf("seed %d: %q is not padded inside %q", seed, r.ID, parent)
			}
		}
	}
}

func TestLayoutIsIdempotent(t *testing.T) {
	entries := sampleEntries(42, 60)
	for _, mode := range []Mode{Hierarchical, TreemapFlat, TreemapFolders} {
		for _, metric := range []Metric{Bytes, Lines} {
			a := Compute(entries, mode, metric)
			b := Compute(entries, mode, metric)
			if !reflect.DeepEqual(a.Rects(), b.Rects()) {
				t.Fatalf("%s/%s: layout differs between runs", mode, metric)
			}
		}
	}
}

func TestEmptyManifest(t *testing.T) {
	for _, mode := range []Mode{Hierarchical, TreemapFlat, TreemapFolders} {
		res := Compute(nil, mode, Bytes)
		if res.Len() != 0 {
			t.Fatalf("%s: expected no rects, got %d", mode, res.Len())
		}
		if res.Bounds() != (Rect{}) {
			t.Fatalf("%s: expected zero bounds, got %+v", mode, res.Bounds())
		}
	}
}

func TestTreemapFlatAreaRatio(t *testing.T) {
	entries := []manifest.Entry{
		{Path: "a/b.py", Lines: 120, Bytes: 1},
		{Path: "a/c.py", Lines: 40, Bytes: 1},
	}
	res := Compute(entries, TreemapFlat, Lines)
	if len(res.Folders()) != 0 {
		t.Fatalf("treemap-flat must not emit folders")
	}
	b, _ := res.Rect("a/b.py")
	c, _ := res.Rect("a/c.py")
	if b.Area() <= c.Area() {
		t.Fatalf("expected b.py larger than c.py: %v vs %v", b.Area(), c.Area())
	}
	want := math.Sqrt(120.0/160.0) / math.Sqrt(40.0/160.0)
	if got := b.Area() / c.Area(); math.Abs(got-want) > 1e-9 {
		t.Fatalf("area ratio = %v, want %v", got, want)
	}
	if b.Overlaps(c) {
		t.Fatalf("tiles overlap")
	}
}

func TestTreemapFlatLargestFirstAndClamped(t *testing.T) {
	entries := []manifest.Entry{
		{Path: "tiny.txt", Bytes: 1},
		{Path: "huge.bin", Bytes: 1 << 30},
		{Path: "zero.txt", Bytes: 0},
	}
	rects := Compute(entries, TreemapFlat, Bytes).Rects()
	if rects[0].ID != "huge.bin" {
		t.Fatalf("expected largest tile first, got %q", rects[0].ID)
	}
	for _, r := range rects {
		if r.W < MinTileWidth || r.W > MaxTileWidth || r.H < MinTileHeight || r.H > MaxTileHeight {
			t.Fatalf("tile %q out of bounds: %+v", r.ID, r)
		}
	}
	if rects[1].ID != "tiny.txt" || rects[2].ID != "zero.txt" {
		t.Fatalf("equal tiles should keep manifest order: %q, %q", rects[1].ID, rects[2].ID)
	}
}

func TestTreemapFoldersScalesWithinFolder(t *testing.T) {
	entries := []manifest.Entry{
		{Path: "src/big.go", Lines: 900},
		{Path: "src/small.go", Lines: 100},
		{Path: "loose.go", Lines: RootLinesNorm},
		{Path: "dot.go", Lines: 0},
	}
	res := Compute(entries, TreemapFolders, Lines)
	big, _ := res.Rect("src/big.go")
	small, _ := res.Rect("src/small.go")
	if big.Area() <= small.Area() {
		t.Fatalf("expected big.go tile larger than small.go")
	}
	loose, _ := res.Rect("loose.go")
	if loose.W != MaxTileWidth || loose.H != MaxTileHeight {
		t.Fatalf("root file at the normalizer should be max size, got %+v", loose)
	}
	dot, _ := res.Rect("dot.go")
	if dot.W != MinTileWidth || dot.H != MinTileHeight {
		t.Fatalf("floored root file should clamp to min size, got %+v", dot)
	}
	if _, ok := res.Rect("src"); !ok {
		t.Fatalf("treemap-folders should emit folder rects")
	}
	assertNoSiblingOverlap(t, res)
}

func TestFoldersPackBeforeFiles(t *testing.T) {
	entries := []manifest.Entry{
		{Path: "a/file.go"},
		{Path: "a/sub/inner.go"},
	}
	res := Compute(entries, Hierarchical, Bytes)
	sub, _ := res.Rect("a/sub")
	file, _ := res.Rect("a/file.go")
	if !(sub.X < file.X) {
		t.Fatalf("expected folder before file: sub=%+v file=%+v", sub, file)
	}
}

func TestRowsWrapAtFolderWidth(t *testing.T) {
	var entries []manifest.Entry
	for i := 0; i < 12; i++ {
		entries = append(entries, manifest.Entry{Path: fmt.Sprintf("dir/f%02d.go", i)})
	}
	res := Compute(entries, Hierarchical, Bytes)
	dir, _ := res.Rect("dir")
	if dir.W > FolderWrapWidth+2*FolderPadding {
		t.Fatalf("folder wider than wrap budget: %v", dir.W)
	}
	perRow := int((FolderWrapWidth + Gap) / (TileWidth + Gap))
	rows := (12 + perRow - 1) / perRow
	wantH := FolderHeader + 2*FolderPadding + float64(rows)*TileHeight + float64(rows-1)*Gap
	if dir.H != wantH {
		t.Fatalf("folder height = %v, want %v", dir.H, wantH)
	}
}

func TestEmptyFolderReservesPlaceholder(t *testing.T) {
	entries := []manifest.Entry{
		{Path: "empty/"},
		{Path: "top.go"},
	}
	res := Compute(entries, Hierarchical, Bytes)
	if _, ok := res.Rect("empty"); ok {
		t.Fatalf("empty folder should not emit a rect")
	}
	top, _ := res.Rect("top.go")
	if top.X != TileWidth+Gap {
		t.Fatalf("expected placeholder slot before top.go, got x=%v", top.X)
	}
}

func TestHitTestPrefersFiles(t *testing.T) {
	entries := []manifest.Entry{{Path: "a/b/c.go"}}
	res := Compute(entries, Hierarchical, Bytes)
	file, _ := res.Rect("a/b/c.go")
	cx, cy := file.Center()
	hit, ok := res.HitTest(cx, cy)
	if !ok || hit.ID != "a/b/c.go" {
		t.Fatalf("expected file hit, got %+v", hit)
	}
	inner, _ := res.Rect("a/b")
	hit, ok = res.HitTest(inner.X+1, inner.Y+1)
	if !ok || hit.ID != "a/b" {
		t.Fatalf("expected innermost folder hit, got %+v", hit)
	}
	if _, ok := res.HitTest(-100, -100); ok {
		t.Fatalf("expected miss outside bounds")
	}
}

func TestParseModeAndMetric(t *testing.T) {
	for _, mode := range []Mode{Hierarchical, TreemapFlat, TreemapFolders} {
		got, err := ParseMode(mode.String())
		if err != nil || got != mode {
			t.Fatalf("ParseMode(%q) = %v, %v", mode, got, err)
		}
	}
	if _, err := ParseMode("spiral"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
	if m, err := ParseMetric("LOC"); err != nil || m != Lines {
		t.Fatalf("ParseMetric(LOC) = %v, %v", m, err)
	}
	if TreemapFolders.Next() != Hierarchical || Bytes.Toggle() != Lines {
		t.Fatalf("unexpected cycling")
	}
}
