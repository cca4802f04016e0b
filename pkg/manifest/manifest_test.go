package manifest

import (
	"reflect"
	"testing"
)

func TestNormalizeRepairsMalformedRows(t *testing.T) {
	rows := []Raw{
		{FilePath: "src/main.go", SizeBytes: Int64(120), LineCount: Int64(10)},
		{FilePath: "", SizeBytes: Int64(5), LineCount: Int64(1)},
		{FilePath: "docs/README.md"},
		{FilePath: "/src//util.go", SizeBytes: Int64(-4), LineCount: Int64(0), Language: "Go"},
		{FilePath: "src/main.go", SizeBytes: Int64(200), LineCount: Int64(20)},
	}

	entries, issues := Normalize(rows)

	want := []string{"src/main.go", "docs/README.md", "src/util.go"}
	var got []string
	for _, e := range entries {
		got = append(got, e.Path)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("paths = %v, want %v", got, want)
	}
	if entries[0].Bytes != 200 || entries[0].Lines != 20 {
		t.Fatalf("duplicate should keep last occurrence, got %+v", entries[0])
	}
	if entries[1].Bytes != 1 || entries[1].Lines != 1 {
		t.Fatalf("missing metrics should floor to 1, got %+v", entries[1])
	}
	if entries[2].Bytes != 1 || entries[2].Lines != 1 {
		t.Fatalf("non-positive metrics should floor to 1, got %+v", entries[2])
	}
	if entries[2].Language != "Go" {
		t.Fatalf("explicit language should win, got %q", entries[2].Language)
	}
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %d: %v", len(issues), issues)
	}
}

func TestCleanPath(t *testing.T) {
	tests := map[string]string{
		"":             "",
		"  ":           "",
		"/":            "",
		"a/b.go":       "a/b.go",
		"./a//b.go":    "a/b.go",
		"a\\b.go":      "a/b.go",
		"empty/":       "empty/",
		"x/../y/z.txt": "y/z.txt",
	}
	for in, want := range tests {
		if got := CleanPath(in); got != want {
			t.Errorf("CleanPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildTreeKeepsManifestOrder(t *testing.T) {
	entries := []Entry{
		{Path: "b/two.go"},
		{Path: "a/one.go"},
		{Path: "b/sub/three.go"},
		{Path: "root.txt"},
		{Path: "b/one.go"},
		{Path: "empty/"},
	}
	root := BuildTree(entries)

	var names []string
	for _, f := range root.Folders {
		names = append(names, f.Name)
	}
	if !reflect.DeepEqual(names, []string{"b", "a", "empty"}) {
		t.Fatalf("top folders = %v", names)
	}
	if !reflect.DeepEqual(root.Files, []string{"root.txt"}) {
		t.Fatalf("root files = %v", root.Files)
	}
	b := root.Child("b")
	if !reflect.DeepEqual(b.Files, []string{"b/two.go", "b/one.go"}) {
		t.Fatalf("b files = %v", b.Files)
	}
	if b.Child("sub").Path != "b/sub" {
		t.Fatalf("unexpected sub path %q", b.Child("sub").Path)
	}
	if !root.Child("empty").Empty() {
		t.Fatalf("marker folder should be empty")
	}

	var walked []string
	root.Walk(func(f *Folder) { walked = append(walked, f.Path) })
	if !reflect.DeepEqual(walked, []string{"", "b", "b/sub", "a", "empty"}) {
		t.Fatalf("walk order = %v", walked)
	}
}

func TestCompositionWeights(t *testing.T) {
	entries := []Entry{
		{Path: "a.go", Bytes: 300, Lines: 10, Language: "Go"},
		{Path: "b.go", Bytes: 100, Lines: 30, Language: "Go"},
		{Path: "c.py", Bytes: 600, Lines: 10, Language: "Python"},
		{Path: "empty/"},
	}

	byBytes := Composition(entries, false)
	if byBytes[0].Language != "Python" || byBytes[0].Fraction != 0.6 {
		t.Fatalf("unexpected bytes composition: %+v", byBytes)
	}
	byLines := Composition(entries, true)
	if byLines[0].Language != "Go" || byLines[0].Files != 2 || byLines[0].Weight != 40 {
		t.Fatalf("unexpected lines composition: %+v", byLines)
	}
}

func TestParentAndBase(t *testing.T) {
	if Parent("a/b/c.go") != "a/b" || Base("a/b/c.go") != "c.go" {
		t.Fatalf("unexpected split of a/b/c.go")
	}
	if Parent("top.go") != "" || Base("dir/") != "dir" {
		t.Fatalf("unexpected root handling")
	}
}
