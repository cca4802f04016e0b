package printers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

func TestTitleWithCountPluralizes(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, "Files - 0 files\n"},
		{1, "Files - 1 file\n"},
		{7, "Files - 7 files\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		New(&buf).TitleWithCount("Files", tt.count, "file")
		if buf.String() != tt.want {
			t.Fatalf("count %d: got %q, want %q", tt.count, buf.String(), tt.want)
		}
	}
}

func TestTableAlignsColumns(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Table([]string{"PATH", "LINES"}, [][]string{{"a.go", "5"}, {"pkg/long.go", "120"}}, 1)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	if !strings.HasSuffix(lines[1], "  5") || !strings.HasSuffix(lines[2], "120") {
		t.Fatalf("lines column not right aligned: %q", lines)
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		value, max int64
		width      int
		want       int
	}{
		{0, 10, 10, 0},
		{1, 100, 10, 1},
		{5, 10, 10, 5},
		{10, 10, 10, 10},
		{3, 0, 10, 0},
	}
	for _, tt := range tests {
		if got := len([]rune(Bar(tt.value, tt.max, tt.width))); got != tt.want {
			t.Fatalf("Bar(%d, %d, %d) = %d cells, want %d", tt.value, tt.max, tt.width, got, tt.want)
		}
	}
}

func TestJSONIndents(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, map[string]int{"files": 2}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "{\n  \"files\": 2\n}\n" {
		t.Fatalf("got %q", buf.String())
	}
}
