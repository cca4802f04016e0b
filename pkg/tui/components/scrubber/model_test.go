package scrubber

import (
	"strings"
	"testing"
	"time"

	"tableflip.dev/codecanvas/pkg/timeline"
	"tableflip.dev/codecanvas/pkg/tui/theme"
)

func TestColumn(t *testing.T) {
	cases := []struct {
		pos, columns, want int
	}{
		{0, 101, 0},
		{500, 101, 50},
		{1000, 101, 100},
		{2000, 101, 100},
		{500, 1, 0},
	}
	for _, tc := range cases {
		if got := Column(tc.pos, tc.columns); got != tc.want {
			t.Errorf("Column(%d, %d) = %d, want %d", tc.pos, tc.columns, got, tc.want)
		}
	}
}

func TestLabel(t *testing.T) {
	state := timeline.State{Min: time.UnixMilli(1000), Max: time.UnixMilli(2000)}
	if got := Label(state, timeline.MaxPosition); got != "● LIVE" {
		t.Fatalf("live label = %q", got)
	}
	want := time.UnixMilli(1500).Local().Format("2006-01-02 15:04")
	if got := Label(state, 500); got != want {
		t.Fatalf("label = %q, want %q", got, want)
	}
}

func TestBarScalesToPeak(t *testing.T) {
	min := time.Unix(0, 0)
	max := min.Add(4 * time.Hour)
	series := []timeline.Point{
		{Key: min, Count: 8},
		{Key: min.Add(2 * time.Hour), Count: 4},
	}
	bar := Bar(series, min, max, 4)
	if string(bar) != "█ ▅ " {
		t.Fatalf("bar = %q", string(bar))
	}
}

func TestViewPlacesMarker(t *testing.T) {
	m := New(theme.Default().Scrubber)
	state := timeline.State{Min: time.Unix(0, 0), Max: time.Unix(100, 0)}
	view := m.View(state, timeline.MaxPosition, false, 60)
	if !strings.Contains(view, "LIVE") || !strings.Contains(view, "┃") {
		t.Fatalf("view = %q", view)
	}
	if narrow := m.View(state, 0, true, 10); strings.Contains(narrow, "┃") {
		t.Fatalf("narrow view should only show the label, got %q", narrow)
	}
}
