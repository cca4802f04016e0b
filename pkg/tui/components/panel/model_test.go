package panel

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/codecanvas/pkg/tui/theme"
)

func TestViewClipsToSize(t *testing.T) {
	m := New(theme.Default().Panel)
	m.SetSize(20, 6)
	m.SetSections(
		Section{Title: "Activity", Lines: []string{"updated a/very/long/path/to/a/file.go", "added b.go", "deleted c.go"}},
		Section{Title: "Selection", Lines: []string{"a.go"}},
	)
	view, height := m.View()
	if height != 6 {
		t.Fatalf("height = %d, want 6\n%s", height, view)
	}
	for _, line := range strings.Split(view, "\n") {
		if w := lipgloss.Width(line); w > 20 {
			t.Fatalf("line wider than panel (%d): %q", w, line)
		}
	}
	if !strings.Contains(view, "Activity") {
		t.Fatalf("missing title:\n%s", view)
	}
}

func TestResetClearsSections(t *testing.T) {
	m := New(theme.Default().Panel)
	m.SetContent("Title", []string{"line"})
	m.Reset()
	view, _ := m.View()
	if strings.Contains(view, "Title") {
		t.Fatalf("reset panel still renders content:\n%s", view)
	}
}
