package surface

import (
	"strings"
	"testing"

	"tableflip.dev/codecanvas/pkg/canvas"
	"tableflip.dev/codecanvas/pkg/layout"
	"tableflip.dev/codecanvas/pkg/manifest"
	"tableflip.dev/codecanvas/pkg/tui/theme"
	"tableflip.dev/codecanvas/pkg/viewport"
)

type fakeSource struct {
	result   layout.Result
	bodies   map[string]canvas.Body
	selected string
}

func (f fakeSource) Layout() layout.Result { return f.result }

func (f fakeSource) Content(path string) (canvas.Body, bool) {
	b, ok := f.bodies[path]
	return b, ok
}

func (f fakeSource) Selected() string { return f.selected }

func newSource(paths ...string) fakeSource {
	rows := make([]manifest.Raw, 0, len(paths))
	for _, p := range paths {
		rows = append(rows, manifest.Raw{FilePath: p, LineCount: manifest.Int64(10)})
	}
	entries, _ := manifest.Normalize(rows)
	return fakeSource{
		result: layout.Compute(entries, layout.Hierarchical, layout.Lines),
		bodies: map[string]canvas.Body{},
	}
}

func row(g *grid, y int) string {
	var b strings.Builder
	for x := 0; x < g.w; x++ {
		b.WriteRune(g.at(x, y))
	}
	return b.String()
}

func TestRenderDrawsFileFrameAndBody(t *testing.T) {
	src := newSource("main.go")
	src.bodies["main.go"] = canvas.Body{Content: "package main\n\tfunc main() {}", Language: "Go"}

	m := New(theme.Default().Canvas, nil)
	m.SetSize(50, 20)
	g := m.render(src, viewport.Transform{Scale: 1})

	// 320x200 world units at scale 1 cover cells 0..39 by 0..12.
	if g.at(0, 0) != '┌' || g.at(39, 0) != '┐' || g.at(0, 12) != '└' || g.at(39, 12) != '┘' {
		t.Fatalf("unexpected corners:\n%s", row(g, 0))
	}
	if top := row(g, 0); !strings.Contains(top, " main.go ") {
		t.Fatalf("title missing: %q", top)
	}
	if line := row(g, 1); !strings.Contains(line, "package main") {
		t.Fatalf("body missing: %q", line)
	}
	if line := row(g, 2); !strings.Contains(line, "    func main() {}") {
		t.Fatalf("tabs should expand: %q", line)
	}
	if g.at(45, 5) != ' ' {
		t.Fatal("cells outside the rect stay blank")
	}
}

func TestRenderPlaceholderAndSelection(t *testing.T) {
	src := newSource("a.go")
	src.selected = "a.go"
	m := New(theme.Default().Canvas, theme.NewPalette())
	m.SetSize(50, 20)
	g := m.render(src, viewport.Transform{Scale: 1})
	if g.at(0, 0) != '┏' {
		t.Fatalf("selected file should use the heavy frame, got %q", g.at(0, 0))
	}
	if line := row(g, 1); !strings.Contains(line, "loading…") {
		t.Fatalf("placeholder missing: %q", line)
	}
}

func TestRenderCollapsesTinyRects(t *testing.T) {
	src := newSource("a.go")
	m := New(theme.Default().Canvas, nil)
	m.SetSize(10, 5)
	g := m.render(src, viewport.Transform{Scale: viewport.MinScale, TX: 8, TY: 16})
	// 320*0.2 = 64 units = 8 cells wide, 200*0.2 = 40 units = 2.5 rows.
	if g.at(1, 1) != '┌' {
		t.Fatalf("expected frame at (1,1), got %q", g.at(1, 1))
	}

	g = m.render(src, viewport.Transform{Scale: 0.01})
	if g.at(0, 0) != '■' {
		t.Fatalf("tiny file should collapse to a dot, got %q", g.at(0, 0))
	}
}

func TestRenderSkipsOffscreen(t *testing.T) {
	src := newSource("a.go")
	m := New(theme.Default().Canvas, nil)
	m.SetSize(10, 5)
	g := m.render(src, viewport.Transform{Scale: 1, TX: -10000})
	for y := 0; y < g.h; y++ {
		if strings.TrimSpace(row(g, y)) != "" {
			t.Fatalf("offscreen rect drew row %d: %q", y, row(g, y))
		}
	}
	if view := m.View(src, viewport.Transform{Scale: 1}); strings.Count(view, "\n") != 4 {
		t.Fatalf("view should have 5 rows, got %d", strings.Count(view, "\n")+1)
	}
}

func TestFolderFrames(t *testing.T) {
	src := newSource("pkg/a.go")
	m := New(theme.Default().Canvas, nil)
	m.SetSize(60, 30)
	g := m.render(src, viewport.Transform{Scale: 1})
	if g.at(0, 0) != '╭' {
		t.Fatalf("folder should use the rounded frame, got %q", g.at(0, 0))
	}
	if top := row(g, 0); !strings.Contains(top, " pkg/ ") {
		t.Fatalf("folder title missing: %q", top)
	}
}
