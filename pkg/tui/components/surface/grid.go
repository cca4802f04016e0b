package surface

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
)

type cell struct {
	r     rune
	style int
}

// grid is a fixed-size cell buffer. Style 0 is plain text.
type grid struct {
	w, h   int
	cells  []cell
	styles []lipgloss.Style
	index  map[string]int
}

func newGrid(w, h int) *grid {
	g := &grid{w: w, h: h, cells: make([]cell, w*h), styles: []lipgloss.Style{{}}, index: make(map[string]int)}
	for i := range g.cells {
		g.cells[i].r = ' '
	}
	return g
}

// style registers st under key and returns its id.
func (g *grid) style(key string, st lipgloss.Style) int {
	if id, ok := g.index[key]; ok {
		return id
	}
	g.styles = append(g.styles, st)
	id := len(g.styles) - 1
	g.index[key] = id
	return id
}

func (g *grid) set(x, y int, r rune, style int) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.cells[y*g.w+x] = cell{r: r, style: style}
}

func (g *grid) at(x, y int) rune {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return 0
	}
	return g.cells[y*g.w+x].r
}

// text writes s from (x, y), at most limit cells.
func (g *grid) text(x, y, limit int, s string, style int) {
	n := 0
	for _, r := range s {
		if n >= limit {
			return
		}
		g.set(x+n, y, r, style)
		n++
	}
}

func (g *grid) String() string {
	var b strings.Builder
	run := make([]rune, 0, g.w)
	for y := 0; y < g.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		current := -1
		flush := func() {
			if len(run) == 0 {
				return
			}
			if current == 0 {
				b.WriteString(string(run))
			} else {
				b.WriteString(g.styles[current].Render(string(run)))
			}
			run = run[:0]
		}
		for x := 0; x < g.w; x++ {
			c := g.cells[y*g.w+x]
			if c.style != current {
				flush()
				current = c.style
			}
			run = append(run, c.r)
		}
		flush()
	}
	return b.String()
}
