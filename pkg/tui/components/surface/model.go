// Package surface draws the canvas: every rect of the layout projected
// through the camera onto a grid of terminal cells.
package surface

import (
	"math"
	"strings"

	"tableflip.dev/codecanvas/pkg/canvas"
	"tableflip.dev/codecanvas/pkg/layout"
	"tableflip.dev/codecanvas/pkg/manifest"
	"tableflip.dev/codecanvas/pkg/tui/theme"
	"tableflip.dev/codecanvas/pkg/viewport"
)

// A terminal cell stands for this many screen units.
const (
	CellWidth  = 8
	CellHeight = 16
)

type box struct {
	tl, tr, bl, br, h, v rune
}

var (
	folderBox   = box{'╭', '╮', '╰', '╯', '─', '│'}
	fileBox     = box{'┌', '┐', '└', '┘', '─', '│'}
	selectedBox = box{'┏', '┓', '┗', '┛', '━', '┃'}
)

// Source is the scene state the surface draws.
type Source interface {
	Layout() layout.Result
	Content(path string) (canvas.Body, bool)
	Selected() string
}

// Model renders the canvas surface.
type Model struct {
	width   int
	height  int
	styles  theme.CanvasTheme
	palette *theme.Palette
}

// New returns a surface.
func New(th theme.CanvasTheme, palette *theme.Palette) *Model {
	if palette == nil {
		palette = theme.NewPalette()
	}
	return &Model{styles: th, palette: palette}
}

// SetSize sets the surface size in cells.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Size returns the surface size in cells.
func (m *Model) Size() (int, int) {
	return m.width, m.height
}

// ScreenSize returns the surface size in screen units.
func (m *Model) ScreenSize() (float64, float64) {
	return float64(m.width * CellWidth), float64(m.height * CellHeight)
}

// CellCenter maps a terminal cell to the screen point at its center.
func CellCenter(col, row int) (float64, float64) {
	return float64(col*CellWidth) + CellWidth/2, float64(row*CellHeight) + CellHeight/2
}

// View draws src through t.
func (m *Model) View(src Source, t viewport.Transform) string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	return m.render(src, t).String()
}

func (m *Model) render(src Source, t viewport.Transform) *grid {
	g := newGrid(m.width, m.height)
	selected := src.Selected()
	for _, r := range src.Layout().Rects() {
		m.draw(g, src, r, t, r.ID == selected)
	}
	return g
}

// span converts a screen interval to inclusive cell bounds.
func span(from, to, unit float64) (int, int) {
	return int(math.Floor(from / unit)), int(math.Ceil(to/unit)) - 1
}

func (m *Model) draw(g *grid, src Source, r layout.Rect, t viewport.Transform, selected bool) {
	sx0, sy0 := t.ToScreen(r.X, r.Y)
	sx1, sy1 := t.ToScreen(r.X+r.W, r.Y+r.H)
	x0, x1 := span(sx0, sx1, CellWidth)
	y0, y1 := span(sy0, sy1, CellHeight)
	if x1 < 0 || y1 < 0 || x0 >= g.w || y0 >= g.h {
		return
	}

	var (
		lang  string
		body  canvas.Body
		ready bool
	)
	if r.Kind == layout.KindFile {
		body, ready = src.Content(r.ID)
		lang = body.Language
		if lang == "" {
			lang = manifest.DetectLanguage(r.ID)
		}
	}

	if x1-x0 < 2 || y1-y0 < 1 {
		if r.Kind == layout.KindFile {
			g.set(x0, y0, '■', g.style("lang:"+lang, m.palette.Style(lang)))
		}
		return
	}

	border, title := m.chrome(g, r.Kind, lang, selected)
	shape := fileBox
	switch {
	case selected:
		shape = selectedBox
	case r.Kind == layout.KindFolder:
		shape = folderBox
	}
	m.frame(g, x0, y0, x1, y1, shape, border)

	name := manifest.Base(r.ID)
	if r.Kind == layout.KindFolder {
		name += "/"
	}
	g.text(x0+2, y0, x1-x0-3, " "+name+" ", title)

	if r.Kind != layout.KindFile || y1-y0 < 2 {
		return
	}
	inner := x1 - x0 - 3
	if inner <= 0 {
		return
	}
	if !ready {
		g.text(x0+2, y0+1, inner, "loading…", g.style("placeholder", m.styles.Placeholder))
		return
	}
	bodyStyle := g.style("body", m.styles.Body)
	for i, line := range strings.Split(body.Content, "\n") {
		y := y0 + 1 + i
		if y >= y1 || y >= g.h {
			break
		}
		if y < 0 {
			continue
		}
		g.text(x0+2, y, inner, strings.ReplaceAll(line, "\t", "    "), bodyStyle)
	}
}

func (m *Model) chrome(g *grid, kind layout.Kind, lang string, selected bool) (border, title int) {
	switch {
	case selected:
		id := g.style("selected", m.styles.Selected)
		return id, id
	case kind == layout.KindFolder:
		return g.style("folder", m.styles.Folder), g.style("folder-title", m.styles.FolderTitle)
	default:
		return g.style("lang:"+lang, m.palette.Style(lang)), g.style("file-title", m.styles.FileTitle)
	}
}

func (m *Model) frame(g *grid, x0, y0, x1, y1 int, b box, style int) {
	lo, hi := maxInt(x0+1, 0), minInt(x1, g.w)
	for x := lo; x < hi; x++ {
		g.set(x, y0, b.h, style)
		g.set(x, y1, b.h, style)
	}
	for y := maxInt(y0+1, 0); y < minInt(y1, g.h); y++ {
		g.set(x0, y, b.v, style)
		g.set(x1, y, b.v, style)
		// Clear the interior so a child hides whatever its parent drew.
		for x := lo; x < hi; x++ {
			g.set(x, y, ' ', 0)
		}
	}
	g.set(x0, y0, b.tl, style)
	g.set(x1, y0, b.tr, style)
	g.set(x0, y1, b.bl, style)
	g.set(x1, y1, b.br, style)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
