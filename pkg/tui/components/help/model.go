// Package help renders the key binding overlay of the canvas.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/codecanvas/pkg/tui/theme"
)

// Binding documents one key or key group.
type Binding struct {
	Keys string
	Desc string
}

// Section is a titled group of bindings.
type Section struct {
	Title    string
	Bindings []Binding
}

// Model renders the bindings inside a bordered, scrollable viewport.
type Model struct {
	viewport viewport.Model
	sections []Section
	width    int
	height   int
	open     bool

	frame lipgloss.Style
	title lipgloss.Style
	body  lipgloss.Style
}

// New constructs a closed overlay for sections.
func New(th theme.PanelTheme, sections ...Section) *Model {
	vp := viewport.New(
		viewport.WithWidth(1),
		viewport.WithHeight(1),
	)
	vp.MouseWheelEnabled = true
	return &Model{
		viewport: vp,
		sections: sections,
		frame:    th.Frame,
		title:    th.Title,
		body:     th.Body,
	}
}

// Visible reports whether the overlay is shown.
func (m *Model) Visible() bool {
	return m.open
}

// Toggle shows or hides the overlay, scrolled to the top when shown.
func (m *Model) Toggle() {
	m.open = !m.open
	if m.open {
		m.viewport.SetYOffset(0)
	}
}

// Close hides the overlay.
func (m *Model) Close() {
	m.open = false
}

// Update forwards scrolling to the viewport.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	vp, cmd := m.viewport.Update(msg)
	m.viewport = vp
	return cmd
}

// Size returns the outer size of the overlay.
func (m *Model) Size() (int, int) {
	return m.width, m.height
}

// SetSize fits the overlay inside a width x height area.
func (m *Model) SetSize(width, height int) {
	content := m.lines()
	inner := 0
	for _, l := range content {
		if w := lipgloss.Width(l); w > inner {
			inner = w
		}
	}
	frameX := m.frame.GetHorizontalFrameSize()
	frameY := m.frame.GetVerticalFrameSize()

	w := min(inner+frameX, width)
	h := min(len(content)+frameY, height)
	m.width, m.height = max(w, frameX+1), max(h, frameY+1)

	m.viewport.SetWidth(m.width - frameX)
	m.viewport.SetHeight(m.height - frameY)
	m.viewport.SetContent(strings.Join(content, "\n"))
}

func (m *Model) lines() []string {
	keyWidth := 0
	for _, s := range m.sections {
		for _, b := range s.Bindings {
			if w := lipgloss.Width(b.Keys); w > keyWidth {
				keyWidth = w
			}
		}
	}
	var out []string
	for i, s := range m.sections {
		if i > 0 {
			out = append(out, "")
		}
		out = append(out, m.title.Render(s.Title))
		for _, b := range s.Bindings {
			keys := fmt.Sprintf("%-*s", keyWidth, b.Keys)
			out = append(out, m.title.Render(keys)+"  "+m.body.Render(b.Desc))
		}
	}
	return out
}

// View renders the framed overlay.
func (m *Model) View() string {
	frameX := m.frame.GetHorizontalFrameSize()
	frameY := m.frame.GetVerticalFrameSize()
	return m.frame.
		Width(m.width - frameX).
		Height(m.height - frameY).
		Render(m.viewport.View())
}
