// Package panel renders the framed side panels of the canvas.
package panel

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/codecanvas/pkg/tui/theme"
)

// Section is a titled group of lines.
type Section struct {
	Title string
	Lines []string
}

// Model renders a framed panel made of sections.
type Model struct {
	sections   []Section
	width      int
	height     int
	frameStyle lipgloss.Style
	titleStyle lipgloss.Style
	bodyStyle  lipgloss.Style
}

// New returns a panel model with sensible defaults.
func New(th theme.PanelTheme) Model {
	return Model{
		frameStyle: th.Frame,
		titleStyle: th.Title,
		bodyStyle:  th.Body,
	}
}

// SetSize fixes the outer size of the panel; zero means unconstrained.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Width returns the outer width.
func (m Model) Width() int {
	return m.width
}

// SetContent replaces the panel with a single section.
func (m *Model) SetContent(title string, lines []string) {
	m.sections = []Section{{Title: title, Lines: lines}}
}

// SetSections replaces every section.
func (m *Model) SetSections(sections ...Section) {
	m.sections = sections
}

// Reset clears panel content.
func (m *Model) Reset() {
	m.sections = nil
}

// View returns the rendered panel string and its total height in lines.
func (m Model) View() (string, int) {
	inner := 0
	if m.width > 0 {
		inner = m.width - m.frameStyle.GetHorizontalFrameSize()
		if inner < 1 {
			inner = 1
		}
	}
	clip := func(s string) string {
		if inner <= 0 {
			return s
		}
		return truncate.StringWithTail(s, uint(inner), "…")
	}

	var content []string
	for i, sec := range m.sections {
		if i > 0 {
			content = append(content, "")
		}
		if sec.Title != "" {
			content = append(content, m.titleStyle.Render(clip(sec.Title)))
		}
		for _, line := range sec.Lines {
			content = append(content, m.bodyStyle.Render(clip(line)))
		}
	}
	if m.height > 0 {
		limit := m.height - m.frameStyle.GetVerticalFrameSize()
		if limit < 0 {
			limit = 0
		}
		if len(content) > limit {
			content = content[:limit]
		}
		for len(content) < limit {
			content = append(content, "")
		}
	}
	if inner > 0 {
		for i, line := range content {
			if pad := inner - lipgloss.Width(line); pad > 0 {
				content[i] = line + strings.Repeat(" ", pad)
			}
		}
	}
	view := m.frameStyle.Render(strings.Join(content, "\n"))
	height := strings.Count(view, "\n") + 1
	return view, height
}
