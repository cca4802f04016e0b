// Package bottombar renders the footer: key help, status and transient
// notices.
package bottombar

import (
	"strings"

	"github.com/muesli/reflow/truncate"

	"tableflip.dev/codecanvas/pkg/tui/theme"
)

// Model tracks footer/help/status rendering state.
type Model struct {
	helpLine   string
	statusLine string

	notice        string
	noticeErr     bool
	noticeVersion uint64

	styles theme.FooterTheme
}

// New returns a footer model.
func New(th theme.FooterTheme) Model {
	return Model{styles: th}
}

// SetHelp sets the contextual help line.
func (m *Model) SetHelp(help string) {
	m.helpLine = help
}

// SetStatus sets the status message to display.
func (m *Model) SetStatus(status string) {
	m.statusLine = status
}

// Status returns the status message.
func (m Model) Status() string {
	return m.statusLine
}

// ShowNotice displays a notice until ExpireNotice is called with the
// returned version.
func (m *Model) ShowNotice(text string, isErr bool) uint64 {
	m.noticeVersion++
	m.notice = text
	m.noticeErr = isErr
	return m.noticeVersion
}

// ExpireNotice clears the notice if version is still the one shown.
func (m *Model) ExpireNotice(version uint64) bool {
	if version != m.noticeVersion || m.notice == "" {
		return false
	}
	m.notice = ""
	m.noticeErr = false
	return true
}

// Notice returns the visible notice.
func (m Model) Notice() string {
	return m.notice
}

// Height reports the number of lines consumed by the footer.
func (m Model) Height() int {
	return 1
}

// View renders the footer clipped to width.
func (m Model) View(width int) string {
	var segments []string
	if m.notice != "" {
		style := m.styles.Notice
		if m.noticeErr {
			style = m.styles.Error
		}
		segments = append(segments, style.Render(m.notice))
	}
	if m.statusLine != "" {
		segments = append(segments, m.styles.Status.Render(m.statusLine))
	}
	if m.helpLine != "" {
		segments = append(segments, m.styles.Help.Render(m.helpLine))
	}
	if len(segments) == 0 {
		return " "
	}
	line := strings.Join(segments, " │ ")
	if width > 0 {
		line = truncate.StringWithTail(line, uint(width), "…")
	}
	return line
}
