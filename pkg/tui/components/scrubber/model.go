// Package scrubber renders the temporal control: an activity histogram with
// a marker at the scrub position.
package scrubber

import (
	"fmt"
	"strings"
	"time"

	"tableflip.dev/codecanvas/pkg/timeline"
	"tableflip.dev/codecanvas/pkg/tui/theme"
)

var levels = []rune("▁▂▃▄▅▆▇█")

// LabelWidth is the space reserved left of the bar.
const LabelWidth = 18

// Model renders the scrub bar.
type Model struct {
	styles theme.ScrubberTheme
}

// New returns a scrubber.
func New(th theme.ScrubberTheme) Model {
	return Model{styles: th}
}

// Column maps a scrub position onto one of columns cells.
func Column(pos, columns int) int {
	if columns <= 1 {
		return 0
	}
	return timeline.ClampPosition(pos) * (columns - 1) / timeline.MaxPosition
}

// Label describes the instant at pos.
func Label(state timeline.State, pos int) string {
	asOf := timeline.Resolve(pos, state.Min, state.Max)
	if asOf == nil {
		return "● LIVE"
	}
	return asOf.Local().Format("2006-01-02 15:04")
}

// Bar renders the histogram as block characters, one per column.
func Bar(series []timeline.Point, min, max time.Time, columns int) []rune {
	counts := timeline.Histogram(series, min, max, columns)
	peak := 0
	for _, c := range counts {
		if c > peak {
			peak = c
		}
	}
	out := make([]rune, columns)
	for i, c := range counts {
		switch {
		case c == 0:
			out[i] = ' '
		case peak <= 1:
			out[i] = levels[len(levels)-1]
		default:
			out[i] = levels[(c*(len(levels)-1)+peak-1)/peak]
		}
	}
	return out
}

// View renders the control in width cells. pending marks a position that
// has not settled yet.
func (m Model) View(state timeline.State, pos int, pending bool, width int) string {
	label := Label(state, pos)
	if pending {
		label = "→ " + label
	}
	label = fmt.Sprintf("%-*s", LabelWidth, label)
	columns := width - LabelWidth - 2
	if columns < 1 {
		return m.styles.Label.Render(strings.TrimSpace(label))
	}
	bar := Bar(state.Series, state.Min, state.Max, columns)
	marker := Column(pos, columns)

	var b strings.Builder
	b.WriteString(m.styles.Label.Render(label))
	b.WriteString(m.styles.Bar.Render("▕" + string(bar[:marker])))
	b.WriteString(m.styles.Marker.Render("┃"))
	b.WriteString(m.styles.Bar.Render(string(bar[marker+1:]) + "▏"))
	return b.String()
}
