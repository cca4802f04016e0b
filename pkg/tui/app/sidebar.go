package teaui

import (
	"fmt"
	"strings"

	"tableflip.dev/codecanvas/pkg/canvas"
	"tableflip.dev/codecanvas/pkg/live"
	"tableflip.dev/codecanvas/pkg/manifest"
)

var actionGlyph = map[live.Action]string{
	live.Added:   "+",
	live.Updated: "~",
	live.Deleted: "-",
}

func compositionSummary(shares []manifest.Share, limit int) string {
	if len(shares) == 0 {
		return ""
	}
	if len(shares) > limit {
		shares = shares[:limit]
	}
	parts := make([]string, 0, len(shares))
	for _, s := range shares {
		parts = append(parts, fmt.Sprintf("%s %.0f%%", s.Language, s.Fraction*100))
	}
	return strings.Join(parts, " ")
}

func selectionLines(scene *canvas.Scene) []string {
	path := scene.Selected()
	if path == "" {
		return []string{"click a file to select it"}
	}
	lines := []string{path}
	if e, ok := scene.Entry(path); ok {
		lines = append(lines,
			"language "+e.Language,
			fmt.Sprintf("%d lines  %d bytes", e.Lines, e.Bytes),
		)
	}
	if _, ok := scene.Content(path); !ok {
		lines = append(lines, "content loading…")
	}
	return lines
}

// activityLines lists the log newest first.
func activityLines(events []live.Event) []string {
	if len(events) == 0 {
		return []string{"no changes yet"}
	}
	lines := make([]string, 0, len(events))
	for _, ev := range events {
		lines = append(lines, fmt.Sprintf("%s %s %s", ev.Timestamp.Local().Format("15:04:05"), actionGlyph[ev.Action], ev.Path))
	}
	return lines
}
