// Package layout maps a manifest onto world-space rectangles.
//
// All modes are pure functions of (entries, mode, metric): the same input
// always produces the same rects in the same order.
package layout

import (
	"fmt"
	"strings"

	"tableflip.dev/codecanvas/pkg/manifest"
)

// Mode selects the layout algorithm.
type Mode int

const (
	// Hierarchical packs folders recursively with fixed-size file tiles.
	Hierarchical Mode = iota
	// TreemapFlat packs every file as one tile sized by its share of the
	// whole manifest, ignoring folders.
	TreemapFlat
	// TreemapFolders packs folders like Hierarchical but sizes each tile by
	// its share of the folder it lives in.
	TreemapFolders
)

var modeNames = []string{"hierarchical", "treemap-flat", "treemap-folders"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// Next cycles through the modes.
func (m Mode) Next() Mode {
	return Mode((int(m) + 1) % len(modeNames))
}

// ParseMode accepts the String form of a mode.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range modeNames {
		if s == name {
			return Mode(i), nil
		}
	}
	return Hierarchical, fmt.Errorf("layout: unknown mode %q (expected one of %s)", s, strings.Join(modeNames, ", "))
}

// Metric selects the size measure used for treemap tiles.
type Metric int

const (
	Bytes Metric = iota
	Lines
)

func (m Metric) String() string {
	if m == Lines {
		return "lines"
	}
	return "bytes"
}

// Toggle switches between bytes and lines.
func (m Metric) Toggle() Metric {
	if m == Lines {
		return Bytes
	}
	return Lines
}

// ParseMetric accepts "bytes" or "lines".
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bytes", "size":
		return Bytes, nil
	case "lines", "loc":
		return Lines, nil
	}
	return Bytes, fmt.Errorf("layout: unknown metric %q (expected bytes or lines)", s)
}

// Value returns the entry's metric, floored to 1.
func (m Metric) Value(e manifest.Entry) int64 {
	v := e.Bytes
	if m == Lines {
		v = e.Lines
	}
	if v <= 0 {
		return 1
	}
	return v
}

// Kind tells file rects from folder rects.
type Kind int

const (
	KindFile Kind = iota
	KindFolder
)

func (k Kind) String() string {
	if k == KindFolder {
		return "folder"
	}
	return "file"
}

// Rect is a placement in world coordinates. ID is the file or folder path.
type Rect struct {
	ID   string  `json:"id"`
	Kind Kind    `json:"kind"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	W    float64 `json:"w"`
	H    float64 `json:"h"`
}

// Center returns the midpoint.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Area returns W*H.
func (r Rect) Area() float64 {
	return r.W * r.H
}

// Contains reports whether the point lies inside r (edges inclusive).
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Encloses reports whether o lies entirely inside r.
func (r Rect) Encloses(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.X+o.W <= r.X+r.W && o.Y+o.H <= r.Y+r.H
}

// Overlaps reports whether r and o share interior area.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Union returns the smallest rect covering r and o.
func (r Rect) Union(o Rect) Rect {
	x0, y0 := minf(r.X, o.X), minf(r.Y, o.Y)
	x1, y1 := maxf(r.X+r.W, o.X+o.W), maxf(r.Y+r.H, o.Y+o.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
