// Package timeline maps the scrub control onto instants and tracks which
// manifest request is current.
package timeline

import (
	"time"
)

const (
	// MaxPosition is the top of the scrub range and means live.
	MaxPosition = 1000

	// DebounceWindow coalesces rapid scrub input.
	DebounceWindow = 150 * time.Millisecond
)

// Point is one bucket of the activity series.
type Point struct {
	Key   time.Time `json:"key"`
	Count int       `json:"count"`
}

// Summary is the activity summary served by the index.
type Summary struct {
	Min    time.Time `json:"min"`
	Max    time.Time `json:"max"`
	Series []Point   `json:"series"`
}

// State is the temporal view: the scrub range and the instant being shown.
// AsOf is nil in live mode.
type State struct {
	Min    time.Time
	Max    time.Time
	AsOf   *time.Time
	Series []Point
}

// Live reports whether the state follows the present.
func (s State) Live() bool {
	return s.AsOf == nil
}

// ClampPosition bounds p to [0, MaxPosition].
func ClampPosition(p int) int {
	if p < 0 {
		return 0
	}
	if p > MaxPosition {
		return MaxPosition
	}
	return p
}

// Resolve maps a scrub position to an instant, or nil for live. The mapping
// is linear and non-decreasing in pos.
func Resolve(pos int, min, max time.Time) *time.Time {
	pos = ClampPosition(pos)
	if pos == MaxPosition {
		return nil
	}
	ts := min
	if span := max.Sub(min); span > 0 {
		whole := int64(span) / MaxPosition * int64(pos)
		frac := int64(span) % MaxPosition * int64(pos) / MaxPosition
		ts = min.Add(time.Duration(whole + frac))
	}
	return &ts
}

// Position is the inverse of Resolve. Historical instants never map to the
// live position.
func Position(asOf *time.Time, min, max time.Time) int {
	if asOf == nil {
		return MaxPosition
	}
	span := max.Sub(min)
	if span <= 0 || !asOf.After(min) {
		return 0
	}
	p := int(float64(asOf.Sub(min)) * MaxPosition / float64(span))
	if p >= MaxPosition {
		p = MaxPosition - 1
	}
	return p
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
