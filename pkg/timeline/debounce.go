package timeline

import "time"

// Debouncer coalesces scrub input. Each Push bumps a version; only the
// newest version settles once its window elapses.
type Debouncer struct {
	window  time.Duration
	version uint64
	pending int
	has     bool
}

// NewDebouncer returns a debouncer with the given window, or DebounceWindow
// when window is not positive.
func NewDebouncer(window time.Duration) *Debouncer {
	if window <= 0 {
		window = DebounceWindow
	}
	return &Debouncer{window: window}
}

// Push records a position and returns its version and how long to wait
// before settling it.
func (d *Debouncer) Push(pos int) (uint64, time.Duration) {
	d.version++
	d.pending = ClampPosition(pos)
	d.has = true
	return d.version, d.window
}

// Pending returns the unsettled position, if any.
func (d *Debouncer) Pending() (int, bool) {
	return d.pending, d.has
}

// Settle returns the pending position when version is the newest push.
func (d *Debouncer) Settle(version uint64) (int, bool) {
	if !d.has || version != d.version {
		return 0, false
	}
	d.has = false
	return d.pending, true
}
