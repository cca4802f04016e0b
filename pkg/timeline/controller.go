package timeline

import "time"

// Request asks for the manifest valid at AsOf (nil = live). Results carry
// the Generation back so superseded responses can be dropped.
type Request struct {
	Generation uint64
	AsOf       *time.Time
}

// Live reports whether the request is for the live manifest.
func (r Request) Live() bool {
	return r.AsOf == nil
}

// Controller owns the temporal state. Only the newest Request is current.
type Controller struct {
	state      State
	position   int
	generation uint64
	issued     bool
}

// NewController starts in live mode with an empty range.
func NewController() *Controller {
	return &Controller{position: MaxPosition}
}

// State returns a copy of the temporal state.
func (c *Controller) State() State {
	s := c.state
	s.Series = append([]Point(nil), c.state.Series...)
	return s
}

// Position returns the applied scrub position.
func (c *Controller) Position() int {
	return c.position
}

// Live reports whether the controller is in live mode.
func (c *Controller) Live() bool {
	return c.state.AsOf == nil
}

// AsOf returns the historical instant, or nil when live.
func (c *Controller) AsOf() *time.Time {
	return c.state.AsOf
}

// Generation returns the newest issued generation.
func (c *Controller) Generation() uint64 {
	return c.generation
}

// Current reports whether gen belongs to the newest request.
func (c *Controller) Current(gen uint64) bool {
	return c.issued && gen == c.generation
}

// SetSummary refreshes the scrub range and activity series. A historical
// instant stays fixed; its position is recomputed against the new range.
func (c *Controller) SetSummary(s Summary) {
	c.state.Min = s.Min
	c.state.Max = s.Max
	c.state.Series = append([]Point(nil), s.Series...)
	if c.state.AsOf != nil {
		c.position = Position(c.state.AsOf, s.Min, s.Max)
	}
}

// Scrub applies a position. It returns a new Request when live/historical
// mode changes or the resolved instant differs from the one shown, and
// false when the scrub is a no-op.
func (c *Controller) Scrub(pos int) (Request, bool) {
	pos = ClampPosition(pos)
	asOf := Resolve(pos, c.state.Min, c.state.Max)
	c.position = pos
	if c.issued && sameInstant(asOf, c.state.AsOf) {
		return Request{}, false
	}
	c.state.AsOf = asOf
	return c.next(), true
}

// GoLive returns to live mode.
func (c *Controller) GoLive() (Request, bool) {
	return c.Scrub(MaxPosition)
}

// Refresh issues a new generation for the instant already shown. It is used
// for the initial load and for capacity-changing rebuilds.
func (c *Controller) Refresh() Request {
	return c.next()
}

func (c *Controller) next() Request {
	c.generation++
	c.issued = true
	var asOf *time.Time
	if c.state.AsOf != nil {
		ts := *c.state.AsOf
		asOf = &ts
	}
	return Request{Generation: c.generation, AsOf: asOf}
}
