// Package viewport owns the camera over the layout's world space: a uniform
// scale plus translation, changed by drag, wheel zoom or an eased fly-to.
package viewport

import (
	"math"
	"time"

	"tableflip.dev/codecanvas/pkg/layout"
)

const (
	MinScale = 0.2
	MaxScale = 2.5

	// ZoomStep is the scale change per wheel notch.
	ZoomStep = 0.1

	// FitFraction is the share of the viewport a fly-to target may fill.
	FitFraction = 0.65

	// AnimationDuration is the default fly-to duration.
	AnimationDuration = 500 * time.Millisecond
)

// State is the camera's interaction state.
type State int

const (
	Idle State = iota
	Dragging
	Animating
)

func (s State) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case Animating:
		return "animating"
	default:
		return "idle"
	}
}

// Transform maps world to screen: screen = world*Scale + T.
type Transform struct {
	Scale float64
	TX    float64
	TY    float64
}

// ToScreen maps a world point to the screen.
func (t Transform) ToScreen(x, y float64) (float64, float64) {
	return x*t.Scale + t.TX, y*t.Scale + t.TY
}

// ToWorld maps a screen point back to world space.
func (t Transform) ToWorld(sx, sy float64) (float64, float64) {
	return (sx - t.TX) / t.Scale, (sy - t.TY) / t.Scale
}

// ClampScale bounds s to [MinScale, MaxScale].
func ClampScale(s float64) float64 {
	if math.IsNaN(s) {
		return 1
	}
	return math.Max(MinScale, math.Min(MaxScale, s))
}

// FlyOptions tunes a fly-to.
type FlyOptions struct {
	// NoFit keeps the current scale and only recenters.
	NoFit bool
	// Bias shifts the target center horizontally, in screen units, to make
	// room for persistent side chrome.
	Bias float64
	// Duration overrides AnimationDuration when positive.
	Duration time.Duration
}

type animation struct {
	from, to Transform
	start    time.Time
	duration time.Duration
}

// Camera is the single writer-owned viewport state. It is not safe for
// concurrent use; callers serialize access on their update loop.
type Camera struct {
	t      Transform
	state  State
	width  float64
	height float64

	lastX, lastY float64
	anim         *animation
}

// New returns an idle camera at scale 1 over a viewport of the given size.
func New(width, height float64) *Camera {
	return &Camera{t: Transform{Scale: 1}, width: width, height: height}
}

// Transform returns the current transform.
func (c *Camera) Transform() Transform {
	return c.t
}

// State returns the interaction state.
func (c *Camera) State() State {
	return c.state
}

// Size returns the viewport size in screen units.
func (c *Camera) Size() (float64, float64) {
	return c.width, c.height
}

// Resize updates the viewport size.
func (c *Camera) Resize(width, height float64) {
	c.width, c.height = width, height
}

// Set replaces the transform, clamping the scale.
func (c *Camera) Set(t Transform) {
	t.Scale = ClampScale(t.Scale)
	c.t = t
}

// Cancel stops an in-flight animation where it stands. It reports whether an
// animation was interrupted.
func (c *Camera) Cancel() bool {
	if c.state != Animating {
		return false
	}
	c.anim = nil
	c.state = Idle
	return true
}

// PointerDown starts a drag at the screen point, interrupting any animation.
func (c *Camera) PointerDown(sx, sy float64) bool {
	interrupted := c.Cancel()
	c.state = Dragging
	c.lastX, c.lastY = sx, sy
	return interrupted
}

// PointerMove pans by the pointer delta while dragging.
func (c *Camera) PointerMove(sx, sy float64) {
	if c.state != Dragging {
		return
	}
	c.t.TX += sx - c.lastX
	c.t.TY += sy - c.lastY
	c.lastX, c.lastY = sx, sy
}

// PointerUp ends a drag.
func (c *Camera) PointerUp() {
	if c.state == Dragging {
		c.state = Idle
	}
}

// Pan shifts the view by a screen delta.
func (c *Camera) Pan(dx, dy float64) {
	c.Cancel()
	c.t.TX += dx
	c.t.TY += dy
}

// Zoom applies notches wheel steps (positive zooms in) anchored at the screen
// point: the world point under (sx, sy) stays there.
func (c *Camera) Zoom(sx, sy float64, notches int) {
	c.ZoomTo(sx, sy, c.t.Scale+float64(notches)*ZoomStep)
}

// ZoomTo sets the scale anchored at a screen point.
func (c *Camera) ZoomTo(sx, sy, scale float64) {
	c.Cancel()
	wx, wy := c.t.ToWorld(sx, sy)
	c.t.Scale = ClampScale(scale)
	c.t.TX = sx - wx*c.t.Scale
	c.t.TY = sy - wy*c.t.Scale
}

// Target computes the transform that centers r, fitting it into FitFraction
// of the viewport unless opts.NoFit.
func (c *Camera) Target(r layout.Rect, opts FlyOptions) Transform {
	scale := c.t.Scale
	if !opts.NoFit && r.W > 0 && r.H > 0 && c.width > 0 && c.height > 0 {
		scale = math.Min(c.width*FitFraction/r.W, c.height*FitFraction/r.H)
	}
	scale = ClampScale(scale)
	cx, cy := r.Center()
	return Transform{
		Scale: scale,
		TX:    c.width/2 + opts.Bias - cx*scale,
		TY:    c.height/2 - cy*scale,
	}
}

// FlyTo starts an eased animation toward Target(r, opts). A drag in
// progress is left alone and the request is dropped.
func (c *Camera) FlyTo(r layout.Rect, opts FlyOptions, now time.Time) bool {
	if c.state == Dragging {
		return false
	}
	d := opts.Duration
	if d <= 0 {
		d = AnimationDuration
	}
	c.anim = &animation{from: c.t, to: c.Target(r, opts), start: now, duration: d}
	c.state = Animating
	return true
}

// Tick advances the animation to now and reports whether it is still
// running.
func (c *Camera) Tick(now time.Time) bool {
	if c.state != Animating || c.anim == nil {
		return false
	}
	a := c.anim
	p := float64(now.Sub(a.start)) / float64(a.duration)
	if p >= 1 {
		c.t = a.to
		c.anim = nil
		c.state = Idle
		return false
	}
	if p < 0 {
		p = 0
	}
	e := EaseInOut(p)
	c.t = Transform{
		Scale: lerp(a.from.Scale, a.to.Scale, e),
		TX:    lerp(a.from.TX, a.to.TX, e),
		TY:    lerp(a.from.TY, a.to.TY, e),
	}
	return true
}

// Visible reports whether any part of r is on screen.
func (c *Camera) Visible(r layout.Rect) bool {
	x0, y0 := c.t.ToScreen(r.X, r.Y)
	x1, y1 := c.t.ToScreen(r.X+r.W, r.Y+r.H)
	return x1 >= 0 && y1 >= 0 && x0 <= c.width && y0 <= c.height
}

// EaseInOut is the cubic ease-in-out curve on [0, 1].
func EaseInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	f := -2*t + 2
	return 1 - f*f*f/2
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
