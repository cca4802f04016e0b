package viewport

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"tableflip.dev/codecanvas/pkg/layout"
)

func TestZoomPreservesCursorAnchor(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	c := New(1200, 800)
	c.Set(Transform{Scale: 1, TX: -340, TY: 125})
	for i := 0; i < 500; i++ {
		sx, sy := r.Float64()*1200, r.Float64()*800
		notches := r.Intn(7) - 3
		before := c.Transform()
		wx, wy := before.ToWorld(sx, sy)

		c.Zoom(sx, sy, notches)

		gx, gy := c.Transform().ToScreen(wx, wy)
		if math.Abs(gx-sx) > 1e-6 || math.Abs(gy-sy) > 1e-6 {
			t.Fatalf("step %d: anchor moved from (%v,%v) to (%v,%v)", i, sx, sy, gx, gy)
		}
	}
}

func TestScaleStaysBounded(t *testing.T) {
	c := New(800, 600)
	for i := 0; i < 100; i++ {
		c.Zoom(400, 300, 5)
		if s := c.Transform().Scale; s < MinScale || s > MaxScale {
			t.Fatalf("scale %v out of bounds after zoom in", s)
		}
	}
	if c.Transform().Scale != MaxScale {
		t.Fatalf("expected max scale, got %v", c.Transform().Scale)
	}
	for i := 0; i < 100; i++ {
		c.Zoom(10, 20, -3)
		if s := c.Transform().Scale; s < MinScale || s > MaxScale {
			t.Fatalf("scale %v out of bounds after zoom out", s)
		}
	}
	if c.Transform().Scale != MinScale {
		t.Fatalf("expected min scale, got %v", c.Transform().Scale)
	}
}

func TestDragPans(t *testing.T) {
	c := New(800, 600)
	c.PointerDown(100, 100)
	if c.State() != Dragging {
		t.Fatalf("expected dragging, got %s", c.State())
	}
	c.PointerMove(130, 90)
	c.PointerMove(150, 80)
	c.PointerUp()
	tr := c.Transform()
	if tr.TX != 50 || tr.TY != -20 {
		t.Fatalf("unexpected translate after drag: %+v", tr)
	}
	if c.State() != Idle {
		t.Fatalf("expected idle after pointer up, got %s", c.State())
	}
	c.PointerMove(500, 500)
	if c.Transform() != tr {
		t.Fatalf("move without drag should not pan")
	}
}

func TestFlyToCentersAndFits(t *testing.T) {
	c := New(1000, 500)
	target := layout.Rect{ID: "x", X: 2000, Y: 1000, W: 200, H: 100}
	start := time.Unix(0, 0)
	if !c.FlyTo(target, FlyOptions{Bias: -40}, start) {
		t.Fatalf("fly-to rejected")
	}
	if c.State() != Animating {
		t.Fatalf("expected animating")
	}

	if !c.Tick(start.Add(250 * time.Millisecond)) {
		t.Fatalf("animation ended early")
	}
	mid := c.Transform()
	want := c.anim.to
	if math.Abs(mid.Scale-(1+(want.Scale-1)*0.5)) > 1e-9 {
		t.Fatalf("midpoint scale %v not halfway to %v", mid.Scale, want.Scale)
	}

	if c.Tick(start.Add(AnimationDuration)) {
		t.Fatalf("animation should be finished")
	}
	if c.State() != Idle {
		t.Fatalf("expected idle after completion")
	}
	tr := c.Transform()
	wantScale := math.Min(1000*FitFraction/200, 500*FitFraction/100)
	if math.Abs(tr.Scale-ClampScale(wantScale)) > 1e-9 {
		t.Fatalf("scale = %v, want %v", tr.Scale, ClampScale(wantScale))
	}
	sx, sy := tr.ToScreen(target.Center())
	if math.Abs(sx-(500-40)) > 1e-9 || math.Abs(sy-250) > 1e-9 {
		t.Fatalf("target center at (%v,%v), want (460,250)", sx, sy)
	}
}

func TestFlyToNoFitKeepsScale(t *testing.T) {
	c := New(1000, 500)
	c.Set(Transform{Scale: 0.7})
	start := time.Unix(10, 0)
	c.FlyTo(layout.Rect{X: 0, Y: 0, W: 10, H: 10}, FlyOptions{NoFit: true}, start)
	c.Tick(start.Add(time.Second))
	if c.Transform().Scale != 0.7 {
		t.Fatalf("NoFit changed scale to %v", c.Transform().Scale)
	}
}

func TestPointerDownCancelsAnimation(t *testing.T) {
	c := New(800, 600)
	start := time.Unix(0, 0)
	c.FlyTo(layout.Rect{X: 5000, Y: 5000, W: 100, H: 100}, FlyOptions{}, start)
	c.Tick(start.Add(100 * time.Millisecond))
	frozen := c.Transform()

	if !c.PointerDown(10, 10) {
		t.Fatalf("expected pointer down to report an interrupted animation")
	}
	if c.State() != Dragging {
		t.Fatalf("expected dragging, got %s", c.State())
	}
	if c.Tick(start.Add(200 * time.Millisecond)) {
		t.Fatalf("cancelled animation kept ticking")
	}
	if c.Transform() != frozen {
		t.Fatalf("transform changed after cancellation")
	}
}

func TestFlyToIgnoredWhileDragging(t *testing.T) {
	c := New(800, 600)
	c.PointerDown(0, 0)
	if c.FlyTo(layout.Rect{W: 10, H: 10}, FlyOptions{}, time.Now()) {
		t.Fatalf("fly-to should not steal an active drag")
	}
}

func TestEaseInOut(t *testing.T) {
	if EaseInOut(0) != 0 || EaseInOut(1) != 1 || EaseInOut(0.5) != 0.5 {
		t.Fatalf("unexpected curve endpoints")
	}
	prev := 0.0
	for i := 1; i <= 100; i++ {
		v := EaseInOut(float64(i) / 100)
		if v < prev {
			t.Fatalf("curve not monotonic at %d", i)
		}
		prev = v
	}
}

func TestVisible(t *testing.T) {
	c := New(100, 100)
	if !c.Visible(layout.Rect{X: 90, Y: 90, W: 50, H: 50}) {
		t.Fatalf("partially visible rect reported hidden")
	}
	if c.Visible(layout.Rect{X: 200, Y: 0, W: 10, H: 10}) {
		t.Fatalf("offscreen rect reported visible")
	}
}
