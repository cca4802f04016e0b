package live

// View is what the reconciler needs to know about the scene.
type View interface {
	// Live reports whether the scene shows the present.
	Live() bool
	// Rendered reports whether path currently has a rect.
	Rendered(path string) bool
	// Follow reports whether the camera should chase updates.
	Follow() bool
}

// Effects tells the caller what an event requires. The reconciler never
// touches layout or content itself.
type Effects struct {
	// Duplicate is set for redelivered or out-of-date events; nothing else
	// is set with it.
	Duplicate bool
	Logged    bool

	// RefreshContent re-fetches the single rendered file in place.
	RefreshContent bool
	// Rebuild asks for a full manifest refetch and layout, needed when the
	// set of rendered paths changes.
	Rebuild bool
	// Focus flies the camera to the path and ensures its content.
	Focus bool

	RefreshActivity    bool
	RefreshComposition bool
}

// Reconciler applies change events in arrival order.
type Reconciler struct {
	log  *Log
	last map[string]Event
}

// NewReconciler returns a reconciler with an empty activity log.
func NewReconciler() *Reconciler {
	return &Reconciler{log: NewLog(LogCapacity), last: make(map[string]Event)}
}

// Log exposes the recent activity log.
func (r *Reconciler) Log() *Log {
	return r.log
}

// Handle logs ev and decides its effects. In historical mode only the log
// and the activity aggregate change.
func (r *Reconciler) Handle(ev Event, v View) Effects {
	if prev, ok := r.last[ev.Path]; ok {
		if ev.Timestamp.Before(prev.Timestamp) ||
			(ev.Timestamp.Equal(prev.Timestamp) && ev.Action == prev.Action) {
			return Effects{Duplicate: true}
		}
	}
	r.last[ev.Path] = ev
	r.log.Add(ev)

	fx := Effects{Logged: true, RefreshActivity: true}
	if !v.Live() {
		return fx
	}

	rendered := v.Rendered(ev.Path)
	switch ev.Action {
	case Deleted:
		fx.Rebuild = rendered
		fx.RefreshComposition = rendered
	case Added, Updated:
		if rendered {
			fx.RefreshContent = true
		} else {
			fx.Rebuild = true
			fx.RefreshComposition = true
		}
		fx.Focus = v.Follow()
	}
	return fx
}

// Prune drops the dedupe state of deleted paths that are no longer rendered.
// Call it after a live rebuild applies so the state tracks the shown tree
// instead of every path ever seen. It returns how many entries were dropped.
func (r *Reconciler) Prune(rendered func(path string) bool) int {
	n := 0
	for path, ev := range r.last {
		if ev.Action == Deleted && !rendered(path) {
			delete(r.last, path)
			n++
		}
	}
	return n
}
