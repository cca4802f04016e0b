package layout

// Result holds the rects of one layout pass in emission order: a folder
// always precedes its descendants.
type Result struct {
	Mode   Mode
	Metric Metric

	rects  []Rect
	index  map[string]int
	bounds Rect
}

func newResult(mode Mode, metric Metric, rects []Rect) Result {
	r := Result{Mode: mode, Metric: metric, rects: rects, index: make(map[string]int, len(rects))}
	for i, rect := range rects {
		r.index[rect.ID] = i
		if i == 0 {
			r.bounds = Rect{X: rect.X, Y: rect.Y, W: rect.W, H: rect.H}
			continue
		}
		r.bounds = r.bounds.Union(rect)
	}
	return r
}

// Len returns the number of rects.
func (r Result) Len() int {
	return len(r.rects)
}

// Rects returns a copy of all rects in emission order.
func (r Result) Rects() []Rect {
	return append([]Rect(nil), r.rects...)
}

// Rect looks up the rect of a file or folder path.
func (r Result) Rect(id string) (Rect, bool) {
	idx, ok := r.index[id]
	if !ok {
		return Rect{}, false
	}
	return r.rects[idx], true
}

// Files returns file rects in emission order.
func (r Result) Files() []Rect {
	return r.filter(KindFile)
}

// Folders returns folder rects in emission order.
func (r Result) Folders() []Rect {
	return r.filter(KindFolder)
}

func (r Result) filter(kind Kind) []Rect {
	var out []Rect
	for _, rect := range r.rects {
		if rect.Kind == kind {
			out = append(out, rect)
		}
	}
	return out
}

// Bounds is the union of every rect; zero when the layout is empty.
func (r Result) Bounds() Rect {
	return r.bounds
}

// HitTest returns the rect under a world point. Files win over folders and
// among folders the innermost one wins.
func (r Result) HitTest(x, y float64) (Rect, bool) {
	var (
		best  Rect
		found bool
	)
	for _, rect := range r.rects {
		if !rect.Contains(x, y) {
			continue
		}
		if rect.Kind == KindFile {
			return rect, true
		}
		if !found || rect.Area() < best.Area() {
			best, found = rect, true
		}
	}
	return best, found
}
