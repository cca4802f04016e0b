package canvas

// DefaultFetchLimit is the number of content fetches kept in flight.
const DefaultFetchLimit = 2

// ContentQueue hands out content fetches for one rebuild at a time, at most
// limit in flight. Each completion releases the next queued path. Resetting
// the queue for a newer rebuild orphans the old one.
type ContentQueue struct {
	limit    int
	gen      uint64
	queue    []string
	inflight map[string]struct{}
}

// NewContentQueue returns an empty queue; limit <= 0 means DefaultFetchLimit.
func NewContentQueue(limit int) *ContentQueue {
	if limit <= 0 {
		limit = DefaultFetchLimit
	}
	return &ContentQueue{limit: limit, inflight: make(map[string]struct{})}
}

// Generation is the rebuild the queue currently serves.
func (q *ContentQueue) Generation() uint64 {
	return q.gen
}

// Reset replaces the work with paths for gen and returns the fetches to
// start now.
func (q *ContentQueue) Reset(gen uint64, paths []string) []string {
	q.gen = gen
	q.queue = make([]string, 0, len(paths))
	q.inflight = make(map[string]struct{})
	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		q.queue = append(q.queue, p)
	}
	return q.dispatch()
}

// Done marks path finished and returns the fetches to start next. Results
// from another generation release nothing.
func (q *ContentQueue) Done(gen uint64, path string) []string {
	if gen != q.gen {
		return nil
	}
	if _, ok := q.inflight[path]; !ok {
		return nil
	}
	delete(q.inflight, path)
	return q.dispatch()
}

// Prioritize moves the queued paths in first (in order) to the front.
func (q *ContentQueue) Prioritize(first []string) {
	if len(q.queue) == 0 || len(first) == 0 {
		return
	}
	want := make(map[string]int, len(first))
	for i, p := range first {
		if _, ok := want[p]; !ok {
			want[p] = i
		}
	}
	front := make([]string, len(first))
	var n int
	rest := make([]string, 0, len(q.queue))
	for _, p := range q.queue {
		if i, ok := want[p]; ok {
			front[i] = p
			n++
			continue
		}
		rest = append(rest, p)
	}
	if n == 0 {
		return
	}
	ordered := make([]string, 0, len(q.queue))
	for _, p := range front {
		if p != "" {
			ordered = append(ordered, p)
		}
	}
	q.queue = append(ordered, rest...)
}

// Pending is the number of queued, not yet started, fetches.
func (q *ContentQueue) Pending() int {
	return len(q.queue)
}

// InFlight is the number of started, unfinished fetches.
func (q *ContentQueue) InFlight() int {
	return len(q.inflight)
}

// Idle reports whether the current rebuild has no work left.
func (q *ContentQueue) Idle() bool {
	return len(q.queue) == 0 && len(q.inflight) == 0
}

func (q *ContentQueue) dispatch() []string {
	var out []string
	for len(q.inflight) < q.limit && len(q.queue) > 0 {
		p := q.queue[0]
		q.queue = q.queue[1:]
		q.inflight[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
