package live

import (
	"fmt"
	"testing"
	"time"
)

type fakeView struct {
	live     bool
	follow   bool
	rendered map[string]bool
}

func (f fakeView) Live() bool                { return f.live }
func (f fakeView) Follow() bool              { return f.follow }
func (f fakeView) Rendered(path string) bool { return f.rendered[path] }

func at(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func TestLogBoundedNewestFirst(t *testing.T) {
	l := NewLog(0)
	for i := 0; i < 35; i++ {
		l.Add(Event{Path: fmt.Sprintf("f%d", i), Action: Updated, Timestamp: at(int64(i))})
		if l.Len() > LogCapacity {
			t.Fatalf("log grew to %d", l.Len())
		}
	}
	items := l.Items()
	if len(items) != LogCapacity {
		t.Fatalf("len = %d, want %d", len(items), LogCapacity)
	}
	if items[0].Path != "f34" || items[LogCapacity-1].Path != "f15" {
		t.Fatalf("unexpected order: first %q last %q", items[0].Path, items[LogCapacity-1].Path)
	}
}

func TestHistoricalEventIsLoggedOnly(t *testing.T) {
	r := NewReconciler()
	view := fakeView{live: false, follow: true}
	fx := r.Handle(Event{Path: "new/file.go", Action: Added, Timestamp: at(10)}, view)

	if !fx.Logged || !fx.RefreshActivity {
		t.Fatalf("expected event to be logged, got %+v", fx)
	}
	if fx.RefreshContent || fx.Rebuild || fx.Focus {
		t.Fatalf("historical mode must not mutate content: %+v", fx)
	}
	if r.Log().Len() != 1 {
		t.Fatalf("log len = %d", r.Log().Len())
	}
}

func TestLiveEffects(t *testing.T) {
	view := fakeView{live: true, rendered: map[string]bool{"a.go": true}}
	tests := []struct {
		name   string
		ev     Event
		follow bool
		want   Effects
	}{{
		name: "update rendered",
		ev:   Event{Path: "a.go", Action: Updated, Timestamp: at(1)},
		want: Effects{Logged: true, RefreshActivity: true, RefreshContent: true},
	}, {
		name:   "update rendered with follow",
		ev:     Event{Path: "a.go", Action: Updated, Timestamp: at(1)},
		follow: true,
		want:   Effects{Logged: true, RefreshActivity: true, RefreshContent: true, Focus: true},
	}, {
		name: "add unrendered",
		ev:   Event{Path: "b.go", Action: Added, Timestamp: at(1)},
		want: Effects{Logged: true, RefreshActivity: true, Rebuild: true, RefreshComposition: true},
	}, {
		name: "delete rendered",
		ev:   Event{Path: "a.go", Action: Deleted, Timestamp: at(1)},
		want: Effects{Logged: true, RefreshActivity: true, Rebuild: true, RefreshComposition: true},
	}, {
		name: "delete unrendered",
		ev:   Event{Path: "zzz.go", Action: Deleted, Timestamp: at(1)},
		want: Effects{Logged: true, RefreshActivity: true},
	}}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := view
			v.follow = tc.follow
			got := NewReconciler().Handle(tc.ev, v)
			if got != tc.want {
				t.Fatalf("effects = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestDuplicatesAreIdempotent(t *testing.T) {
	r := NewReconciler()
	view := fakeView{live: true, rendered: map[string]bool{"a.go": true}}
	ev := Event{Path: "a.go", Action: Updated, Timestamp: at(5)}

	r.Handle(ev, view)
	if fx := r.Handle(ev, view); !fx.Duplicate || fx.RefreshContent {
		t.Fatalf("redelivery should be dropped, got %+v", fx)
	}
	if fx := r.Handle(Event{Path: "a.go", Action: Updated, Timestamp: at(4)}, view); !fx.Duplicate {
		t.Fatalf("older event should be dropped, got %+v", fx)
	}
	if fx := r.Handle(Event{Path: "a.go", Action: Deleted, Timestamp: at(5)}, view); fx.Duplicate {
		t.Fatalf("different action at the same instant should apply")
	}
	if r.Log().Len() != 2 {
		t.Fatalf("log len = %d, want 2", r.Log().Len())
	}
}

func TestParseAction(t *testing.T) {
	for in, want := range map[string]Action{"added": Added, "MODIFIED": Updated, " delete ": Deleted} {
		got, err := ParseAction(in)
		if err != nil || got != want {
			t.Fatalf("ParseAction(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseAction("renamed"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPruneDropsDeletedPaths(t *testing.T) {
	r := NewReconciler()
	view := fakeView{live: true, rendered: map[string]bool{"keep.go": true}}
	for i := 0; i < 50; i++ {
		path := fmt.Sprintf("tmp/%d.go", i)
		r.Handle(Event{Path: path, Action: Added, Timestamp: at(int64(i))}, view)
		r.Handle(Event{Path: path, Action: Deleted, Timestamp: at(int64(i + 100))}, view)
	}
	r.Handle(Event{Path: "keep.go", Action: Updated, Timestamp: at(1)}, view)

	if got := r.Prune(func(p string) bool { return view.rendered[p] }); got != 50 {
		t.Fatalf("pruned %d, want 50", got)
	}
	if len(r.last) != 1 {
		t.Fatalf("dedupe state holds %d paths, want 1", len(r.last))
	}
	if fx := r.Handle(Event{Path: "keep.go", Action: Updated, Timestamp: at(1)}, view); !fx.Duplicate {
		t.Fatal("state for rendered paths must survive a prune")
	}
	if got := r.Log().Len(); got > LogCapacity {
		t.Fatalf("log grew to %d", got)
	}
}
