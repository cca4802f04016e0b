// Package indextest provides an in-memory index.Service for tests.
package indextest

import (
	"context"
	"sync"
	"time"

	"tableflip.dev/codecanvas/pkg/index"
	"tableflip.dev/codecanvas/pkg/live"
	"tableflip.dev/codecanvas/pkg/manifest"
	"tableflip.dev/codecanvas/pkg/timeline"
)

// Service is a scripted index. Manifests and content are keyed by instant;
// lookups for an instant with nothing registered fall back to live.
type Service struct {
	mu       sync.Mutex
	rows     map[string][]manifest.Raw
	bodies   map[string]index.Content
	summary  timeline.Summary
	failures map[string]error
	calls    map[string]int
	saved    map[string]string
	events   chan live.Event
}

var _ index.Service = (*Service)(nil)

// New returns an empty service.
func New() *Service {
	return &Service{
		rows:     make(map[string][]manifest.Raw),
		bodies:   make(map[string]index.Content),
		failures: make(map[string]error),
		calls:    make(map[string]int),
		saved:    make(map[string]string),
		events:   make(chan live.Event, 64),
	}
}

// SetManifest registers the manifest valid at asOf (nil = live).
func (s *Service) SetManifest(asOf *time.Time, rows ...manifest.Raw) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[index.FormatAsOf(asOf)] = rows
}

// SetContent registers a body for path at asOf (nil = live).
func (s *Service) SetContent(path string, asOf *time.Time, body, language string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies[path+"@"+index.FormatAsOf(asOf)] = index.Content{Path: path, Content: body, Language: language}
}

// SetActivity registers the activity summary.
func (s *Service) SetActivity(summary timeline.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = summary
}

// Fail makes op ("manifest", "content", "activity", "watch", "save") return
// err; a nil err clears the failure.
func (s *Service) Fail(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// Emit queues a change event for Watch subscribers.
func (s *Service) Emit(ev live.Event) {
	s.events <- ev
}

// Calls reports how often op was invoked.
func (s *Service) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// Saved returns the last content saved for path.
func (s *Service) Saved(path string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.saved[path]
	return v, ok
}

func (s *Service) enter(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[op]++
	return s.failures[op]
}

func (s *Service) Manifest(_ context.Context, asOf *time.Time) ([]manifest.Raw, error) {
	if err := s.enter("manifest"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.rows[index.FormatAsOf(asOf)]
	if !ok {
		rows = s.rows[""]
	}
	return append([]manifest.Raw(nil), rows...), nil
}

func (s *Service) Content(_ context.Context, path string, asOf *time.Time) (index.Content, error) {
	if err := s.enter("content"); err != nil {
		return index.Content{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.bodies[path+"@"+index.FormatAsOf(asOf)]; ok {
		return c, nil
	}
	if c, ok := s.bodies[path+"@"]; ok {
		return c, nil
	}
	return index.Content{}, index.ErrNotFound
}

func (s *Service) Activity(context.Context) (timeline.Summary, error) {
	if err := s.enter("activity"); err != nil {
		return timeline.Summary{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary, nil
}

func (s *Service) Watch(ctx context.Context) (<-chan live.Event, error) {
	if err := s.enter("watch"); err != nil {
		return nil, err
	}
	out := make(chan live.Event, 64)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-s.events:
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (s *Service) Save(_ context.Context, path string, content string) error {
	if err := s.enter("save"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[path] = content
	return nil
}
