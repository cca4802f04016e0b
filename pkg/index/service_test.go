package index_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"tableflip.dev/codecanvas/pkg/index"
	"tableflip.dev/codecanvas/pkg/index/indextest"
)

func TestParseAsOf(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		live    bool
		wantErr bool
	}{
		{in: "", live: true},
		{in: "live", live: true},
		{in: "LIVE", live: true},
		{in: "1500", want: 1500},
		{in: "1970-01-01T00:00:02Z", want: 2000},
		{in: "1970-01-02", want: 86400000},
		{in: "yesterday", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := index.ParseAsOf(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAsOf(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAsOf(%q): %v", tt.in, err)
			}
			if tt.live {
				if got != nil {
					t.Fatalf("ParseAsOf(%q) = %v, want live", tt.in, got)
				}
				return
			}
			if got == nil || got.UnixMilli() != tt.want {
				t.Fatalf("ParseAsOf(%q) = %v, want %d ms", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatAsOf(t *testing.T) {
	if got := index.FormatAsOf(nil); got != "" {
		t.Fatalf("live formatted as %q", got)
	}
	at := time.UnixMilli(42)
	if got := index.FormatAsOf(&at); got != "42" {
		t.Fatalf("FormatAsOf = %q, want 42", got)
	}
}

func TestDedupeWrapsOnce(t *testing.T) {
	if index.Dedupe(nil) != nil {
		t.Fatalf("nil service should stay nil")
	}
	svc := index.Dedupe(indextest.New())
	if again := index.Dedupe(svc); again != svc {
		t.Fatalf("wrapping twice should return the same service")
	}
}

func TestDedupePassesThrough(t *testing.T) {
	mem := indextest.New()
	mem.SetContent("a.go", nil, "package a\n", "Go")
	svc := index.Dedupe(mem)

	got, err := svc.Content(context.Background(), "a.go", nil)
	if err != nil {
		t.Fatalf("Content: %v", err)
	}
	if got.Content != "package a\n" || got.Language != "Go" {
		t.Fatalf("unexpected content %+v", got)
	}

	if _, err := svc.Content(context.Background(), "missing.go", nil); !errors.Is(err, index.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// gatedContent holds its first `gated` Content calls until release is
// closed and answers later calls at once. Each body is the call number.
type gatedContent struct {
	*indextest.Service
	gated   int
	entered chan struct{}
	release chan struct{}
	once    sync.Once

	mu    sync.Mutex
	calls int
}

func newGatedContent(gated int) *gatedContent {
	return &gatedContent{
		Service: indextest.New(),
		gated:   gated,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *gatedContent) Content(ctx context.Context, path string, _ *time.Time) (index.Content, error) {
	g.mu.Lock()
	g.calls++
	n := g.calls
	g.mu.Unlock()
	g.once.Do(func() { close(g.entered) })
	if n <= g.gated {
		<-g.release
	}
	if err := ctx.Err(); err != nil {
		return index.Content{}, err
	}
	return index.Content{Path: path, Content: fmt.Sprintf("v%d", n)}, nil
}

func (g *gatedContent) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type contentResult struct {
	content index.Content
	err     error
}

func fetch(ctx context.Context, svc index.Service, path string) <-chan contentResult {
	out := make(chan contentResult, 1)
	go func() {
		c, err := svc.Content(ctx, path, nil)
		out <- contentResult{content: c, err: err}
	}()
	return out
}

func TestDedupeCancelledCallerDoesNotFailOthers(t *testing.T) {
	gated := newGatedContent(2)
	svc := index.Dedupe(gated)

	ctx, cancel := context.WithCancel(context.Background())
	first := fetch(ctx, svc, "a.go")
	<-gated.entered
	cancel()
	if res := <-first; !errors.Is(res.err, context.Canceled) {
		t.Fatalf("cancelled caller err = %v, want context.Canceled", res.err)
	}

	// The upstream call is still held, so this caller joins it.
	second := fetch(context.Background(), svc, "a.go")
	time.Sleep(50 * time.Millisecond)
	close(gated.release)
	res := <-second
	if res.err != nil {
		t.Fatalf("second caller err = %v", res.err)
	}
	if res.content.Content != "v1" && res.content.Content != "v2" {
		t.Fatalf("second caller content = %q", res.content.Content)
	}
}

func TestDedupeFreshStartsNewRequest(t *testing.T) {
	gated := newGatedContent(1)
	svc := index.Dedupe(gated)

	stale := fetch(context.Background(), svc, "a.go")
	<-gated.entered

	res := <-fetch(index.Fresh(context.Background()), svc, "a.go")
	if res.err != nil || res.content.Content != "v2" {
		t.Fatalf("fresh fetch = %+v, want v2", res)
	}

	close(gated.release)
	if res := <-stale; res.err != nil || res.content.Content != "v1" {
		t.Fatalf("in-flight fetch = %+v, want v1", res)
	}
}
