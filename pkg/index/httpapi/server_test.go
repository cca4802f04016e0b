package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tableflip.dev/codecanvas/pkg/index"
	"tableflip.dev/codecanvas/pkg/index/indextest"
	"tableflip.dev/codecanvas/pkg/live"
	"tableflip.dev/codecanvas/pkg/logging"
	"tableflip.dev/codecanvas/pkg/manifest"
	"tableflip.dev/codecanvas/pkg/timeline"
)

func newTestServer(t *testing.T) (*indextest.Service, *index.Client, context.Context) {
	t.Helper()
	svc := indextest.New()
	srv := New(svc, logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	client, err := index.NewClient(ts.URL, ts.Client())
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return svc, client, ctx
}

func TestManifestAndContentRoundTrip(t *testing.T) {
	svc, client, ctx := newTestServer(t)
	past := time.UnixMilli(1500).UTC()
	svc.SetManifest(nil, manifest.Raw{FilePath: "a.go", SizeBytes: manifest.Int64(10), LineCount: manifest.Int64(2)})
	svc.SetManifest(&past, manifest.Raw{FilePath: "old.go", SizeBytes: manifest.Int64(3), LineCount: manifest.Int64(1)})
	svc.SetContent("a.go", nil, "package a\n", "Go")

	rows, err := client.Manifest(ctx, nil)
	if err != nil || len(rows) != 1 || rows[0].FilePath != "a.go" || *rows[0].SizeBytes != 10 {
		t.Fatalf("live manifest = %+v, %v", rows, err)
	}
	rows, err = client.Manifest(ctx, &past)
	if err != nil || len(rows) != 1 || rows[0].FilePath != "old.go" {
		t.Fatalf("historical manifest = %+v, %v", rows, err)
	}

	c, err := client.Content(ctx, "a.go", nil)
	if err != nil || c.Content != "package a\n" || c.Language != "Go" {
		t.Fatalf("content = %+v, %v", c, err)
	}
	if _, err := client.Content(ctx, "missing.go", nil); !errors.Is(err, index.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestActivityAndSave(t *testing.T) {
	svc, client, ctx := newTestServer(t)
	svc.SetActivity(timeline.Summary{
		Min:    time.UnixMilli(1000).UTC(),
		Max:    time.UnixMilli(2000).UTC(),
		Series: []timeline.Point{{Key: time.UnixMilli(1000).UTC(), Count: 4}},
	})
	summary, err := client.Activity(ctx)
	if err != nil {
		t.Fatalf("activity: %v", err)
	}
	if summary.Max.UnixMilli() != 2000 || len(summary.Series) != 1 || summary.Series[0].Count != 4 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	if err := client.Save(ctx, "notes.txt", "hello"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got, ok := svc.Saved("notes.txt"); !ok || got != "hello" {
		t.Fatalf("saved = %q, %v", got, ok)
	}
}

func TestChangeFeedStreams(t *testing.T) {
	svc, client, ctx := newTestServer(t)
	ch, err := client.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	want := live.Event{Path: "a.go", Action: live.Updated, Timestamp: time.UnixMilli(1700).UTC()}
	svc.Emit(want)

	select {
	case got := <-ch:
		if got.Path != want.Path || got.Action != want.Action || !got.Timestamp.Equal(want.Timestamp) {
			t.Fatalf("event = %+v, want %+v", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change event")
	}
}

func TestBadRequests(t *testing.T) {
	svc := indextest.New()
	srv := New(svc, logging.Discard())
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	for _, target := range []string{"/v1/content", "/v1/manifest?as_of=yesterday-ish"} {
		resp, err := http.Get(ts.URL + target)
		if err != nil {
			t.Fatalf("get %s: %v", target, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: status %d, want 400", target, resp.StatusCode)
		}
	}
}

func TestBrokerEvictsSlowSubscriber(t *testing.T) {
	b := NewBroker(logging.Discard())
	slowID, slow := b.Subscribe()
	_, fast := b.Subscribe()

	total := SubscriberBuffer + 36
	for i := 0; i < total; i++ {
		b.Publish(live.Event{Path: "a.go", Action: live.Updated, Timestamp: time.UnixMilli(int64(i))})
		if ev, ok := <-fast; !ok || ev.Timestamp.UnixMilli() != int64(i) {
			t.Fatalf("fast subscriber event %d = %+v, %v", i, ev, ok)
		}
	}

	received := 0
	for range slow {
		received++
	}
	if received != SubscriberBuffer {
		t.Fatalf("slow subscriber received %d events before eviction, want %d", received, SubscriberBuffer)
	}
	if got := b.Len(); got != 1 {
		t.Fatalf("subscribers = %d, want only the fast one", got)
	}
	// Unsubscribing an evicted client is a no-op.
	b.Unsubscribe(slowID)
}
