// Package index defines the contract of the index/search service the
// canvas reads from, plus an HTTP client for a remote instance.
package index

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tableflip.dev/codecanvas/pkg/live"
	"tableflip.dev/codecanvas/pkg/manifest"
	"tableflip.dev/codecanvas/pkg/timeline"
)

// ErrNotFound is returned when a path has no content at the requested
// instant.
var ErrNotFound = errors.New("index: not found")

// Content is a file body and its language.
type Content struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Language string `json:"language"`
}

// Service is the index/search service. A nil asOf means live.
type Service interface {
	Manifest(ctx context.Context, asOf *time.Time) ([]manifest.Raw, error)
	Content(ctx context.Context, path string, asOf *time.Time) (Content, error)
	Activity(ctx context.Context) (timeline.Summary, error)
	// Watch streams change notifications until ctx is done. The channel is
	// closed when the stream ends.
	Watch(ctx context.Context) (<-chan live.Event, error)
	// Save hands new content to the service. The canvas only invokes it.
	Save(ctx context.Context, path string, content string) error
}

// FormatAsOf renders an instant as unix milliseconds; live is "".
func FormatAsOf(asOf *time.Time) string {
	if asOf == nil {
		return ""
	}
	return strconv.FormatInt(asOf.UnixMilli(), 10)
}

// ParseAsOf parses unix milliseconds, an RFC3339 timestamp or a date
// (2006-01-02). Empty input and "live" mean live.
func ParseAsOf(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "live") {
		return nil, nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		t := time.UnixMilli(v).UTC()
		return &t, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("index: invalid as-of %q (expected unix ms, RFC3339 or YYYY-MM-DD)", s)
}
