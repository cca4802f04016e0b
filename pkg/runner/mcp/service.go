// Package mcp provides the Model Context Protocol server integration for
// codecanvas.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tableflip.dev/codecanvas/pkg/index"
	"tableflip.dev/codecanvas/pkg/layout"
	"tableflip.dev/codecanvas/pkg/manifest"
	"tableflip.dev/codecanvas/pkg/store"
	"tableflip.dev/codecanvas/pkg/timeutil"
)

// Service coordinates index-backed operations that are shared by the MCP server.
type Service struct {
	Index index.Service
	// Now is the clock relative instants are counted back from.
	Now func() time.Time
}

// ErrHistoryUnsupported is returned when the index keeps no revision log.
var ErrHistoryUnsupported = errors.New("file history needs a local index")

type historian interface {
	History(path string) ([]store.Revision, error)
}

// FileDTO is a transport-friendly projection of a manifest entry.
type FileDTO struct {
	Path     string `json:"path"`
	Language string `json:"language"`
	Bytes    int64  `json:"bytes"`
	Lines    int64  `json:"lines"`
}

// ManifestDTO lists the files present at an instant.
type ManifestDTO struct {
	AsOf   string    `json:"asOf,omitempty"`
	Count  int       `json:"count"`
	Files  []FileDTO `json:"files"`
	Issues []string  `json:"issues,omitempty"`
}

// ContentDTO is a file body at an instant.
type ContentDTO struct {
	Path     string `json:"path"`
	AsOf     string `json:"asOf,omitempty"`
	Language string `json:"language"`
	Lines    int    `json:"lines"`
	Content  string `json:"content"`
}

// BucketDTO is one activity bucket.
type BucketDTO struct {
	Start string `json:"start"`
	Count int    `json:"count"`
}

// ActivityDTO describes when the tracked tree changed.
type ActivityDTO struct {
	Min     string      `json:"min"`
	Max     string      `json:"max"`
	Total   int         `json:"total"`
	Buckets []BucketDTO `json:"buckets"`
}

// CompositionDTO is the language mix at an instant.
type CompositionDTO struct {
	AsOf   string           `json:"asOf,omitempty"`
	Metric string           `json:"metric"`
	Shares []manifest.Share `json:"shares"`
}

// LayoutDTO is a computed canvas layout.
type LayoutDTO struct {
	AsOf   string        `json:"asOf,omitempty"`
	Mode   string        `json:"mode"`
	Metric string        `json:"metric"`
	Bounds layout.Rect   `json:"bounds"`
	Rects  []layout.Rect `json:"rects"`
}

// HistoryDTO lists the recorded revisions of one path.
type HistoryDTO struct {
	Path      string           `json:"path"`
	Revisions []store.Revision `json:"revisions"`
}

// NewService builds a service wrapper around the index.
func NewService(svc index.Service) *Service {
	return &Service{Index: svc, Now: time.Now}
}

func (s *Service) ready() error {
	if s.Index == nil {
		return errors.New("index is not configured")
	}
	return nil
}

func (s *Service) instant(raw string) (*time.Time, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return timeutil.ParseInstant(raw, now())
}

func formatInstant(asOf *time.Time) string {
	if asOf == nil {
		return ""
	}
	return asOf.UTC().Format(time.RFC3339)
}

func (s *Service) entries(ctx context.Context, asOfRaw string) ([]manifest.Entry, []manifest.Issue, *time.Time, error) {
	if err := s.ready(); err != nil {
		return nil, nil, nil, err
	}
	asOf, err := s.instant(asOfRaw)
	if err != nil {
		return nil, nil, nil, err
	}
	rows, err := s.Index.Manifest(ctx, asOf)
	if err != nil {
		return nil, nil, nil, err
	}
	entries, issues := manifest.Normalize(rows)
	return entries, issues, asOf, nil
}

// Manifest lists files at asOfRaw whose path contains query.
func (s *Service) Manifest(ctx context.Context, asOfRaw, query string) (ManifestDTO, error) {
	entries, issues, asOf, err := s.entries(ctx, asOfRaw)
	if err != nil {
		return ManifestDTO{}, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	out := ManifestDTO{AsOf: formatInstant(asOf), Files: []FileDTO{}}
	for _, e := range entries {
		if manifest.IsFolderMarker(e.Path) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(e.Path), query) {
			continue
		}
		out.Files = append(out.Files, FileDTO{Path: e.Path, Language: e.Language, Bytes: e.Bytes, Lines: e.Lines})
	}
	out.Count = len(out.Files)
	for _, issue := range issues {
		out.Issues = append(out.Issues, issue.String())
	}
	return out, nil
}

// Read returns the body of path at asOfRaw.
func (s *Service) Read(ctx context.Context, path, asOfRaw string) (ContentDTO, error) {
	if err := s.ready(); err != nil {
		return ContentDTO{}, err
	}
	path = manifest.CleanPath(path)
	if path == "" {
		return ContentDTO{}, errors.New("path is required")
	}
	asOf, err := s.instant(asOfRaw)
	if err != nil {
		return ContentDTO{}, err
	}
	c, err := s.Index.Content(ctx, path, asOf)
	if errors.Is(err, index.ErrNotFound) {
		return ContentDTO{}, fmt.Errorf("%s: not present at %s", path, describeInstant(asOf))
	}
	if err != nil {
		return ContentDTO{}, err
	}
	lang := c.Language
	if lang == "" {
		lang = manifest.DetectLanguage(path)
	}
	lines := strings.Count(c.Content, "\n")
	if c.Content != "" && !strings.HasSuffix(c.Content, "\n") {
		lines++
	}
	return ContentDTO{Path: path, AsOf: formatInstant(asOf), Language: lang, Lines: lines, Content: c.Content}, nil
}

func describeInstant(asOf *time.Time) string {
	if asOf == nil {
		return "live"
	}
	return asOf.UTC().Format(time.RFC3339)
}

// Activity summarizes change activity.
func (s *Service) Activity(ctx context.Context) (ActivityDTO, error) {
	if err := s.ready(); err != nil {
		return ActivityDTO{}, err
	}
	summary, err := s.Index.Activity(ctx)
	if err != nil {
		return ActivityDTO{}, err
	}
	out := ActivityDTO{
		Min:     summary.Min.UTC().Format(time.RFC3339),
		Max:     summary.Max.UTC().Format(time.RFC3339),
		Buckets: make([]BucketDTO, 0, len(summary.Series)),
	}
	for _, p := range summary.Series {
		out.Total += p.Count
		out.Buckets = append(out.Buckets, BucketDTO{Start: p.Key.UTC().Format(time.RFC3339), Count: p.Count})
	}
	return out, nil
}

// Composition returns the language shares at asOfRaw weighted by metric.
func (s *Service) Composition(ctx context.Context, asOfRaw, metric string) (CompositionDTO, error) {
	m, err := parseMetric(metric)
	if err != nil {
		return CompositionDTO{}, err
	}
	entries, _, asOf, err := s.entries(ctx, asOfRaw)
	if err != nil {
		return CompositionDTO{}, err
	}
	return CompositionDTO{
		AsOf:   formatInstant(asOf),
		Metric: m.String(),
		Shares: manifest.Composition(entries, m == layout.Lines),
	}, nil
}

// Layout computes the canvas layout at asOfRaw.
func (s *Service) Layout(ctx context.Context, asOfRaw, mode, metric string) (LayoutDTO, error) {
	md := layout.Hierarchical
	if strings.TrimSpace(mode) != "" {
		var err error
		if md, err = layout.ParseMode(mode); err != nil {
			return LayoutDTO{}, err
		}
	}
	m, err := parseMetric(metric)
	if err != nil {
		return LayoutDTO{}, err
	}
	entries, _, asOf, err := s.entries(ctx, asOfRaw)
	if err != nil {
		return LayoutDTO{}, err
	}
	res := layout.Compute(entries, md, m)
	return LayoutDTO{
		AsOf:   formatInstant(asOf),
		Mode:   md.String(),
		Metric: m.String(),
		Bounds: res.Bounds(),
		Rects:  res.Rects(),
	}, nil
}

// History lists the revisions recorded for path.
func (s *Service) History(path string) (HistoryDTO, error) {
	h, ok := s.Index.(historian)
	if !ok {
		return HistoryDTO{}, ErrHistoryUnsupported
	}
	path = manifest.CleanPath(path)
	revs, err := h.History(path)
	if err != nil {
		return HistoryDTO{}, err
	}
	if revs == nil {
		revs = []store.Revision{}
	}
	return HistoryDTO{Path: path, Revisions: revs}, nil
}

// Save hands new content for path to the index.
func (s *Service) Save(ctx context.Context, path, content string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(path) == "" {
		return errors.New("path is required")
	}
	return s.Index.Save(ctx, path, content)
}

func parseMetric(metric string) (layout.Metric, error) {
	if strings.TrimSpace(metric) == "" {
		return layout.Lines, nil
	}
	return layout.ParseMetric(metric)
}
