package app

import (
	"context"
	"sort"
	"time"

	"tableflip.dev/codecanvas/pkg/live"
	"tableflip.dev/codecanvas/pkg/manifest"
)

// ReportItem is one path that differs between the two ends of the window.
type ReportItem struct {
	Path       string      `json:"path"`
	Action     live.Action `json:"action"`
	BytesDelta int64       `json:"bytes_delta"`
	LinesDelta int64       `json:"lines_delta"`
}

// ReportSection groups changes by top-level folder.
type ReportSection struct {
	Folder  string       `json:"folder"`
	Changes []ReportItem `json:"changes"`
}

// ReportResult encapsulates the changes in a time window.
type ReportResult struct {
	Since    time.Time       `json:"since"`
	Until    *time.Time      `json:"until,omitempty"`
	Sections []ReportSection `json:"sections"`
	Added    int             `json:"added"`
	Updated  int             `json:"updated"`
	Deleted  int             `json:"deleted"`
	Total    int             `json:"total"`
}

// Report compares the manifest at since with the one at until (nil for
// live). A file whose byte or line count moved counts as updated.
func (s *Service) Report(ctx context.Context, since time.Time, until *time.Time) (ReportResult, error) {
	if until != nil && since.After(*until) {
		end := since
		since, until = *until, &end
	}
	before, _, err := s.entries(ctx, &since)
	if err != nil {
		return ReportResult{}, err
	}
	after, _, err := s.entries(ctx, until)
	if err != nil {
		return ReportResult{}, err
	}

	old := make(map[string]manifest.Entry, len(before))
	for _, e := range before {
		if !manifest.IsFolderMarker(e.Path) {
			old[e.Path] = e
		}
	}

	result := ReportResult{Since: since, Until: until}
	grouped := make(map[string][]ReportItem)
	add := func(item ReportItem) {
		switch item.Action {
		case live.Added:
			result.Added++
		case live.Updated:
			result.Updated++
		case live.Deleted:
			result.Deleted++
		}
		result.Total++
		folder := topFolder(item.Path)
		grouped[folder] = append(grouped[folder], item)
	}

	for _, e := range after {
		if manifest.IsFolderMarker(e.Path) {
			continue
		}
		prev, ok := old[e.Path]
		delete(old, e.Path)
		switch {
		case !ok:
			add(ReportItem{Path: e.Path, Action: live.Added, BytesDelta: e.Bytes, LinesDelta: e.Lines})
		case prev.Bytes != e.Bytes || prev.Lines != e.Lines:
			add(ReportItem{Path: e.Path, Action: live.Updated, BytesDelta: e.Bytes - prev.Bytes, LinesDelta: e.Lines - prev.Lines})
		}
	}
	for _, e := range old {
		add(ReportItem{Path: e.Path, Action: live.Deleted, BytesDelta: -e.Bytes, LinesDelta: -e.Lines})
	}

	folders := make([]string, 0, len(grouped))
	for folder := range grouped {
		folders = append(folders, folder)
	}
	sort.Strings(folders)
	for _, folder := range folders {
		items := grouped[folder]
		sort.Slice(items, func(i, j int) bool { return items[i].Path < items[j].Path })
		result.Sections = append(result.Sections, ReportSection{Folder: folder, Changes: items})
	}
	return result, nil
}
