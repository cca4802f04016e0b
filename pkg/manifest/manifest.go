// Package manifest models the tracked file set returned by the index service
// and derives the folder hierarchy from path segmentation.
package manifest

import (
	"fmt"
	"path"
	"strings"
)

// Raw is one manifest row as transmitted by the index service. Size metrics
// are pointers so a missing value can be told apart from zero.
type Raw struct {
	FilePath  string `json:"file_path"`
	SizeBytes *int64 `json:"size_bytes,omitempty"`
	LineCount *int64 `json:"line_count,omitempty"`
	Language  string `json:"language,omitempty"`
}

// Entry is a normalized tracked file. Path is the identity key.
type Entry struct {
	Path     string `json:"path"`
	Bytes    int64  `json:"bytes"`
	Lines    int64  `json:"lines"`
	Language string `json:"language"`
}

// Issue records a malformed row that was repaired or dropped.
type Issue struct {
	Index  int
	Path   string
	Reason string
}

func (i Issue) String() string {
	return fmt.Sprintf("row %d %q: %s", i.Index, i.Path, i.Reason)
}

// Int64 is a small helper for building Raw rows.
func Int64(v int64) *int64 {
	return &v
}

// Normalize converts raw rows into entries. Rows without a path are dropped,
// missing or non-positive metrics are floored to 1, and a repeated path keeps
// its last occurrence at the position of the first. Order is otherwise
// preserved.
func Normalize(rows []Raw) ([]Entry, []Issue) {
	var issues []Issue
	entries := make([]Entry, 0, len(rows))
	seen := make(map[string]int, len(rows))
	for i, row := range rows {
		p := CleanPath(row.FilePath)
		if p == "" {
			issues = append(issues, Issue{Index: i, Path: row.FilePath, Reason: "missing path"})
			continue
		}
		e := Entry{Path: p, Language: strings.TrimSpace(row.Language)}
		e.Bytes = floor(row.SizeBytes)
		e.Lines = floor(row.LineCount)
		if row.SizeBytes == nil || row.LineCount == nil {
			issues = append(issues, Issue{Index: i, Path: p, Reason: "missing size metric"})
		}
		if e.Language == "" && !IsFolderMarker(p) {
			e.Language = DetectLanguage(p)
		}
		if idx, ok := seen[p]; ok {
			issues = append(issues, Issue{Index: i, Path: p, Reason: "duplicate path"})
			entries[idx] = e
			continue
		}
		seen[p] = len(entries)
		entries = append(entries, e)
	}
	return entries, issues
}

// Raws converts entries back to wire rows.
func Raws(entries []Entry) []Raw {
	out := make([]Raw, 0, len(entries))
	for _, e := range entries {
		out = append(out, Raw{
			FilePath:  e.Path,
			SizeBytes: Int64(e.Bytes),
			LineCount: Int64(e.Lines),
			Language:  e.Language,
		})
	}
	return out
}

func floor(v *int64) int64 {
	if v == nil || *v <= 0 {
		return 1
	}
	return *v
}

// CleanPath trims whitespace and leading slashes and collapses repeated
// separators. A trailing slash is kept since it marks an empty folder.
func CleanPath(p string) string {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	if p == "" {
		return ""
	}
	marker := strings.HasSuffix(p, "/")
	p = strings.TrimLeft(path.Clean("/"+p), "/")
	if p == "" || p == "." {
		return ""
	}
	if marker {
		p += "/"
	}
	return p
}

// IsFolderMarker reports whether p declares an empty folder.
func IsFolderMarker(p string) bool {
	return strings.HasSuffix(p, "/")
}

// Base returns the last segment of p.
func Base(p string) string {
	p = strings.TrimSuffix(p, "/")
	if idx := strings.LastIndex(p, "/"); idx >= 0 {
		return p[idx+1:]
	}
	return p
}

// Parent returns the folder path containing p, or "" for root entries.
func Parent(p string) string {
	p = strings.TrimSuffix(p, "/")
	if idx := strings.LastIndex(p, "/"); idx >= 0 {
		return p[:idx]
	}
	return ""
}
