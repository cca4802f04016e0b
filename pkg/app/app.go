// Package app holds the index-backed queries shared by the non-interactive
// commands.
package app

import (
	"context"
	"errors"
	"sort"
	"time"

	"tableflip.dev/codecanvas/pkg/index"
	"tableflip.dev/codecanvas/pkg/manifest"
)

// Service answers questions about the tracked tree through an index.
type Service struct {
	Index index.Service
}

// FolderStat totals the files below one top-level folder.
type FolderStat struct {
	Folder string `json:"folder"`
	Files  int    `json:"files"`
	Bytes  int64  `json:"bytes"`
	Lines  int64  `json:"lines"`
}

// Stats summarizes a manifest.
type Stats struct {
	AsOf     *time.Time       `json:"as_of,omitempty"`
	Files    int              `json:"files"`
	Folders  int              `json:"folders"`
	Bytes    int64            `json:"bytes"`
	Lines    int64            `json:"lines"`
	ByLines  []manifest.Share `json:"by_lines"`
	ByBytes  []manifest.Share `json:"by_bytes"`
	Top      []FolderStat     `json:"top"`
	Largest  []manifest.Entry `json:"largest"`
	Problems []string         `json:"problems,omitempty"`
}

func (s *Service) entries(ctx context.Context, asOf *time.Time) ([]manifest.Entry, []manifest.Issue, error) {
	if s.Index == nil {
		return nil, nil, errors.New("app: index is not configured")
	}
	rows, err := s.Index.Manifest(ctx, asOf)
	if err != nil {
		return nil, nil, err
	}
	entries, issues := manifest.Normalize(rows)
	return entries, issues, nil
}

// Stats totals the manifest at asOf. largest bounds the file ranking.
func (s *Service) Stats(ctx context.Context, asOf *time.Time, largest int) (Stats, error) {
	entries, issues, err := s.entries(ctx, asOf)
	if err != nil {
		return Stats{}, err
	}
	out := Stats{
		AsOf:    asOf,
		ByLines: manifest.Composition(entries, true),
		ByBytes: manifest.Composition(entries, false),
	}
	for _, issue := range issues {
		out.Problems = append(out.Problems, issue.String())
	}

	tree := manifest.BuildTree(entries)
	tree.Walk(func(f *manifest.Folder) {
		if f.Path != "" {
			out.Folders++
		}
	})

	top := make(map[string]*FolderStat)
	var files []manifest.Entry
	for _, e := range entries {
		if manifest.IsFolderMarker(e.Path) {
			continue
		}
		files = append(files, e)
		out.Files++
		out.Bytes += e.Bytes
		out.Lines += e.Lines

		name := topFolder(e.Path)
		fs, ok := top[name]
		if !ok {
			fs = &FolderStat{Folder: name}
			top[name] = fs
		}
		fs.Files++
		fs.Bytes += e.Bytes
		fs.Lines += e.Lines
	}

	out.Top = make([]FolderStat, 0, len(top))
	for _, fs := range top {
		out.Top = append(out.Top, *fs)
	}
	sort.Slice(out.Top, func(i, j int) bool {
		if out.Top[i].Lines == out.Top[j].Lines {
			return out.Top[i].Folder < out.Top[j].Folder
		}
		return out.Top[i].Lines > out.Top[j].Lines
	})

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Lines > files[j].Lines
	})
	if largest >= 0 && len(files) > largest {
		files = files[:largest]
	}
	out.Largest = files
	return out, nil
}

// topFolder is the first path segment, or "." for files at the root.
func topFolder(p string) string {
	for i := 0; i < len(p); i++ {
		if p[i] == '/' {
			return p[:i]
		}
	}
	return "."
}
