// Package export writes the files of a manifest at an instant to disk.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"tableflip.dev/codecanvas/pkg/index"
	"tableflip.dev/codecanvas/pkg/manifest"
)

// DefaultWorkers bounds concurrent content fetches.
const DefaultWorkers = 4

// Result summarizes a snapshot.
type Result struct {
	Dir     string     `json:"dir"`
	AsOf    *time.Time `json:"as_of,omitempty"`
	Files   int        `json:"files"`
	Folders int        `json:"folders"`
	Bytes   int64      `json:"bytes"`
	Missing []string   `json:"missing,omitempty"`
}

// Snapshot fetches the manifest valid at asOf and writes every file's
// content under dir. Paths that vanished between the manifest and the
// content fetch are reported in Missing rather than failing the snapshot.
func Snapshot(ctx context.Context, svc index.Service, asOf *time.Time, dir string, workers int) (Result, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	res := Result{Dir: dir, AsOf: asOf}
	rows, err := svc.Manifest(ctx, asOf)
	if err != nil {
		return res, fmt.Errorf("export: manifest: %w", err)
	}
	entries, _ := manifest.Normalize(rows)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return res, fmt.Errorf("export: ensure %s: %w", dir, err)
	}

	var (
		written int64
		files   int64
		missing = make([]string, len(entries))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, e := range entries {
		i, e := i, e
		target, err := destination(dir, e.Path)
		if err != nil {
			return res, err
		}
		if manifest.IsFolderMarker(e.Path) {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return res, fmt.Errorf("export: ensure %s: %w", target, err)
			}
			res.Folders++
			continue
		}
		g.Go(func() error {
			c, err := svc.Content(gctx, e.Path, asOf)
			if errors.Is(err, index.ErrNotFound) {
				missing[i] = e.Path
				return nil
			}
			if err != nil {
				return fmt.Errorf("export: content %s: %w", e.Path, err)
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("export: ensure %s: %w", filepath.Dir(target), err)
			}
			if err := os.WriteFile(target, []byte(c.Content), 0o644); err != nil {
				return fmt.Errorf("export: write %s: %w", target, err)
			}
			atomic.AddInt64(&written, int64(len(c.Content)))
			atomic.AddInt64(&files, 1)
			return nil
		})
	}
	err = g.Wait()
	res.Files = int(files)
	res.Bytes = written
	for _, p := range missing {
		if p != "" {
			res.Missing = append(res.Missing, p)
		}
	}
	return res, err
}

// destination maps a manifest path under dir, refusing paths that escape it.
func destination(dir, p string) (string, error) {
	rel := filepath.FromSlash(strings.TrimSuffix(manifest.CleanPath(p), "/"))
	target := filepath.Join(dir, rel)
	back, err := filepath.Rel(dir, target)
	if err != nil || back == ".." || strings.HasPrefix(back, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("export: path %q escapes %s", p, dir)
	}
	return target, nil
}
