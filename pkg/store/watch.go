package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"tableflip.dev/codecanvas/pkg/live"
)

// ScanReport summarizes one pass over the root.
type ScanReport struct {
	Added     int
	Updated   int
	Deleted   int
	Unchanged int
	Skipped   int
	Changes   []live.Event
}

func (r *ScanReport) add(ev live.Event) {
	switch ev.Action {
	case live.Added:
		r.Added++
	case live.Updated:
		r.Updated++
	case live.Deleted:
		r.Deleted++
	}
	r.Changes = append(r.Changes, ev)
}

// Scan walks the root, records every new or changed file, and records a
// deletion for every tracked path that is gone.
func (p *Index) Scan(ctx context.Context) (ScanReport, error) {
	var report ScanReport
	seen := make(map[string]struct{})
	err := p.walk(ctx, p.root, func(rel, abs string) error {
		seen[rel] = struct{}{}
		ev, changed, skipped, err := p.recordFile(rel, abs)
		switch {
		case err != nil:
			return err
		case skipped:
			report.Skipped++
		case changed:
			report.add(ev)
		default:
			report.Unchanged++
		}
		return nil
	})
	if err != nil {
		return report, err
	}

	now := time.Now()
	for _, rel := range p.paths(ctx) {
		if _, ok := seen[rel]; ok {
			continue
		}
		ev, changed, err := p.Forget(rel, now)
		if err != nil {
			return report, err
		}
		if changed {
			report.add(ev)
		}
	}
	p.log.WithField("root", p.root).WithField("added", report.Added).
		WithField("updated", report.Updated).WithField("deleted", report.Deleted).Info("scan complete")
	return report, ctx.Err()
}

// walk visits the regular files under dir, skipping hidden directories and
// the store itself.
func (p *Index) walk(ctx context.Context, dir string, fn func(rel, abs string) error) error {
	return filepath.WalkDir(dir, func(abs string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if abs != p.root && p.skipDir(abs, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, ok := p.relFor(abs)
		if !ok {
			return nil
		}
		return fn(rel, abs)
	})
}

func (p *Index) skipDir(abs, name string) bool {
	return strings.HasPrefix(name, ".") || filepath.Clean(abs) == filepath.Clean(p.basePath)
}

// relFor maps an absolute path to its slash-separated path under the root.
func (p *Index) relFor(abs string) (string, bool) {
	rel, err := filepath.Rel(p.root, abs)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") {
			return "", false
		}
	}
	if base := filepath.Clean(p.basePath); abs == base || strings.HasPrefix(abs, base+string(os.PathSeparator)) {
		return "", false
	}
	return rel, true
}

func (p *Index) recordFile(rel, abs string) (ev live.Event, changed, skipped bool, err error) {
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			ev, changed, err = p.Forget(rel, time.Now())
			return ev, changed, false, err
		}
		return live.Event{}, false, false, err
	}
	if info.Size() > MaxFileBytes {
		return live.Event{}, false, true, nil
	}
	body, err := os.ReadFile(abs)
	if err != nil {
		return live.Event{}, false, false, fmt.Errorf("store: read %s: %w", rel, err)
	}
	if binary(body) {
		return live.Event{}, false, true, nil
	}
	ev, changed, err = p.Record(rel, body, info.ModTime())
	return ev, changed, false, err
}

func binary(b []byte) bool {
	if len(b) > 8000 {
		b = b[:8000]
	}
	return bytes.IndexByte(b, 0) >= 0
}

// Watch streams change events for the root until ctx is cancelled. Every
// event is recorded as a revision before it is delivered. The channel is
// closed once ctx is done or the watcher fails.
func (p *Index) Watch(ctx context.Context) (<-chan live.Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}

	dirs, err := p.collectDirs(ctx, p.root)
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("store: enumerate directories: %w", err)
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("store: watch %s: %w", dir, err)
		}
	}

	events := make(chan live.Event, 64)

	go func() {
		defer close(events)
		defer func() {
			if err := watcher.Close(); err != nil {
				p.log.WithError(err).Warn("watcher close")
			}
		}()

		watched := make(map[string]struct{}, len(dirs))
		for _, dir := range dirs {
			watched[dir] = struct{}{}
		}

		send := func(ev live.Event) bool {
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				p.log.WithError(err).Warn("watcher error")
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op&fsnotify.Create == fsnotify.Create {
					if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
						abs := filepath.Clean(evt.Name)
						if p.skipDir(abs, info.Name()) {
							continue
						}
						if _, found := watched[abs]; !found {
							if err := watcher.Add(abs); err != nil {
								p.log.WithError(err).WithField("dir", abs).Warn("watch directory")
							} else {
								watched[abs] = struct{}{}
							}
						}
					}
				}
				if rel, ok := p.relFor(filepath.Clean(evt.Name)); ok {
					throttle.Enqueue(rel)
				}
			case <-throttle.C():
				for _, rel := range throttle.Drain() {
					for _, ev := range p.sync(ctx, rel) {
						if !send(ev) {
							return
						}
					}
				}
			}
		}
	}()

	return events, nil
}

// sync reconciles the recorded state of rel with the filesystem.
func (p *Index) sync(ctx context.Context, rel string) []live.Event {
	abs := filepath.Join(p.root, filepath.FromSlash(rel))
	info, err := os.Stat(abs)
	var out []live.Event
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// The path may have been a directory; forget everything beneath it.
		now := time.Now()
		for _, tracked := range p.paths(ctx) {
			if tracked != rel && !strings.HasPrefix(tracked, rel+"/") {
				continue
			}
			if ev, changed, err := p.Forget(tracked, now); err != nil {
				p.log.WithError(err).WithField("path", tracked).Warn("record deletion")
			} else if changed {
				out = append(out, ev)
			}
		}
	case err != nil:
		p.log.WithError(err).WithField("path", rel).Warn("stat")
	case info.IsDir():
		// Files created before the directory watch was added only show up here.
		_ = p.walk(ctx, abs, func(child, childAbs string) error {
			if ev, changed, _, err := p.recordFile(child, childAbs); err != nil {
				p.log.WithError(err).WithField("path", child).Warn("record")
			} else if changed {
				out = append(out, ev)
			}
			return nil
		})
	case info.Mode().IsRegular():
		if ev, changed, _, err := p.recordFile(rel, abs); err != nil {
			p.log.WithError(err).WithField("path", rel).Warn("record")
		} else if changed {
			out = append(out, ev)
		}
	}
	return out
}

// collectDirs walks base and returns all directories that should be watched.
func (p *Index) collectDirs(ctx context.Context, base string) ([]string, error) {
	dirs := []string{filepath.Clean(base)}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() && path != base {
			if p.skipDir(path, d.Name()) {
				return filepath.SkipDir
			}
			dirs = append(dirs, filepath.Clean(path))
		}
		return nil
	})
	return dirs, err
}

// eventThrottle coalesces rapid change notifications per path so a burst of
// writes is recorded once.
type eventThrottle struct {
	delay   time.Duration
	pending map[string]struct{}
	timer   *time.Timer
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[string]struct{}),
	}
}

func (t *eventThrottle) Enqueue(path string) {
	t.pending[path] = struct{}{}
	if t.timer == nil {
		t.timer = time.NewTimer(t.delay)
	}
}

// C fires once the current burst has settled; it is nil while idle.
func (t *eventThrottle) C() <-chan time.Time {
	if t.timer == nil {
		return nil
	}
	return t.timer.C
}

// Drain returns the pending paths in order and resets the throttle.
func (t *eventThrottle) Drain() []string {
	paths := make([]string, 0, len(t.pending))
	for p := range t.pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	t.pending = make(map[string]struct{})
	t.timer = nil
	return paths
}

func (t *eventThrottle) Stop() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
