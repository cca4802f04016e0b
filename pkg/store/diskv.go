package store

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/peterbourgon/diskv/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"

	"tableflip.dev/codecanvas/pkg/index"
	"tableflip.dev/codecanvas/pkg/live"
	"tableflip.dev/codecanvas/pkg/manifest"
	"tableflip.dev/codecanvas/pkg/timeline"
)

const (
	revPrefix  = "rev"
	blobPrefix = "blob"

	// MaxFileBytes caps what the scanner records; larger files are skipped.
	MaxFileBytes = 4 << 20

	// DefaultBucket is the activity bucket width when the config has none.
	DefaultBucket = time.Hour
)

// Revision is one recorded state of a path.
type Revision struct {
	Path      string      `json:"path"`
	Action    live.Action `json:"action"`
	Timestamp time.Time   `json:"timestamp"`
	Bytes     int64       `json:"bytes,omitempty"`
	Lines     int64       `json:"lines,omitempty"`
	Language  string      `json:"language,omitempty"`
	Digest    string      `json:"digest,omitempty"`
}

// Index is a local index.Service: it records revisions of the files under a
// root directory into a diskv store and answers point-in-time queries.
type Index struct {
	d        *diskv.Diskv
	basePath string
	root     string
	bucket   time.Duration
	log      logrus.FieldLogger

	// mu serializes read-modify-write of revision lists.
	mu sync.Mutex
}

var _ index.Service = (*Index)(nil)

// Load opens the index described by cfg.
func Load(cfg Config, log logrus.FieldLogger) (*Index, error) {
	if cfg == nil {
		return nil, errors.New("store: config required")
	}
	basePath, err := homedir.Expand(cfg.BasePath())
	if err != nil {
		return nil, fmt.Errorf("store: expand base path: %w", err)
	}
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	root, err := homedir.Expand(cfg.Root())
	if err != nil {
		return nil, fmt.Errorf("store: expand root: %w", err)
	}
	if root == "" {
		root = "."
	}
	if root, err = filepath.Abs(root); err != nil {
		return nil, fmt.Errorf("store: resolve root: %w", err)
	}
	bucket := cfg.Bucket()
	if bucket <= 0 {
		bucket = DefaultBucket
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Index{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      1024 * 1024, // 1MB
		}),
		basePath: basePath,
		root:     root,
		bucket:   bucket,
		log:      log.WithField("component", "store"),
	}, nil
}

// Root is the absolute directory being indexed.
func (p *Index) Root() string {
	return p.root
}

// History returns every recorded revision of path, oldest first.
func (p *Index) History(path string) ([]Revision, error) {
	return p.revisions(revKey(manifest.CleanPath(path)))
}

func (p *Index) revisions(key string) ([]Revision, error) {
	val, err := p.d.Read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var revs []Revision
	if err := json.Unmarshal(val, &revs); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", key, err)
	}
	return revs, nil
}

// histories returns the revision list of every recorded path, ordered by
// path. Keys are digests, so the path comes from the revisions themselves.
func (p *Index) histories(ctx context.Context) ([][]Revision, error) {
	walk, stop := context.WithCancel(ctx)
	defer stop()
	var out [][]Revision
	for key := range p.d.KeysPrefix(revPrefix+"-", walk.Done()) {
		revs, err := p.revisions(key)
		if err != nil {
			return nil, err
		}
		if len(revs) == 0 {
			continue
		}
		out = append(out, revs)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0].Path < out[j][0].Path })
	return out, nil
}

func (p *Index) paths(ctx context.Context) []string {
	all, err := p.histories(ctx)
	if err != nil {
		p.log.WithError(err).Warn("list recorded paths")
	}
	out := make([]string, 0, len(all))
	for _, revs := range all {
		out = append(out, revs[0].Path)
	}
	return out
}

// at returns the revision in effect at asOf; nil asOf means the latest.
func at(revs []Revision, asOf *time.Time) (Revision, bool) {
	for i := len(revs) - 1; i >= 0; i-- {
		if asOf == nil || !revs[i].Timestamp.After(*asOf) {
			return revs[i], true
		}
	}
	return Revision{}, false
}

// Manifest implements index.Service.
func (p *Index) Manifest(ctx context.Context, asOf *time.Time) ([]manifest.Raw, error) {
	all, err := p.histories(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]manifest.Raw, 0, len(all))
	for _, revs := range all {
		rev, ok := at(revs, asOf)
		if !ok || rev.Action == live.Deleted {
			continue
		}
		rows = append(rows, manifest.Raw{
			FilePath:  rev.Path,
			SizeBytes: manifest.Int64(rev.Bytes),
			LineCount: manifest.Int64(rev.Lines),
			Language:  rev.Language,
		})
	}
	return rows, nil
}

// Content implements index.Service.
func (p *Index) Content(_ context.Context, rel string, asOf *time.Time) (index.Content, error) {
	rel = manifest.CleanPath(rel)
	revs, err := p.revisions(revKey(rel))
	if err != nil {
		return index.Content{}, err
	}
	rev, ok := at(revs, asOf)
	if !ok || rev.Action == live.Deleted || rev.Digest == "" {
		return index.Content{}, index.ErrNotFound
	}
	body, err := p.d.Read(blobKey(rev.Digest))
	if err != nil {
		return index.Content{}, fmt.Errorf("store: read blob for %s: %w", rel, err)
	}
	return index.Content{Path: rel, Content: string(body), Language: rev.Language}, nil
}

// Activity implements index.Service.
func (p *Index) Activity(ctx context.Context) (timeline.Summary, error) {
	all, err := p.histories(ctx)
	if err != nil {
		return timeline.Summary{}, err
	}
	var stamps []time.Time
	for _, revs := range all {
		for _, r := range revs {
			stamps = append(stamps, r.Timestamp)
		}
	}
	if len(stamps) == 0 {
		now := time.Now().UTC()
		return timeline.Summary{Min: now, Max: now}, nil
	}
	sort.Slice(stamps, func(i, j int) bool { return stamps[i].Before(stamps[j]) })
	return timeline.Summary{
		Min:    stamps[0],
		Max:    stamps[len(stamps)-1],
		Series: timeline.Bucket(stamps, p.bucket),
	}, nil
}

// Save writes content to path under the root and records the revision.
func (p *Index) Save(_ context.Context, rel string, content string) error {
	rel, err := p.relative(rel)
	if err != nil {
		return err
	}
	abs := filepath.Join(p.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("store: ensure directory: %w", err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", rel, err)
	}
	_, _, err = p.Record(rel, []byte(content), time.Now())
	return err
}

// relative validates a client-supplied path and keeps it inside the root.
func (p *Index) relative(raw string) (string, error) {
	slashed := filepath.ToSlash(strings.TrimSpace(raw))
	if path.IsAbs(slashed) || filepath.IsAbs(raw) {
		return "", fmt.Errorf("store: path %q escapes root", raw)
	}
	for _, part := range strings.Split(slashed, "/") {
		if part == ".." {
			return "", fmt.Errorf("store: path %q escapes root", raw)
		}
	}
	rel := manifest.CleanPath(slashed)
	if rel == "" || manifest.IsFolderMarker(rel) {
		return "", fmt.Errorf("store: invalid path %q", raw)
	}
	return rel, nil
}

// Record stores content as the newest revision of rel. It reports the
// resulting change, or false when the content is unchanged.
func (p *Index) Record(rel string, content []byte, ts time.Time) (live.Event, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := revKey(rel)
	revs, err := p.revisions(key)
	if err != nil {
		return live.Event{}, false, err
	}
	sum := blake2b.Sum256(content)
	digest := hex.EncodeToString(sum[:])

	action := live.Added
	if last, ok := at(revs, nil); ok {
		if last.Action != live.Deleted {
			if last.Digest == digest {
				return live.Event{}, false, nil
			}
			action = live.Updated
		}
	}
	if !p.d.Has(blobKey(digest)) {
		if err := p.d.Write(blobKey(digest), content); err != nil {
			return live.Event{}, false, fmt.Errorf("store: write blob: %w", err)
		}
	}
	rev := Revision{
		Path:      rel,
		Action:    action,
		Timestamp: monotonic(revs, ts),
		Bytes:     int64(len(content)),
		Lines:     countLines(content),
		Language:  manifest.DetectLanguage(rel),
		Digest:    digest,
	}
	if err := p.append(key, revs, rev); err != nil {
		return live.Event{}, false, err
	}
	return live.Event{Path: rel, Action: action, Timestamp: rev.Timestamp}, true, nil
}

// Forget records the deletion of rel, or reports false when it is not live.
func (p *Index) Forget(rel string, ts time.Time) (live.Event, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := revKey(rel)
	revs, err := p.revisions(key)
	if err != nil {
		return live.Event{}, false, err
	}
	last, ok := at(revs, nil)
	if !ok || last.Action == live.Deleted {
		return live.Event{}, false, nil
	}
	rev := Revision{Path: rel, Action: live.Deleted, Timestamp: monotonic(revs, ts)}
	if err := p.append(key, revs, rev); err != nil {
		return live.Event{}, false, err
	}
	return live.Event{Path: rel, Action: live.Deleted, Timestamp: rev.Timestamp}, true, nil
}

func (p *Index) append(key string, revs []Revision, rev Revision) error {
	data, err := json.Marshal(append(revs, rev))
	if err != nil {
		return err
	}
	if err := p.d.Write(key, data); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

// monotonic keeps per-path timestamps strictly increasing at millisecond
// resolution, which the change feed relies on.
func monotonic(revs []Revision, ts time.Time) time.Time {
	ts = ts.UTC().Truncate(time.Millisecond)
	if last, ok := at(revs, nil); ok && !ts.After(last.Timestamp) {
		ts = last.Timestamp.Add(time.Millisecond)
	}
	return ts
}

func countLines(b []byte) int64 {
	if len(b) == 0 {
		return 0
	}
	n := int64(bytes.Count(b, []byte{'\n'}))
	if b[len(b)-1] != '\n' {
		n++
	}
	return n
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// revKey makes `rev-<digest of the path>`. Digests keep file names short
// however deep the tracked path is.
func revKey(rel string) string {
	sum := blake2b.Sum256([]byte(rel))
	return fmt.Sprintf("%s-%s", revPrefix, hex.EncodeToString(sum[:]))
}

// blobKey makes `blob-<digest>`
func blobKey(digest string) string {
	return fmt.Sprintf("%s-%s", blobPrefix, digest)
}
