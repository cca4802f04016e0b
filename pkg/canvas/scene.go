// Package canvas owns the scene: the manifest being shown, its layout, the
// loaded content, the camera and the temporal and live controllers. It is
// mutated from a single loop; every fetch result comes back through an
// Apply method carrying the generation it was issued for.
package canvas

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"tableflip.dev/codecanvas/pkg/index"
	"tableflip.dev/codecanvas/pkg/layout"
	"tableflip.dev/codecanvas/pkg/live"
	"tableflip.dev/codecanvas/pkg/manifest"
	"tableflip.dev/codecanvas/pkg/timeline"
	"tableflip.dev/codecanvas/pkg/viewport"
)

// Options configures a new Scene.
type Options struct {
	Mode   layout.Mode
	Metric layout.Metric
	Follow bool

	// Width and Height are the viewport size in world units at scale 1.
	Width  float64
	Height float64
	// Bias shifts fly-to targets horizontally to clear side chrome.
	Bias float64

	Log logrus.FieldLogger
	// Now overrides the clock used to start animations.
	Now func() time.Time
}

// Body is loaded file content.
type Body struct {
	Content  string
	Language string
}

// Scene is the single owned state object behind the canvas.
type Scene struct {
	camera   *viewport.Camera
	timeline *timeline.Controller
	recon    *live.Reconciler

	mode   layout.Mode
	metric layout.Metric
	follow bool
	bias   float64

	entries     []manifest.Entry
	byPath      map[string]int
	result      layout.Result
	content     map[string]Body
	composition []manifest.Share
	issues      []manifest.Issue

	// build is the generation of the applied manifest; content results for
	// any other generation are stale.
	build   uint64
	shownAt *time.Time
	loaded  bool

	selected     string
	pendingFocus string
	// pendingFrame re-frames the camera once the next manifest lands.
	pendingFrame bool

	// OnContent is called whenever a file's content is replaced.
	OnContent func(path, content, language string)

	log logrus.FieldLogger
	now func() time.Time
}

var _ live.View = (*Scene)(nil)

// New returns an empty live scene.
func New(opts Options) *Scene {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Scene{
		camera:   viewport.New(opts.Width, opts.Height),
		timeline: timeline.NewController(),
		recon:    live.NewReconciler(),
		mode:     opts.Mode,
		metric:   opts.Metric,
		follow:   opts.Follow,
		bias:     opts.Bias,
		content:  make(map[string]Body),
		log:      log.WithField("component", "canvas"),
		now:      now,
	}
	s.result = layout.Compute(nil, s.mode, s.metric)
	return s
}

// Camera exposes the viewport. Callers own its interaction methods.
func (s *Scene) Camera() *viewport.Camera {
	return s.camera
}

// Mode returns the layout mode.
func (s *Scene) Mode() layout.Mode {
	return s.mode
}

// Metric returns the sizing metric.
func (s *Scene) Metric() layout.Metric {
	return s.metric
}

// Follow implements live.View.
func (s *Scene) Follow() bool {
	return s.follow
}

// SetFollow turns follow mode on or off.
func (s *Scene) SetFollow(on bool) {
	s.follow = on
}

// SetBias updates the fly-to horizontal bias.
func (s *Scene) SetBias(bias float64) {
	s.bias = bias
}

// SetLayout switches the layout mode and recomputes rects from the current
// manifest. Loaded content is kept.
func (s *Scene) SetLayout(mode layout.Mode) bool {
	if mode == s.mode {
		return false
	}
	s.mode = mode
	s.relayout()
	return true
}

// SetMetric switches the sizing metric.
func (s *Scene) SetMetric(metric layout.Metric) bool {
	if metric == s.metric {
		return false
	}
	s.metric = metric
	s.relayout()
	return true
}

func (s *Scene) relayout() {
	s.result = layout.Compute(s.entries, s.mode, s.metric)
	s.composition = manifest.Composition(s.entries, s.metric == layout.Lines)
	s.log.WithFields(logrus.Fields{
		"mode":   s.mode.String(),
		"metric": s.metric.String(),
		"rects":  s.result.Len(),
	}).Debug("layout computed")
}

// Timeline returns the temporal state.
func (s *Scene) Timeline() timeline.State {
	return s.timeline.State()
}

// Position returns the scrub position.
func (s *Scene) Position() int {
	return s.timeline.Position()
}

// Generation returns the newest issued manifest generation.
func (s *Scene) Generation() uint64 {
	return s.timeline.Generation()
}

// Build returns the generation of the manifest on screen.
func (s *Scene) Build() uint64 {
	return s.build
}

// Live implements live.View.
func (s *Scene) Live() bool {
	return s.timeline.Live()
}

// AsOf returns the instant requested, or nil when live.
func (s *Scene) AsOf() *time.Time {
	return s.timeline.AsOf()
}

// ShownAt returns the instant of the manifest on screen, or nil when live.
// Content fetches for the current build use it.
func (s *Scene) ShownAt() *time.Time {
	if s.shownAt == nil {
		return nil
	}
	ts := *s.shownAt
	return &ts
}

// Current reports whether gen is the newest manifest request.
func (s *Scene) Current(gen uint64) bool {
	return s.timeline.Current(gen)
}

// Scrub moves the temporal control. A returned request must be fetched and
// its result handed to ApplyManifest.
func (s *Scene) Scrub(pos int) (timeline.Request, bool) {
	return s.timeline.Scrub(pos)
}

// GoLive returns to the present and flies to the selection, or to the whole
// layout when nothing is selected. When a live manifest has to be fetched the
// flight is repeated against its layout.
func (s *Scene) GoLive() (timeline.Request, bool) {
	req, changed := s.timeline.GoLive()
	s.frame()
	if changed {
		s.pendingFrame = true
	}
	return req, changed
}

func (s *Scene) frame() bool {
	if s.selected != "" && s.Focus(s.selected) {
		return true
	}
	return s.FitAll()
}

// Refresh requests a rebuild of the instant already shown.
func (s *Scene) Refresh() timeline.Request {
	return s.timeline.Refresh()
}

// ApplyActivity updates the scrub range and histogram.
func (s *Scene) ApplyActivity(summary timeline.Summary) {
	s.timeline.SetSummary(summary)
}

// ApplyManifest replaces the manifest with the result of request gen and
// recomputes the layout. It returns the files that need content, visible
// ones first, or ErrStaleResponse when gen was superseded.
func (s *Scene) ApplyManifest(gen uint64, rows []manifest.Raw) ([]string, error) {
	if !s.timeline.Current(gen) {
		return nil, ErrStaleResponse
	}
	entries, issues := manifest.Normalize(rows)
	for _, issue := range issues {
		s.log.WithField("generation", gen).Warn(issue.String())
	}

	asOf := s.timeline.AsOf()
	if !s.loaded || !sameInstant(asOf, s.shownAt) {
		s.content = make(map[string]Body)
	}
	keep := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		keep[e.Path] = struct{}{}
	}
	for p := range s.content {
		if _, ok := keep[p]; !ok {
			delete(s.content, p)
		}
	}

	s.entries = entries
	s.byPath = make(map[string]int, len(entries))
	for i, e := range entries {
		s.byPath[e.Path] = i
	}
	s.issues = issues
	s.build = gen
	s.shownAt = asOf
	s.loaded = true
	s.relayout()
	if asOf == nil {
		s.recon.Prune(s.Rendered)
	}

	if _, ok := s.result.Rect(s.selected); !ok {
		s.selected = ""
	}
	path, reframe := s.pendingFocus, s.pendingFrame
	s.pendingFocus, s.pendingFrame = "", false
	switch {
	case path != "" && s.Focus(path):
	case reframe:
		s.frame()
	}

	s.log.WithFields(logrus.Fields{
		"generation": gen,
		"entries":    len(entries),
		"live":       asOf == nil,
	}).Info("manifest applied")
	return s.missing(), nil
}

// missing lists files without content, visible first, then layout order.
func (s *Scene) missing() []string {
	var visible, hidden []string
	for _, r := range s.result.Files() {
		if _, ok := s.content[r.ID]; ok {
			continue
		}
		if s.camera.Visible(r) {
			visible = append(visible, r.ID)
		} else {
			hidden = append(hidden, r.ID)
		}
	}
	return append(visible, hidden...)
}

// VisibleFiles lists the rendered files currently on screen.
func (s *Scene) VisibleFiles() []string {
	var out []string
	for _, r := range s.result.Files() {
		if s.camera.Visible(r) {
			out = append(out, r.ID)
		}
	}
	return out
}

// ApplyContent stores content fetched for the manifest of generation gen.
func (s *Scene) ApplyContent(gen uint64, c index.Content) error {
	if gen != s.build {
		return ErrStaleResponse
	}
	if _, ok := s.result.Rect(c.Path); !ok {
		return ErrStaleResponse
	}
	lang := c.Language
	if lang == "" {
		lang = s.language(c.Path)
	}
	s.content[c.Path] = Body{Content: c.Content, Language: lang}
	if s.OnContent != nil {
		s.OnContent(c.Path, c.Content, lang)
	}
	return nil
}

func (s *Scene) language(path string) string {
	if e, ok := s.Entry(path); ok {
		return e.Language
	}
	return manifest.DetectLanguage(path)
}

// Entry returns the manifest entry of path.
func (s *Scene) Entry(path string) (manifest.Entry, bool) {
	i, ok := s.byPath[path]
	if !ok {
		return manifest.Entry{}, false
	}
	return s.entries[i], true
}

// HandleChange reconciles one change event. Fetches the effects call for
// are left to the caller; camera moves happen here.
func (s *Scene) HandleChange(ev live.Event) live.Effects {
	ev.Path = manifest.CleanPath(ev.Path)
	fx := s.recon.Handle(ev, s)
	if fx.Duplicate {
		s.log.WithField("path", ev.Path).Debug("duplicate change dropped")
		return fx
	}
	if fx.Focus {
		if s.Rendered(ev.Path) && !fx.Rebuild {
			s.Focus(ev.Path)
		} else {
			s.pendingFocus = ev.Path
		}
	}
	return fx
}

// Log returns the recent changes, newest first.
func (s *Scene) Log() []live.Event {
	return s.recon.Log().Items()
}

// Focus flies the camera to path and selects it.
func (s *Scene) Focus(path string) bool {
	r, ok := s.result.Rect(path)
	if !ok {
		return false
	}
	s.selected = path
	return s.camera.FlyTo(r, viewport.FlyOptions{Bias: s.bias}, s.now())
}

// FitAll flies the camera to show the whole layout.
func (s *Scene) FitAll() bool {
	if s.result.Len() == 0 {
		return false
	}
	return s.camera.FlyTo(s.result.Bounds(), viewport.FlyOptions{Bias: s.bias}, s.now())
}

// Select marks path as the selection without moving the camera.
func (s *Scene) Select(path string) bool {
	if _, ok := s.result.Rect(path); !ok {
		return false
	}
	s.selected = path
	return true
}

// Selected returns the selected path.
func (s *Scene) Selected() string {
	return s.selected
}

// PointerDown starts a drag. It returns ErrAnimationInterrupted when a
// fly-to was cut short.
func (s *Scene) PointerDown(sx, sy float64) error {
	if s.camera.PointerDown(sx, sy) {
		return ErrAnimationInterrupted
	}
	return nil
}

// Tick advances camera animation and reports whether it is still running.
func (s *Scene) Tick(now time.Time) bool {
	return s.camera.Tick(now)
}

// HitTest returns the rect under a screen point.
func (s *Scene) HitTest(sx, sy float64) (layout.Rect, bool) {
	wx, wy := s.camera.Transform().ToWorld(sx, sy)
	return s.result.HitTest(wx, wy)
}

// Rect returns the stable rect of path.
func (s *Scene) Rect(path string) (layout.Rect, bool) {
	return s.result.Rect(path)
}

// Rendered implements live.View: only files count.
func (s *Scene) Rendered(path string) bool {
	r, ok := s.result.Rect(path)
	return ok && r.Kind == layout.KindFile
}

// Layout returns the computed layout.
func (s *Scene) Layout() layout.Result {
	return s.result
}

// Entries returns the normalized manifest.
func (s *Scene) Entries() []manifest.Entry {
	return append([]manifest.Entry(nil), s.entries...)
}

// Issues returns the warnings raised by the last manifest.
func (s *Scene) Issues() []manifest.Issue {
	return append([]manifest.Issue(nil), s.issues...)
}

// Composition returns the language shares of the manifest.
func (s *Scene) Composition() []manifest.Share {
	return s.composition
}

// Content returns the loaded content of path.
func (s *Scene) Content(path string) (Body, bool) {
	b, ok := s.content[path]
	return b, ok
}

// Loaded reports how many files have content.
func (s *Scene) Loaded() int {
	return len(s.content)
}

// Paths returns every rendered file path, sorted.
func (s *Scene) Paths() []string {
	files := s.result.Files()
	out := make([]string, 0, len(files))
	for _, r := range files {
		out = append(out, r.ID)
	}
	sort.Strings(out)
	return out
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
