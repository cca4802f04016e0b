// Package teaui hosts the Bubble Tea program for the codecanvas TUI.
package teaui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"
	"github.com/sirupsen/logrus"

	"tableflip.dev/codecanvas/pkg/canvas"
	"tableflip.dev/codecanvas/pkg/export"
	"tableflip.dev/codecanvas/pkg/index"
	"tableflip.dev/codecanvas/pkg/layout"
	"tableflip.dev/codecanvas/pkg/live"
	"tableflip.dev/codecanvas/pkg/manifest"
	"tableflip.dev/codecanvas/pkg/timeline"
	"tableflip.dev/codecanvas/pkg/tui/components/bottombar"
	"tableflip.dev/codecanvas/pkg/tui/components/help"
	"tableflip.dev/codecanvas/pkg/tui/components/panel"
	"tableflip.dev/codecanvas/pkg/tui/components/scrubber"
	"tableflip.dev/codecanvas/pkg/tui/components/surface"
	"tableflip.dev/codecanvas/pkg/tui/theme"
	"tableflip.dev/codecanvas/pkg/viewport"
)

const (
	frameInterval = time.Second / 60
	watchRetry    = time.Second

	// sidebarWidth is the activity panel overlaid on the right edge.
	sidebarWidth   = 34
	minSidebarTerm = 72
	headerRows     = 1
	scrubberRows   = 1

	scrubStep      = 10
	scrubLargeStep = 100
	panStep        = 12 * surface.CellWidth

	headerLanguages = 3
)

const helpLine = "? help  m layout  b metric  [ ] scrub  L live  f follow  c center  d download  q quit"

// Options configures the TUI.
type Options struct {
	Mode   layout.Mode
	Metric layout.Metric
	Follow bool
	// DownloadDir receives historical snapshots; defaults to the working
	// directory.
	DownloadDir string
	Log         logrus.FieldLogger
}

type manifestLoadedMsg struct {
	req  timeline.Request
	rows []manifest.Raw
	err  error
}

type contentLoadedMsg struct {
	gen     uint64
	path    string
	content index.Content
	err     error
	// single marks an in-place refresh outside the rebuild pool.
	single bool
}

type activityLoadedMsg struct {
	summary timeline.Summary
	err     error
}

type watchStartedMsg struct {
	ch     <-chan live.Event
	cancel context.CancelFunc
	err    error
}

type watchEventMsg struct {
	event live.Event
}

type watchStoppedMsg struct{}

type watchRetryMsg struct{}

type frameMsg time.Time

type scrubSettledMsg struct {
	version uint64
}

type noticeExpiredMsg struct {
	version uint64
}

type downloadDoneMsg struct {
	result export.Result
	err    error
}

// Model is the canvas program.
type Model struct {
	svc    index.Service
	ctx    context.Context
	cancel context.CancelFunc
	log    logrus.FieldLogger

	scene    *canvas.Scene
	queue    *canvas.ContentQueue
	debounce *timeline.Debouncer

	// buildCtx scopes the content fetches of the applied manifest.
	buildCtx    context.Context
	buildCancel context.CancelFunc

	watchCh     <-chan live.Event
	watchCancel context.CancelFunc
	// resync rebuilds once the feed reconnects after dropping.
	resync bool

	activityBusy  bool
	activityDirty bool

	theme   theme.Theme
	bottom  bottombar.Model
	sidebar panel.Model
	surface *surface.Model
	scrub   scrubber.Model
	help    *help.Model

	termWidth  int
	termHeight int
	animating  bool
	fitted     bool

	dragging  bool
	dragMoved bool

	downloadDir string
	downloading bool
}

// New constructs the model. svc may be nil in tests.
func New(svc index.Service, opts Options) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	th := theme.Default()
	m := &Model{
		svc:         index.Dedupe(svc),
		ctx:         ctx,
		cancel:      cancel,
		log:         log.WithField("component", "tui"),
		queue:       canvas.NewContentQueue(canvas.DefaultFetchLimit),
		debounce:    timeline.NewDebouncer(timeline.DebounceWindow),
		theme:       th,
		bottom:      bottombar.New(th.Footer),
		sidebar:     panel.New(th.Panel),
		surface:     surface.New(th.Canvas, theme.NewPalette()),
		scrub:       scrubber.New(th.Scrubber),
		help:        help.New(th.Panel, keySections...),
		downloadDir: opts.DownloadDir,
	}
	m.scene = canvas.New(canvas.Options{
		Mode:   opts.Mode,
		Metric: opts.Metric,
		Follow: opts.Follow,
		Log:    log,
	})
	m.scene.OnContent = func(path, _, language string) {
		m.log.WithFields(logrus.Fields{"path": path, "language": language}).Debug("content replaced")
	}
	m.buildCtx, m.buildCancel = context.WithCancel(ctx)
	m.bottom.SetHelp(helpLine)
	return m
}

// Scene exposes the owned scene.
func (m *Model) Scene() *canvas.Scene {
	return m.scene
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.requestManifest(m.scene.Refresh()),
		m.loadActivity(),
		startWatchCmd(m.ctx, m.svc),
	)
}

func (m *Model) requestManifest(req timeline.Request) tea.Cmd {
	if m.svc == nil {
		return nil
	}
	svc, ctx := m.svc, m.ctx
	m.log.WithFields(logrus.Fields{"generation": req.Generation, "as_of": index.FormatAsOf(req.AsOf)}).Debug("manifest requested")
	return func() tea.Msg {
		rows, err := svc.Manifest(ctx, req.AsOf)
		return manifestLoadedMsg{req: req, rows: rows, err: err}
	}
}

func (m *Model) fetchContent(gen uint64, path string, single bool) tea.Cmd {
	if m.svc == nil {
		return nil
	}
	svc, ctx, asOf := m.svc, m.buildCtx, m.scene.ShownAt()
	if single {
		ctx = index.Fresh(ctx)
	}
	return func() tea.Msg {
		c, err := svc.Content(ctx, path, asOf)
		return contentLoadedMsg{gen: gen, path: path, content: c, err: err, single: single}
	}
}

// loadActivity fetches the summary, coalescing requests made while one is
// in flight into a single follow-up.
func (m *Model) loadActivity() tea.Cmd {
	if m.svc == nil {
		return nil
	}
	if m.activityBusy {
		m.activityDirty = true
		return nil
	}
	m.activityBusy = true
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		summary, err := svc.Activity(ctx)
		return activityLoadedMsg{summary: summary, err: err}
	}
}

func startWatchCmd(parent context.Context, svc index.Service) tea.Cmd {
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := svc.Watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{ch: ch, cancel: cancel}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return watchEventMsg{event: ev}
		}
		return watchStoppedMsg{}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

func retryWatchCmd() tea.Cmd {
	return tea.Tick(watchRetry, func(time.Time) tea.Msg {
		return watchRetryMsg{}
	})
}

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// ensureFrames starts the frame loop when the camera begins animating.
func (m *Model) ensureFrames(cmds *[]tea.Cmd) {
	if m.animating || m.scene.Camera().State() != viewport.Animating {
		return
	}
	m.animating = true
	*cmds = append(*cmds, frameCmd())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.applySizes()
		m.fitOnce()
	case manifestLoadedMsg:
		m.handleManifest(msg, &cmds)
	case contentLoadedMsg:
		m.handleContent(msg, &cmds)
	case activityLoadedMsg:
		m.activityBusy = false
		if msg.err != nil {
			m.notify(canvas.Transient("activity", "", msg.err), &cmds)
		} else {
			m.scene.ApplyActivity(msg.summary)
		}
		if m.activityDirty {
			m.activityDirty = false
			if cmd := m.loadActivity(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	case watchStartedMsg:
		if msg.err != nil {
			m.setStatus("ERR: watch " + msg.err.Error())
			m.log.WithError(msg.err).Warn("change feed unavailable")
			cmds = append(cmds, retryWatchCmd())
			break
		}
		m.stopWatch()
		m.watchCh = msg.ch
		m.watchCancel = msg.cancel
		m.setStatus("Watching for changes")
		if m.resync {
			m.resync = false
			m.log.Info("change feed reconnected, rebuilding")
			for _, cmd := range []tea.Cmd{m.requestManifest(m.scene.Refresh()), m.loadActivity()} {
				if cmd != nil {
					cmds = append(cmds, cmd)
				}
			}
		}
		if cmd := m.waitForWatch(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case watchEventMsg:
		m.handleWatchEvent(msg.event, &cmds)
		if cmd := m.waitForWatch(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case watchStoppedMsg:
		m.stopWatch()
		m.resync = true
		if m.ctx.Err() == nil {
			cmds = append(cmds, retryWatchCmd())
		}
	case watchRetryMsg:
		if m.ctx.Err() == nil {
			cmds = append(cmds, startWatchCmd(m.ctx, m.svc))
		}
	case frameMsg:
		if m.scene.Tick(time.Time(msg)) {
			cmds = append(cmds, frameCmd())
		} else {
			m.animating = false
			m.queue.Prioritize(m.scene.VisibleFiles())
		}
	case scrubSettledMsg:
		if pos, ok := m.debounce.Settle(msg.version); ok {
			if req, changed := m.scene.Scrub(pos); changed {
				cmds = append(cmds, m.requestManifest(req))
			}
		}
	case noticeExpiredMsg:
		m.bottom.ExpireNotice(msg.version)
	case downloadDoneMsg:
		m.downloading = false
		if msg.err != nil {
			m.notify(fmt.Errorf("download: %w", msg.err), &cmds)
			break
		}
		m.setStatus(fmt.Sprintf("Downloaded %d files to %s", msg.result.Files, msg.result.Dir))
	case tea.KeyPressMsg:
		if m.help.Visible() {
			m.handleHelpKey(msg, &cmds)
			break
		}
		m.handleKeyPress(msg, &cmds)
	case tea.MouseWheelMsg:
		if m.help.Visible() {
			cmds = append(cmds, m.help.Update(msg))
			break
		}
		m.handleWheel(msg.Mouse())
	case tea.MouseClickMsg:
		m.handleClick(msg.Mouse())
	case tea.MouseMotionMsg:
		m.handleMotion(msg.Mouse())
	case tea.MouseReleaseMsg:
		m.handleRelease(msg.Mouse())
	}

	m.ensureFrames(&cmds)
	m.refreshSidebar()
	return m, tea.Batch(cmds...)
}

func (m *Model) handleManifest(msg manifestLoadedMsg, cmds *[]tea.Cmd) {
	if msg.err != nil {
		if m.scene.Current(msg.req.Generation) {
			m.notify(canvas.Transient("manifest", "", msg.err), cmds)
		}
		return
	}
	missing, err := m.scene.ApplyManifest(msg.req.Generation, msg.rows)
	if errors.Is(err, canvas.ErrStaleResponse) {
		m.log.WithField("generation", msg.req.Generation).Debug("stale manifest dropped")
		return
	}
	if err != nil {
		m.notify(err, cmds)
		return
	}
	m.fitOnce()
	m.startBuild(missing, cmds)
	m.setStatus(fmt.Sprintf("%d files", len(m.scene.Paths())))
}

// startBuild supersedes the previous rebuild's fetches and fills the pool
// from the missing paths.
func (m *Model) startBuild(missing []string, cmds *[]tea.Cmd) {
	if m.buildCancel != nil {
		m.buildCancel()
	}
	m.buildCtx, m.buildCancel = context.WithCancel(m.ctx)
	gen := m.scene.Build()
	for _, path := range m.queue.Reset(gen, missing) {
		if cmd := m.fetchContent(gen, path, false); cmd != nil {
			*cmds = append(*cmds, cmd)
		}
	}
}

func (m *Model) handleContent(msg contentLoadedMsg, cmds *[]tea.Cmd) {
	if msg.err != nil {
		if msg.gen == m.scene.Build() && !errors.Is(msg.err, context.Canceled) {
			m.notify(canvas.Transient("content", msg.path, msg.err), cmds)
		}
	} else {
		c := msg.content
		if c.Path == "" {
			c.Path = msg.path
		}
		err := m.scene.ApplyContent(msg.gen, c)
		if err != nil && !errors.Is(err, canvas.ErrStaleResponse) {
			m.log.WithError(err).WithField("path", msg.path).Warn("content rejected")
		}
	}
	if msg.single {
		return
	}
	for _, path := range m.queue.Done(msg.gen, msg.path) {
		if cmd := m.fetchContent(msg.gen, path, false); cmd != nil {
			*cmds = append(*cmds, cmd)
		}
	}
}

func (m *Model) handleWatchEvent(ev live.Event, cmds *[]tea.Cmd) {
	fx := m.scene.HandleChange(ev)
	if fx.Duplicate {
		return
	}
	if fx.RefreshActivity {
		if cmd := m.loadActivity(); cmd != nil {
			*cmds = append(*cmds, cmd)
		}
	}
	if fx.Rebuild {
		if cmd := m.requestManifest(m.scene.Refresh()); cmd != nil {
			*cmds = append(*cmds, cmd)
		}
		return
	}
	if fx.RefreshContent {
		if cmd := m.fetchContent(m.scene.Build(), manifest.CleanPath(ev.Path), true); cmd != nil {
			*cmds = append(*cmds, cmd)
		}
	}
}

func (m *Model) handleKeyPress(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	cam := m.scene.Camera()
	switch msg.String() {
	case "q", "ctrl+c":
		m.shutdown()
		*cmds = append(*cmds, tea.Quit)
	case "m":
		m.scene.SetLayout(m.scene.Mode().Next())
		m.scene.FitAll()
		m.setStatus("Layout: " + m.scene.Mode().String())
	case "b":
		m.scene.SetMetric(m.scene.Metric().Toggle())
		m.scene.FitAll()
		m.setStatus("Metric: " + m.scene.Metric().String())
	case "[":
		m.scrubBy(-scrubStep, cmds)
	case "]":
		m.scrubBy(scrubStep, cmds)
	case "{":
		m.scrubBy(-scrubLargeStep, cmds)
	case "}":
		m.scrubBy(scrubLargeStep, cmds)
	case "L":
		m.goLive(cmds)
	case "f":
		m.scene.SetFollow(!m.scene.Follow())
		if m.scene.Follow() {
			m.setStatus("Following updates")
		} else {
			m.setStatus("Follow off")
		}
	case "c":
		if sel := m.scene.Selected(); sel != "" {
			m.scene.Focus(sel)
		} else {
			m.setStatus("Nothing selected")
		}
	case "0":
		m.scene.FitAll()
	case "left", "h":
		cam.Pan(panStep, 0)
	case "right", "l":
		cam.Pan(-panStep, 0)
	case "up", "k":
		cam.Pan(0, panStep)
	case "down", "j":
		cam.Pan(0, -panStep)
	case "+", "=":
		w, h := cam.Size()
		cam.Zoom(w/2, h/2, 1)
	case "-", "_":
		w, h := cam.Size()
		cam.Zoom(w/2, h/2, -1)
	case "d":
		m.startDownload(cmds)
	case "?":
		m.help.Toggle()
	}
}

// handleHelpKey routes keys while the help overlay is open.
func (m *Model) handleHelpKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.shutdown()
		*cmds = append(*cmds, tea.Quit)
	case "?", "esc", "q":
		m.help.Close()
	default:
		*cmds = append(*cmds, m.help.Update(msg))
	}
}

func (m *Model) scrubBy(delta int, cmds *[]tea.Cmd) {
	base := m.scene.Position()
	if pending, ok := m.debounce.Pending(); ok {
		base = pending
	}
	pos := timeline.ClampPosition(base + delta)
	version, wait := m.debounce.Push(pos)
	*cmds = append(*cmds, tea.Tick(wait, func(time.Time) tea.Msg {
		return scrubSettledMsg{version: version}
	}))
	m.setStatus("Scrub: " + scrubber.Label(m.scene.Timeline(), pos))
}

// goLive jumps to the present at once, discarding any unsettled scrub.
func (m *Model) goLive(cmds *[]tea.Cmd) {
	version, _ := m.debounce.Push(timeline.MaxPosition)
	m.debounce.Settle(version)
	if req, changed := m.scene.GoLive(); changed {
		if cmd := m.requestManifest(req); cmd != nil {
			*cmds = append(*cmds, cmd)
		}
	}
	m.setStatus("Live")
}

func (m *Model) startDownload(cmds *[]tea.Cmd) {
	asOf := m.scene.ShownAt()
	if m.scene.Live() || asOf == nil {
		m.setStatus("Download needs a historical instant; scrub back first")
		return
	}
	if m.downloading || m.svc == nil {
		return
	}
	dir := filepath.Join(m.downloadDir, "codecanvas-"+asOf.UTC().Format("20060102-150405"))
	m.downloading = true
	m.setStatus("Downloading snapshot…")
	svc, ctx := m.svc, m.ctx
	*cmds = append(*cmds, func() tea.Msg {
		res, err := export.Snapshot(ctx, svc, asOf, dir, export.DefaultWorkers)
		return downloadDoneMsg{result: res, err: err}
	})
}

// screenPoint maps a terminal cell to screen units and reports whether it
// lies on the canvas surface.
func (m *Model) screenPoint(mouse tea.Mouse) (float64, float64, bool) {
	w, h := m.surface.Size()
	row := mouse.Y - headerRows
	if mouse.X < 0 || row < 0 || mouse.X >= w-m.sidebar.Width() || row >= h {
		return 0, 0, false
	}
	sx, sy := surface.CellCenter(mouse.X, row)
	return sx, sy, true
}

func (m *Model) handleWheel(mouse tea.Mouse) {
	sx, sy, ok := m.screenPoint(mouse)
	if !ok {
		return
	}
	switch mouse.Button {
	case tea.MouseWheelUp:
		m.scene.Camera().Zoom(sx, sy, 1)
	case tea.MouseWheelDown:
		m.scene.Camera().Zoom(sx, sy, -1)
	}
}

func (m *Model) handleClick(mouse tea.Mouse) {
	if mouse.Button != tea.MouseLeft {
		return
	}
	sx, sy, ok := m.screenPoint(mouse)
	if !ok {
		return
	}
	if err := m.scene.PointerDown(sx, sy); err != nil {
		m.log.Debug(err.Error())
	}
	m.dragging = true
	m.dragMoved = false
}

func (m *Model) handleMotion(mouse tea.Mouse) {
	if !m.dragging {
		return
	}
	sx, sy := surface.CellCenter(mouse.X, mouse.Y-headerRows)
	m.scene.Camera().PointerMove(sx, sy)
	m.dragMoved = true
}

func (m *Model) handleRelease(mouse tea.Mouse) {
	if !m.dragging {
		return
	}
	m.dragging = false
	m.scene.Camera().PointerUp()
	if m.dragMoved {
		return
	}
	sx, sy, ok := m.screenPoint(mouse)
	if !ok {
		return
	}
	if r, hit := m.scene.HitTest(sx, sy); hit && r.Kind == layout.KindFile {
		m.scene.Select(r.ID)
		m.setStatus(r.ID)
	}
}

// fitOnce frames the whole layout the first time both a manifest and a
// terminal size are known.
func (m *Model) fitOnce() {
	if m.fitted || m.termWidth == 0 || m.scene.Layout().Len() == 0 {
		return
	}
	cam := m.scene.Camera()
	bias := -float64(m.sidebar.Width()*surface.CellWidth) / 2
	cam.Set(cam.Target(m.scene.Layout().Bounds(), viewport.FlyOptions{Bias: bias}))
	m.fitted = true
}

func (m *Model) notify(err error, cmds *[]tea.Cmd) {
	if err == nil {
		return
	}
	m.log.WithError(err).Warn("operation failed")
	version := m.bottom.ShowNotice(err.Error(), true)
	*cmds = append(*cmds, tea.Tick(canvas.NoticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{version: version}
	}))
}

func (m *Model) shutdown() {
	m.stopWatch()
	if m.buildCancel != nil {
		m.buildCancel()
	}
	m.cancel()
}

func (m *Model) setStatus(msg string) {
	m.bottom.SetStatus(msg)
}

// applySizes recalculates the surface, sidebar and camera for the terminal.
func (m *Model) applySizes() {
	if m.termWidth == 0 || m.termHeight == 0 {
		return
	}
	height := m.termHeight - headerRows - scrubberRows - m.bottom.Height()
	if height < 1 {
		height = 1
	}
	side := 0
	if m.termWidth >= minSidebarTerm {
		side = sidebarWidth
	}
	m.surface.SetSize(m.termWidth, height)
	m.sidebar.SetSize(side, height)
	w, h := m.surface.ScreenSize()
	m.scene.Camera().Resize(w, h)
	m.scene.SetBias(-float64(side*surface.CellWidth) / 2)
	m.help.SetSize(m.termWidth-4, height-2)
}

func (m *Model) View() string {
	if m.termWidth == 0 || m.termHeight == 0 {
		return "loading…"
	}
	pos := m.scene.Position()
	pending := false
	if p, ok := m.debounce.Pending(); ok {
		pos, pending = p, true
	}
	sections := []string{
		m.renderHeader(),
		m.renderBody(),
		m.scrub.View(m.scene.Timeline(), pos, pending, m.termWidth),
		m.bottom.View(m.termWidth),
	}
	return strings.Join(sections, "\n")
}

func (m *Model) renderHeader() string {
	h := m.theme.Header
	parts := []string{
		h.Title.Render("codecanvas"),
		h.Label.Render(m.scene.Mode().String() + " · " + m.scene.Metric().String()),
	}
	if asOf := m.scene.ShownAt(); asOf != nil {
		parts = append(parts, h.AsOf.Render("as of "+asOf.Local().Format("2006-01-02 15:04")))
	} else {
		parts = append(parts, h.Live.Render("● LIVE"))
	}
	if m.scene.Follow() {
		parts = append(parts, h.Accent.Render("follow"))
	}
	parts = append(parts, h.Label.Render(fmt.Sprintf("%d/%d loaded", m.scene.Loaded(), len(m.scene.Paths()))))
	if langs := compositionSummary(m.scene.Composition(), headerLanguages); langs != "" {
		parts = append(parts, h.Label.Render(langs))
	}
	return truncate.StringWithTail(strings.Join(parts, "  "), uint(m.termWidth), "…")
}

// renderBody overlays the sidebar on the right edge of the canvas and the
// help, when open, in the middle.
func (m *Model) renderBody() string {
	body := m.renderCanvas()
	if !m.help.Visible() {
		return body
	}
	lines := strings.Split(body, "\n")
	w, h := m.help.Size()
	top := max((len(lines)-h)/2, 0)
	left := max((m.termWidth-w)/2, 0)
	for i, l := range strings.Split(m.help.View(), "\n") {
		row := top + i
		if row >= len(lines) {
			break
		}
		lines[row] = padTo(truncate.String(lines[row], uint(left)), left) + l
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderCanvas() string {
	canvasView := m.surface.View(m.scene, m.scene.Camera().Transform())
	side := m.sidebar.Width()
	if side == 0 {
		return canvasView
	}
	view, _ := m.sidebar.View()
	lines := strings.Split(canvasView, "\n")
	panelLines := strings.Split(view, "\n")
	keep := m.termWidth - side
	for i := range lines {
		if i >= len(panelLines) {
			break
		}
		lines[i] = padTo(truncate.String(lines[i], uint(keep)), keep) + panelLines[i]
	}
	return strings.Join(lines, "\n")
}

func padTo(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func (m *Model) refreshSidebar() {
	if m.sidebar.Width() == 0 {
		return
	}
	m.sidebar.SetSections(
		panel.Section{Title: "Selection", Lines: selectionLines(m.scene)},
		panel.Section{Title: "Activity", Lines: activityLines(m.scene.Log())},
	)
}

// Run launches the interactive TUI program.
func Run(svc index.Service, opts Options) error {
	m := New(svc, opts)
	defer m.shutdown()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
