package session_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/seliv/dirscope/internal/session"
	"github.com/seliv/dirscope/internal/tree"
)

type fakeEngine struct {
	startURLs  []string
	startErr   error
	aborts     int
	busy       bool
	unreadable int
}

func (e *fakeEngine) Start(url string) error {
	if e.startErr != nil {
		return e.startErr
	}
	e.startURLs = append(e.startURLs, url)
	e.busy = true
	return nil
}

func (e *fakeEngine) AbortReading() { e.aborts++ }

func (e *fakeEngine) IsBusy() bool { return e.busy }

func (e *fakeEngine) UnreadableDirCount() int { return e.unreadable }

type fakeTrees struct{ t *tree.Tree }

func (f *fakeTrees) Tree() *tree.Tree { return f.t }

type fakeSelection struct {
	current  *tree.Item
	selected []*tree.Item
	setCalls int
	onSet    func(*tree.Item)
}

func (s *fakeSelection) CurrentItem() *tree.Item { return s.current }

func (s *fakeSelection) SelectedItems() []*tree.Item {
	if s.selected != nil {
		return s.selected
	}
	if s.current != nil {
		return []*tree.Item{s.current}
	}
	return nil
}

func (s *fakeSelection) SetCurrentItem(it *tree.Item, selectIt bool) {
	s.current = it
	s.setCalls++
	if s.onSet != nil {
		s.onSet(it)
	}
}

func (s *fakeSelection) CurrentBranch() *tree.Item { return s.current }

type fakeView struct {
	sorts     []string
	expandTo  []int
	collapses int
	expanded  map[*tree.Item]bool
}

func (v *fakeView) ExpandToDepth(n int) { v.expandTo = append(v.expandTo, n) }

func (v *fakeView) CollapseAll() { v.collapses++ }

func (v *fakeView) SetExpanded(it *tree.Item, expanded bool) {
	if v.expanded == nil {
		v.expanded = map[*tree.Item]bool{}
	}
	v.expanded[it] = expanded
}

func (v *fakeView) SortByName() { v.sorts = append(v.sorts, "name") }

func (v *fakeView) SortBySize() { v.sorts = append(v.sorts, "size") }

type shownMessage struct {
	text    string
	timeout time.Duration
}

type fakeStatus struct {
	messages []shownMessage
	warnings int
}

func (s *fakeStatus) ShowMessage(text string, timeout time.Duration) {
	s.messages = append(s.messages, shownMessage{text, timeout})
}

func (s *fakeStatus) ShowPermissionsWarning() { s.warnings++ }

func (s *fakeStatus) last() string {
	if len(s.messages) == 0 {
		return ""
	}
	return s.messages[len(s.messages)-1].text
}

type fakeTimer struct{ stops int }

func (t *fakeTimer) Stop() { t.stops++ }

type armedTimer struct {
	d     time.Duration
	fn    func()
	timer *fakeTimer
}

type fakeScheduler struct {
	afters  []*armedTimer
	tickers []*armedTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) session.Timer {
	a := &armedTimer{d: d, fn: fn, timer: &fakeTimer{}}
	s.afters = append(s.afters, a)
	return a.timer
}

func (s *fakeScheduler) TickEvery(d time.Duration, fn func()) session.Timer {
	a := &armedTimer{d: d, fn: fn, timer: &fakeTimer{}}
	s.tickers = append(s.tickers, a)
	return a.timer
}

type fakeWindow struct{ closes int }

func (w *fakeWindow) Close() { w.closes++ }

type harness struct {
	engine *fakeEngine
	trees  *fakeTrees
	sel    *fakeSelection
	view   *fakeView
	status *fakeStatus
	sched  *fakeScheduler
	window *fakeWindow
	now    time.Time
	ctrl   *session.Controller
}

func newHarness() *harness {
	h := &harness{
		engine: &fakeEngine{},
		trees:  &fakeTrees{t: sampleTree()},
		sel:    &fakeSelection{},
		view:   &fakeView{},
		status: &fakeStatus{},
		sched:  &fakeScheduler{},
		window: &fakeWindow{},
		now:    time.Unix(1000, 0),
	}
	h.ctrl = session.New(session.Deps{
		Engine:       h.engine,
		Trees:        h.trees,
		Selection:    h.sel,
		View:         h.view,
		Status:       h.status,
		Scheduler:    h.sched,
		Now:          func() time.Time { return h.now },
		StaleWindows: []session.StaleWindow{h.window},
	}, session.Config{})
	return h
}

func sampleTree() *tree.Tree {
	top := &tree.Item{Name: "/data", Kind: tree.KindDir}
	a := &tree.Item{Name: "alpha", Kind: tree.KindDir, Size: 4096}
	b := &tree.Item{Name: "beta", Kind: tree.KindDir, Size: 4096}
	top.AddChild(a)
	top.AddChild(b)
	a.AddChild(&tree.Item{Name: "one.txt", Kind: tree.KindFile, Size: 100})
	t := tree.New("/data", top)
	t.Finalize()
	return t
}

func TestOpenThenFinish(t *testing.T) {
	h := newHarness()
	if err := h.ctrl.Open("/data"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	h.ctrl.ScanStarted("/data")

	if !h.ctrl.Busy() {
		t.Fatal("expected busy after ScanStarted")
	}
	if len(h.sched.tickers) != 1 || h.sched.tickers[0].d != session.DefaultTickInterval {
		t.Fatalf("expected one %v ticker, got %+v", session.DefaultTickInterval, h.sched.tickers)
	}
	if len(h.view.sorts) != 1 || h.view.sorts[0] != "name" {
		t.Fatalf("expected name sort while busy, got %v", h.view.sorts)
	}
	if h.window.closes != 1 {
		t.Fatalf("stale window closes = %d, want 1", h.window.closes)
	}

	h.now = h.now.Add(3 * time.Second)
	h.ctrl.ScanFinished()

	if h.ctrl.Busy() {
		t.Fatal("expected idle after ScanFinished")
	}
	if h.sched.tickers[0].timer.stops == 0 {
		t.Fatal("ticker was not stopped")
	}
	if want := "Finished. Elapsed time: 3s"; h.status.last() != want {
		t.Fatalf("status = %q, want %q", h.status.last(), want)
	}
	if h.status.messages[len(h.status.messages)-1].timeout != session.LongMessageTimeout {
		t.Fatal("finish message should use the long timeout")
	}
	if h.view.sorts[len(h.view.sorts)-1] != "size" {
		t.Fatalf("expected size sort after finish, got %v", h.view.sorts)
	}
	// no current branch, so the first level gets expanded at idle
	if len(h.view.expandTo) != 1 || h.view.expandTo[0] != 0 {
		t.Fatalf("expandTo = %v, want [0]", h.view.expandTo)
	}
}

func TestDuplicateFinishedIgnored(t *testing.T) {
	h := newHarness()
	h.ctrl.ScanStarted("/data")
	h.ctrl.ScanFinished()

	messages := len(h.status.messages)
	sorts := len(h.view.sorts)
	h.ctrl.ScanFinished()

	if len(h.status.messages) != messages || len(h.view.sorts) != sorts {
		t.Fatal("duplicate ScanFinished must be a no-op")
	}
}

func TestAbortedEmitsAbortedMessage(t *testing.T) {
	h := newHarness()
	h.ctrl.ScanStarted("/data")
	h.now = h.now.Add(3 * time.Second)
	h.ctrl.ScanAborted()

	if h.ctrl.Busy() {
		t.Fatal("expected idle after ScanAborted")
	}
	if want := "Aborted. Elapsed time: 3s"; h.status.last() != want {
		t.Fatalf("status = %q, want %q", h.status.last(), want)
	}
}

func TestAbortedNeverWarnsAboutPermissions(t *testing.T) {
	h := newHarness()
	h.engine.unreadable = 5
	if err := h.ctrl.Open("/data"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	h.ctrl.ScanStarted("/data")
	h.ctrl.ScanAborted()

	if h.status.warnings != 0 {
		t.Fatalf("warnings = %d, want 0 after abort", h.status.warnings)
	}
}

func TestPermissionsWarningOncePerOpen(t *testing.T) {
	h := newHarness()
	h.engine.unreadable = 2

	if err := h.ctrl.Open("/data"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	h.ctrl.ScanStarted("/data")
	h.ctrl.ScanFinished()
	if h.status.warnings != 1 {
		t.Fatalf("warnings = %d, want 1 after open", h.status.warnings)
	}

	// a refresh of the same tree stays quiet
	if err := h.ctrl.RefreshAll(); err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}
	h.ctrl.ScanStarted("/data")
	h.ctrl.ScanFinished()
	if h.status.warnings != 1 {
		t.Fatalf("warnings = %d, want still 1 after refresh", h.status.warnings)
	}

	// a fresh explicit open re-arms the gate
	if err := h.ctrl.Open("/data"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	h.ctrl.ScanStarted("/data")
	h.ctrl.ScanFinished()
	if h.status.warnings != 2 {
		t.Fatalf("warnings = %d, want 2 after second open", h.status.warnings)
	}
}

func TestStartFailureNormalizesIdle(t *testing.T) {
	h := newHarness()
	h.engine.startErr = errors.New("permission denied")

	if err := h.ctrl.Open("/locked"); err == nil {
		t.Fatal("expected Open to fail")
	}
	if h.ctrl.Busy() {
		t.Fatal("failed start must leave the session idle")
	}
	if !strings.HasPrefix(h.status.last(), "Could not open /locked") {
		t.Fatalf("status = %q", h.status.last())
	}
}

func TestDeferredExpansionFiresOnce(t *testing.T) {
	h := newHarness()
	h.ctrl.ScanStarted("/data")

	if len(h.sched.afters) != 1 || h.sched.afters[0].d != session.DefaultExpandDelay {
		t.Fatalf("expected one %v expand timer, got %+v", session.DefaultExpandDelay, h.sched.afters)
	}
	h.sched.afters[0].fn()
	if len(h.view.expandTo) != 1 || h.view.expandTo[0] != 0 {
		t.Fatalf("expandTo = %v, want [0]", h.view.expandTo)
	}

	// a stale duplicate delivery does nothing
	h.sched.afters[0].fn()
	if len(h.view.expandTo) != 1 {
		t.Fatal("deferred expansion fired twice")
	}
}

func TestDeferredExpansionIgnoredForStaleSession(t *testing.T) {
	h := newHarness()
	h.ctrl.ScanStarted("/data")
	stale := h.sched.afters[0]

	// a new session supersedes the first before the timer fires
	h.ctrl.ScanStarted("/data")
	stale.fn()

	if len(h.view.expandTo) != 0 {
		t.Fatalf("stale timer expanded the tree: %v", h.view.expandTo)
	}
}

func TestExpansionNotArmedForPackageViews(t *testing.T) {
	h := newHarness()
	h.ctrl.ScanStarted("pkg:/installed")
	if len(h.sched.afters) != 0 {
		t.Fatal("package view must not arm deferred expansion")
	}

	h = newHarness()
	h.sel.current = h.trees.t.FirstToplevel()
	h.ctrl.ScanStarted("/data")
	if len(h.sched.afters) != 0 {
		t.Fatal("existing branch must not arm deferred expansion")
	}
}

func TestFutureSelectionWinsOverExpansion(t *testing.T) {
	h := newHarness()
	h.ctrl.FutureSelection().Set("/data/alpha")
	h.ctrl.ScanStarted("/data")
	h.ctrl.ScanFinished()

	if len(h.view.expandTo) != 0 {
		t.Fatalf("expansion and future selection are mutually exclusive: %v", h.view.expandTo)
	}
	if h.sel.current == nil || h.sel.current.Name != "alpha" {
		t.Fatalf("current = %+v, want alpha", h.sel.current)
	}
	if !h.ctrl.FutureSelection().Empty() {
		t.Fatal("future selection must be consumed")
	}
}

func TestFutureSelectionResolutionFailureIsGraceful(t *testing.T) {
	h := newHarness()
	h.ctrl.FutureSelection().Set("/data/gone")
	h.ctrl.ScanStarted("/data")
	h.ctrl.ScanFinished()

	if h.sel.setCalls != 0 {
		t.Fatal("unresolvable target must not move the selection")
	}
	if !h.ctrl.FutureSelection().Empty() {
		t.Fatal("slot must be cleared even when resolution fails")
	}
}

func TestFutureSelectionMountPointGetsExpanded(t *testing.T) {
	h := newHarness()
	alpha := h.trees.t.FirstToplevel().Child("alpha")
	alpha.MountPoint = true

	h.ctrl.FutureSelection().Set("/data/alpha")
	h.ctrl.ScanStarted("/data")
	h.ctrl.ScanFinished()

	if !h.view.expanded[alpha] {
		t.Fatal("mount point target must be expanded after selection")
	}
}

func TestRefreshSelectedRecordsFutureSelection(t *testing.T) {
	h := newHarness()
	h.trees.t = sampleTree()
	h.sel.current = h.trees.t.FirstToplevel().Child("beta")

	if err := h.ctrl.RefreshSelected(); err != nil {
		t.Fatalf("RefreshSelected: %v", err)
	}
	h.ctrl.ScanStarted("/data")
	h.ctrl.ScanFinished()

	if h.sel.current == nil || h.sel.current.Name != "beta" {
		t.Fatalf("current = %+v, want beta restored", h.sel.current)
	}
}

func TestRequestStop(t *testing.T) {
	h := newHarness()

	h.ctrl.RequestStop()
	if h.engine.aborts != 0 {
		t.Fatal("RequestStop while idle must be a no-op")
	}

	h.ctrl.ScanStarted("/data")
	h.ctrl.RequestStop()
	if h.engine.aborts != 1 {
		t.Fatalf("aborts = %d, want 1", h.engine.aborts)
	}
	if !h.ctrl.Busy() {
		t.Fatal("session stays busy until the engine acknowledges")
	}
	if h.status.last() != "Reading aborted." {
		t.Fatalf("status = %q", h.status.last())
	}
}

func TestTick(t *testing.T) {
	h := newHarness()

	h.ctrl.Tick()
	if len(h.status.messages) != 0 {
		t.Fatal("tick while idle must not touch the status bar")
	}

	h.ctrl.ScanStarted("/data")
	h.now = h.now.Add(1500 * time.Millisecond)
	h.ctrl.Tick()
	if h.status.last() != "Reading... 1s" {
		t.Fatalf("status = %q", h.status.last())
	}
	if h.status.messages[len(h.status.messages)-1].timeout != session.DefaultStatusTimeout {
		t.Fatal("tick message should use the short status timeout")
	}
}

func TestCurrentItemChangedRecordsHistory(t *testing.T) {
	h := newHarness()
	h.sel.onSet = h.ctrl.CurrentItemChanged

	top := h.trees.t.FirstToplevel()
	h.sel.SetCurrentItem(top.Child("alpha"), true)
	h.sel.SetCurrentItem(top.Child("beta"), true)
	if h.ctrl.History().Len() != 2 {
		t.Fatalf("history len = %d, want 2", h.ctrl.History().Len())
	}

	h.ctrl.NavigateBack()
	if h.sel.current.Name != "alpha" {
		t.Fatalf("current = %q, want alpha", h.sel.current.Name)
	}
	if h.ctrl.History().Len() != 2 {
		t.Fatal("programmatic navigation must not grow the history")
	}

	h.ctrl.NavigateForward()
	if h.sel.current.Name != "beta" {
		t.Fatalf("current = %q, want beta", h.sel.current.Name)
	}
}

func TestOpenClearsHistory(t *testing.T) {
	h := newHarness()
	h.sel.onSet = h.ctrl.CurrentItemChanged
	h.sel.SetCurrentItem(h.trees.t.FirstToplevel(), true)
	if h.ctrl.History().Len() != 1 {
		t.Fatalf("history len = %d, want 1", h.ctrl.History().Len())
	}

	if err := h.ctrl.Open("/data"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if h.ctrl.History().Len() != 0 {
		t.Fatal("Open must clear the history")
	}
}

func TestExpandTreeToLevel(t *testing.T) {
	h := newHarness()
	h.ctrl.ExpandTreeToLevel(0)
	if h.view.collapses != 1 {
		t.Fatal("level 0 must collapse everything")
	}
	h.ctrl.ExpandTreeToLevel(3)
	if len(h.view.expandTo) != 1 || h.view.expandTo[0] != 2 {
		t.Fatalf("expandTo = %v, want [2]", h.view.expandTo)
	}
}

func TestFormatElapsed(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{340 * time.Millisecond, "340ms"},
		{3 * time.Second, "3s"},
		{2*time.Minute + 13*time.Second, "2m 13s"},
		{time.Hour + 2*time.Minute, "1h 02m"},
	}
	for _, tc := range cases {
		if got := session.FormatElapsed(tc.d); got != tc.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
