package session

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/seliv/dirscope/internal/tree"
)

// Defaults mirror the desktop original: a 200ms progress ticker, a 200ms
// single-shot delay before the automatic first-level expansion, a 3s status
// message and a 25s long message.
const (
	DefaultTickInterval  = 200 * time.Millisecond
	DefaultExpandDelay   = 200 * time.Millisecond
	DefaultStatusTimeout = 3 * time.Second
	LongMessageTimeout   = 25 * time.Second
)

// Config carries the timing knobs; zero values fall back to the defaults.
type Config struct {
	TickInterval  time.Duration
	ExpandDelay   time.Duration
	StatusTimeout time.Duration
	LongTimeout   time.Duration
}

func (c *Config) fillDefaults() {
	if c.TickInterval <= 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.ExpandDelay <= 0 {
		c.ExpandDelay = DefaultExpandDelay
	}
	if c.StatusTimeout <= 0 {
		c.StatusTimeout = DefaultStatusTimeout
	}
	if c.LongTimeout <= 0 {
		c.LongTimeout = LongMessageTimeout
	}
}

// Deps is the explicit collaborator context handed to the controller at
// construction. There is no ambient lookup; everything the controller can
// touch is listed here.
type Deps struct {
	Engine       Engine
	Trees        TreeSource
	Selection    SelectionView
	View         TreeView
	Status       StatusBar
	Scheduler    Scheduler
	Now          Clock
	StaleWindows []StaleWindow
}

// Session is one busy-to-idle scan cycle. A new session replaces any session
// still busy; the ID guards timer deliveries against acting on a stale
// session.
type Session struct {
	ID           uuid.UUID
	Busy         bool
	StartedAt    time.Time
	URL          string
	WarningShown bool
}

// Controller drives the scan lifecycle.
type Controller struct {
	deps    Deps
	cfg     Config
	session Session

	future  FutureSelectionSlot
	history *History

	enableDirPermissionsWarning bool

	ticker      Timer
	expandTimer Timer
	expandArmed bool

	// invoked in registration order after every state-affecting event;
	// the UI layer recomputes action availability from here.
	stateHandlers []func()
}

// New builds a controller. Deps.Now defaults to time.Now.
func New(deps Deps, cfg Config) *Controller {
	cfg.fillDefaults()
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Controller{
		deps:    deps,
		cfg:     cfg,
		history: NewHistory(),
	}
}

// OnStateChange registers a handler run after every state-affecting event,
// in registration order.
func (c *Controller) OnStateChange(fn func()) {
	c.stateHandlers = append(c.stateHandlers, fn)
}

func (c *Controller) stateChanged() {
	for _, fn := range c.stateHandlers {
		fn()
	}
}

// Busy reports whether a scan session is active.
func (c *Controller) Busy() bool { return c.session.Busy }

// Session returns a copy of the current session state.
func (c *Controller) CurrentSession() Session { return c.session }

// History exposes the navigation history.
func (c *Controller) History() *History { return c.history }

// FutureSelection exposes the single pending-selection slot. Callers set a
// target right before triggering a refresh; it is consumed at the next idle
// transition.
func (c *Controller) FutureSelection() *FutureSelectionSlot { return &c.future }

// Availability recomputes the action availability snapshot from the current
// session, selection and view state.
func (c *Controller) Availability(view ViewFlags) Availability {
	var toplevel *tree.Item
	if t := c.deps.Trees.Tree(); t != nil {
		toplevel = t.FirstToplevel()
	}
	return Compute(c.session.Busy, c.deps.Selection.CurrentItem(), toplevel,
		c.deps.Selection.SelectedItems(), view)
}

// Open starts a scan of a new root: an explicit navigation, so the history
// is cleared and the permissions warning is re-armed. A synchronous start
// failure is reported on the status bar and leaves the session idle.
func (c *Controller) Open(url string) error {
	c.enableDirPermissionsWarning = true
	c.history.Clear()
	return c.startScan(url)
}

// RefreshAll rescans the current root. History and the warning gate are
// untouched: a refresh is not an explicit navigation.
func (c *Controller) RefreshAll() error {
	t := c.deps.Trees.Tree()
	if t == nil || t.URL() == "" {
		return fmt.Errorf("refresh: nothing open")
	}
	return c.startScan(t.URL())
}

// RefreshSelected rescans with the first selected item recorded as the
// future selection, so the cursor returns there once the rebuilt tree is in
// place.
func (c *Controller) RefreshSelected() error {
	selected := c.deps.Selection.SelectedItems()
	if len(selected) == 0 {
		return fmt.Errorf("refresh selected: empty selection")
	}
	c.future.Set(selected[0].Path())
	if err := c.RefreshAll(); err != nil {
		c.future.Clear()
		return err
	}
	return nil
}

func (c *Controller) startScan(url string) error {
	if err := c.deps.Engine.Start(url); err != nil {
		// Normalize to an idle-equivalent state so availability does not
		// stay stuck, then report; the caller re-prompts for a target.
		c.stopTicker()
		c.stopExpandTimer()
		c.session.Busy = false
		c.stateChanged()
		c.deps.Status.ShowMessage(fmt.Sprintf("Could not open %s: %v", url, err), c.cfg.LongTimeout)
		return err
	}
	return nil
}

// ScanStarted is the engine's busy notification. It replaces the current
// session outright; a session still busy is simply superseded.
func (c *Controller) ScanStarted(url string) {
	c.stopTicker()
	c.stopExpandTimer()
	c.session = Session{
		ID:        uuid.New(),
		Busy:      true,
		StartedAt: c.deps.Now(),
		URL:       url,
	}
	c.stateChanged()

	// Close windows whose content is stale with respect to the new scan;
	// permissions or ownership may have changed since they were populated.
	for _, w := range c.deps.StaleWindows {
		w.Close()
	}

	c.ticker = c.deps.Scheduler.TickEvery(c.cfg.TickInterval, c.Tick)

	// Sorting by size while items stream in causes visual thrash; read in
	// name order and switch to size order at the idle transition.
	c.deps.View.SortByName()

	if !tree.IsPkgURL(url) && !tree.IsUnpkgURL(url) && c.deps.Selection.CurrentBranch() == nil {
		c.armDeferredExpansion()
	}
}

// ScanFinished is the engine's normal completion notification. Duplicate
// deliveries while already idle are ignored.
func (c *Controller) ScanFinished() {
	if !c.idleTransition("Finished") {
		return
	}

	if c.deps.Engine.UnreadableDirCount() > 0 &&
		c.enableDirPermissionsWarning && !c.session.WarningShown {
		c.deps.Status.ShowPermissionsWarning()
		c.session.WarningShown = true
		// One warning per explicit navigation: a later refresh of the same
		// tree stays quiet until a fresh Open re-arms the gate.
		c.enableDirPermissionsWarning = false
	}
}

// ScanAborted is the engine's cancellation acknowledgement. Identical idle
// bookkeeping, but an aborted scan's unreadable count is not authoritative,
// so the permissions warning is never evaluated.
func (c *Controller) ScanAborted() {
	c.idleTransition("Aborted")
}

// idleTransition performs the shared busy-to-idle bookkeeping and reports
// whether a transition actually happened.
func (c *Controller) idleTransition(verb string) bool {
	if !c.session.Busy {
		return false
	}
	c.stopTicker()
	elapsed := c.deps.Now().Sub(c.session.StartedAt)
	c.deps.Status.ShowMessage(
		fmt.Sprintf("%s. Elapsed time: %s", verb, FormatElapsed(elapsed)),
		c.cfg.LongTimeout)
	c.session.Busy = false
	c.stateChanged()

	c.deps.View.SortBySize()

	if target, ok := c.future.Consume(); ok {
		c.stopExpandTimer()
		c.applyFutureSelection(target)
	} else if c.deps.Selection.CurrentBranch() == nil {
		// The timer may not have fired yet; apply its outcome now rather
		// than letting it fire into an idle session.
		c.stopExpandTimer()
		c.ExpandTreeToLevel(1)
	} else {
		c.stopExpandTimer()
	}
	return true
}

func (c *Controller) applyFutureSelection(target string) {
	t := c.deps.Trees.Tree()
	if t == nil {
		return
	}
	it := t.Locate(target, true)
	if it == nil {
		// The subtree holding the target was not rebuilt; fall back to no
		// selection rather than guessing.
		return
	}
	c.history.Lock()
	c.deps.Selection.SetCurrentItem(it, true)
	c.history.Unlock()
	if it.MountPoint {
		c.deps.View.SetExpanded(it, true)
	}
}

// RequestStop asks the engine to wind down. It is advisory: the session
// stays busy until the engine acknowledges with the aborted notification.
// A no-op while idle.
func (c *Controller) RequestStop() {
	if !c.session.Busy {
		return
	}
	c.deps.Engine.AbortReading()
	c.deps.Status.ShowMessage("Reading aborted.", c.cfg.LongTimeout)
}

// Tick is the periodic progress callback. A tick queued behind the idle
// transition is stale and does nothing.
func (c *Controller) Tick() {
	if !c.session.Busy {
		return
	}
	elapsed := c.deps.Now().Sub(c.session.StartedAt)
	c.deps.Status.ShowMessage("Reading... "+FormatElapsed(elapsed), c.cfg.StatusTimeout)
}

func (c *Controller) armDeferredExpansion() {
	id := c.session.ID
	c.expandArmed = true
	c.expandTimer = c.deps.Scheduler.AfterFunc(c.cfg.ExpandDelay, func() {
		c.deferredExpansionDue(id)
	})
}

// deferredExpansionDue fires the automatic first-level expansion, unless the
// session it was armed for is gone or something else disarmed it first.
func (c *Controller) deferredExpansionDue(id uuid.UUID) {
	if !c.expandArmed || id != c.session.ID {
		return
	}
	c.expandArmed = false
	c.ExpandTreeToLevel(1)
}

func (c *Controller) stopExpandTimer() {
	c.expandArmed = false
	if c.expandTimer != nil {
		c.expandTimer.Stop()
		c.expandTimer = nil
	}
}

func (c *Controller) stopTicker() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
}

// ExpandTreeToLevel expands the tree view to the given level; level 0 (or
// less) collapses everything.
func (c *Controller) ExpandTreeToLevel(level int) {
	if level < 1 {
		c.deps.View.CollapseAll()
	} else {
		c.deps.View.ExpandToDepth(level - 1)
	}
}

// CurrentItemChanged reacts to the current item moving: status bar first,
// history second, then the state handlers. The ordering is observable (the
// status text must reflect the item before history buttons update).
func (c *Controller) CurrentItemChanged(it *tree.Item) {
	c.showCurrent(it)
	if it != nil {
		c.history.Add(it.Path())
	}
	c.stateChanged()
}

// NavigateBack moves to the previous history entry without recording the
// jump itself.
func (c *Controller) NavigateBack() {
	if path, ok := c.history.GoBack(); ok {
		c.navigateTo(path)
	}
}

// NavigateForward moves to the next history entry.
func (c *Controller) NavigateForward() {
	if path, ok := c.history.GoForward(); ok {
		c.navigateTo(path)
	}
}

func (c *Controller) navigateTo(path string) {
	t := c.deps.Trees.Tree()
	if t == nil {
		return
	}
	if it := t.Locate(path, true); it != nil {
		c.history.Lock()
		c.deps.Selection.SetCurrentItem(it, true)
		c.history.Unlock()
		c.deps.View.SetExpanded(it, true)
		c.showCurrent(it)
		c.stateChanged()
	}
}

func (c *Controller) showCurrent(it *tree.Item) {
	if it == nil {
		c.deps.Status.ShowMessage("", 0)
		return
	}
	msg := fmt.Sprintf("%s  (%s)", it.Path(), humanize.IBytes(uint64(it.TotalSize())))
	switch it.ReadState {
	case tree.ReadPermissionDenied:
		msg += "  [Permission Denied]"
	case tree.ReadError:
		msg += "  [Read Error]"
	}
	c.deps.Status.ShowMessage(msg, 0)
}

// FormatElapsed renders a duration for status messages: "340ms", "3s",
// "2m 13s", "1h 02m".
func FormatElapsed(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm %02ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh %02dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
