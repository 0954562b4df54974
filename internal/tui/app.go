// Package tui is the terminal front end. The Bubble Tea Update loop is the
// single event loop the session core requires: scan events, key presses and
// timer callbacks all arrive here as messages and are handled one at a time.
package tui

import (
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/seliv/dirscope/internal/config"
	"github.com/seliv/dirscope/internal/scan"
	"github.com/seliv/dirscope/internal/session"
)

// App ties the session controller to the panes and modals.
type App struct {
	cfg    config.Config
	engine *scan.Engine

	controller *session.Controller
	sched      *programScheduler
	status     *statusBar
	pane       *treePane
	treemap    *treemapPane

	openDlg    *openModal
	unreadable *unreadableModal
	stats      *statsModal

	keys     keyMap
	registry *CommandRegistry

	// avail is the current availability snapshot, fully recomputed after
	// every handled message.
	avail session.Availability

	cachePath     string
	statusTimeout time.Duration
	longTimeout   time.Duration

	startPath string
	progress  scan.Progress
	width     int
	height    int
}

// New wires the app together. startPath, when non-empty, is opened as soon
// as the program is running.
func New(cfg config.Config, engine *scan.Engine, startPath string) *App {
	a := &App{
		cfg:        cfg,
		engine:     engine,
		sched:      &programScheduler{},
		status:     &statusBar{},
		pane:       newTreePane(),
		treemap:    &treemapPane{visible: cfg.UI.ShowTreemap, onSide: cfg.UI.TreemapOnSide},
		openDlg:    &openModal{},
		unreadable: &unreadableModal{},
		stats:      &statsModal{},
		keys:       defaultKeyMap(),
		registry:   newCommandRegistry(commands()),
		cachePath:  cfg.Cache.Path,
		startPath:  startPath,
		width:      80,
		height:     24,
	}
	a.statusTimeout = time.Duration(cfg.UI.StatusBarTimeoutMillisec) * time.Millisecond
	a.longTimeout = time.Duration(cfg.UI.LongMessageTimeoutMilli) * time.Millisecond

	a.controller = session.New(session.Deps{
		Engine:       engine,
		Trees:        engine,
		Selection:    a.pane,
		View:         a.pane,
		Status:       a.status,
		Scheduler:    a.sched,
		StaleWindows: []session.StaleWindow{a.unreadable},
	}, session.Config{
		TickInterval:  time.Duration(cfg.UI.ProgressTickMillisec) * time.Millisecond,
		ExpandDelay:   time.Duration(cfg.UI.TreeExpandDelayMillisec) * time.Millisecond,
		StatusTimeout: a.statusTimeout,
		LongTimeout:   a.longTimeout,
	})
	a.pane.onCurrentChanged = a.controller.CurrentItemChanged
	a.controller.OnStateChange(a.refreshAvailability)
	return a
}

// AttachProgram hands the running program to the scheduler and the status
// bar, so their timers post back into the Update loop.
func (a *App) AttachProgram(p *tea.Program) {
	a.sched.send = p.Send
	a.status.schedule = func(gen int, after time.Duration) {
		time.AfterFunc(after, func() {
			p.Send(statusExpireMsg{gen: gen})
		})
	}
}

type scanEventMsg struct{ ev scan.Event }

type statusExpireMsg struct{ gen int }

type initialOpenMsg struct{}

func (a *App) waitForScanEvent() tea.Cmd {
	return func() tea.Msg {
		return scanEventMsg{ev: <-a.engine.Events()}
	}
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.waitForScanEvent()}
	if a.startPath != "" {
		cmds = append(cmds, func() tea.Msg { return initialOpenMsg{} })
	}
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height

	case schedulerFiredMsg:
		m.fn()

	case statusExpireMsg:
		a.status.expire(m.gen)

	case initialOpenMsg:
		a.openPath(a.startPath)

	case scanEventMsg:
		a.handleScanEvent(m.ev)
		a.refreshAvailability()
		return a, a.waitForScanEvent()

	case tea.KeyMsg:
		cmd := a.handleKey(m)
		a.refreshAvailability()
		return a, cmd
	}
	a.refreshAvailability()
	return a, nil
}

func (a *App) handleScanEvent(ev scan.Event) {
	switch e := ev.(type) {
	case scan.Started:
		a.progress = scan.Progress{}
		a.controller.ScanStarted(e.URL)
	case scan.Progress:
		a.progress = e
	case scan.Finished:
		// install the tree before the idle transition so sorting and the
		// future selection see the new items
		a.pane.SetTree(a.engine.Tree())
		a.treemap.rebuild()
		a.unreadable.populate(a.engine.Tree())
		a.controller.ScanFinished()
	case scan.Aborted:
		a.pane.SetTree(a.engine.Tree())
		a.controller.ScanAborted()
	}
}

// openPath expands the input to an absolute path and starts a scan. On
// failure the open dialog stays up with the error; the controller already
// put the long message on the status bar.
func (a *App) openPath(path string) {
	abs := path
	if !filepath.IsAbs(path) {
		if p, err := filepath.Abs(path); err == nil {
			abs = p
		}
	}
	if err := a.controller.Open(abs); err != nil {
		if a.openDlg.open {
			a.openDlg.errText = err.Error()
			if hint := a.engine.Tree().SuggestSibling(abs); hint != "" {
				a.openDlg.errText += "  (did you mean " + hint + "?)"
			}
		}
		return
	}
	a.openDlg.close()
}

func (a *App) refreshAvailability() {
	top := a.engine.Tree().FirstToplevel()
	a.avail = a.controller.Availability(a.treemap.flags(a.pane.CurrentItem(), top))
}

func (a *App) handleKey(m tea.KeyMsg) tea.Cmd {
	if a.openDlg.open {
		return a.handleOpenDialogKey(m)
	}
	if a.unreadable.open || a.stats.open {
		if m.String() == "esc" || m.String() == "q" {
			a.unreadable.Close()
			a.stats.close()
		}
		return nil
	}
	if a.status.warning && m.String() == "esc" {
		a.status.dismissWarning()
		return nil
	}

	switch {
	case key.Matches(m, a.keys.Quit):
		return tea.Quit
	case key.Matches(m, a.keys.Open):
		a.openDlg.show("")
	case key.Matches(m, a.keys.Stop):
		a.registry.Execute("stop-scan", a)
	case key.Matches(m, a.keys.Refresh):
		a.registry.Execute("refresh-all", a)
	case key.Matches(m, a.keys.RefreshSelected):
		a.registry.Execute("refresh-selected", a)

	case key.Matches(m, a.keys.Up):
		a.pane.moveCursor(-1, a.treeHeight())
	case key.Matches(m, a.keys.Down):
		a.pane.moveCursor(1, a.treeHeight())
	case key.Matches(m, a.keys.PageUp):
		a.pane.moveCursor(-a.treeHeight(), a.treeHeight())
	case key.Matches(m, a.keys.PageDown):
		a.pane.moveCursor(a.treeHeight(), a.treeHeight())
	case key.Matches(m, a.keys.Left):
		a.pane.collapseCursor()
	case key.Matches(m, a.keys.Right):
		a.pane.expandCursor()
	case key.Matches(m, a.keys.Select):
		a.pane.toggleSelect()

	case key.Matches(m, a.keys.NavigateUp):
		a.registry.Execute("navigate-up", a)
	case key.Matches(m, a.keys.NavigateTop):
		a.registry.Execute("navigate-top", a)
	case key.Matches(m, a.keys.Back):
		a.controller.NavigateBack()
	case key.Matches(m, a.keys.Forward):
		a.controller.NavigateForward()

	case key.Matches(m, a.keys.CopyPath):
		a.registry.Execute("copy-path", a)
	case key.Matches(m, a.keys.Trash):
		a.registry.Execute("move-to-trash", a)
	case key.Matches(m, a.keys.ContinueAtMount):
		a.registry.Execute("continue-at-mount-point", a)
	case key.Matches(m, a.keys.ReadExcluded):
		a.registry.Execute("read-excluded", a)

	case key.Matches(m, a.keys.ReadCache):
		a.registry.Execute("read-cache", a)
	case key.Matches(m, a.keys.WriteCache):
		a.registry.Execute("write-cache", a)

	case key.Matches(m, a.keys.TreemapToggle):
		a.treemap.visible = !a.treemap.visible
	case key.Matches(m, a.keys.TreemapSide):
		a.registry.Execute("treemap-side", a)
	case key.Matches(m, a.keys.ZoomIn):
		a.registry.Execute("treemap-zoom-in", a)
	case key.Matches(m, a.keys.ZoomOut):
		a.registry.Execute("treemap-zoom-out", a)
	case key.Matches(m, a.keys.ZoomReset):
		a.registry.Execute("treemap-zoom-reset", a)
	case key.Matches(m, a.keys.TreemapRebuild):
		a.registry.Execute("treemap-rebuild", a)

	case key.Matches(m, a.keys.TypeStats):
		a.registry.Execute("type-stats", a)
	case key.Matches(m, a.keys.SizeStats):
		a.registry.Execute("size-stats", a)
	case key.Matches(m, a.keys.AgeStats):
		a.registry.Execute("age-stats", a)

	case key.Matches(m, a.keys.Unreadable):
		a.unreadable.populate(a.engine.Tree())
		a.unreadable.show()
	}
	return nil
}

func (a *App) handleOpenDialogKey(m tea.KeyMsg) tea.Cmd {
	switch m.Type {
	case tea.KeyEsc:
		a.openDlg.close()
	case tea.KeyEnter:
		if a.openDlg.input == "" {
			a.openDlg.errText = "enter a directory path"
			return nil
		}
		a.openPath(a.openDlg.input)
	case tea.KeyBackspace, tea.KeyCtrlH:
		if len(a.openDlg.input) > 0 {
			a.openDlg.input = a.openDlg.input[:len(a.openDlg.input)-1]
		}
	case tea.KeySpace:
		a.openDlg.input += " "
	case tea.KeyRunes:
		a.openDlg.input += string(m.Runes)
	}
	return nil
}
