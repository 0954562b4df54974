// Package scan is the asynchronous filesystem scan engine. It owns the
// walker goroutine and the current tree; everything else observes it through
// the event channel and the busy flag.
package scan

import (
	"context"
	"fmt"
	"os"
	"sync"

	"golang.org/x/time/rate"

	"github.com/seliv/dirscope/internal/tree"
)

// Event is a scan engine notification. Events are delivered on a buffered
// channel that the UI event loop drains and re-dispatches serially.
type Event interface{ isEvent() }

// Started is emitted once the walker goroutine is running.
type Started struct{ URL string }

// Progress is emitted while walking, throttled to a few per second.
type Progress struct {
	Dirs        int64
	Files       int64
	Bytes       int64
	CurrentPath string
}

// Finished is emitted after a complete walk; the new tree is installed
// before this event is sent.
type Finished struct{}

// Aborted is emitted when the walker acknowledges a cancellation.
type Aborted struct{}

func (Started) isEvent()  {}
func (Progress) isEvent() {}
func (Finished) isEvent() {}
func (Aborted) isEvent()  {}

// Options configures a scan engine.
type Options struct {
	// CrossFilesystems lets the walker descend into mount points.
	CrossFilesystems bool
	// ExcludePatterns are directory base names (shell patterns) that are
	// recorded but not descended into.
	ExcludePatterns []string
	// ProgressInterval caps the rate of Progress events; zero means the
	// default of 10 per second.
	ProgressInterval float64
}

// Engine runs one scan at a time. The mutex only guards the handful of
// fields shared with the walker goroutine; all lifecycle decisions stay in
// the single-threaded session core.
type Engine struct {
	opts   Options
	events chan Event

	mu             sync.Mutex
	busy           bool
	cancel         context.CancelFunc
	current        *tree.Tree
	allowExcluded  map[string]bool
	allowMount     map[string]bool
	unreadableDirs int
}

// NewEngine builds an idle engine with an empty tree.
func NewEngine(opts Options) *Engine {
	return &Engine{
		opts:          opts,
		events:        make(chan Event, 64),
		current:       tree.New("", nil),
		allowExcluded: map[string]bool{},
		allowMount:    map[string]bool{},
	}
}

// Events returns the notification channel.
func (e *Engine) Events() <-chan Event { return e.events }

// IsBusy reports whether a walk is in flight.
func (e *Engine) IsBusy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busy
}

// Tree returns the current tree. It is replaced wholesale at the end of a
// scan, never mutated afterwards.
func (e *Engine) Tree() *tree.Tree {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// AdoptTree installs a tree read from cache as the current one. Only valid
// while idle.
func (e *Engine) AdoptTree(t *tree.Tree) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.busy {
		return fmt.Errorf("scan in progress")
	}
	e.current = t
	e.unreadableDirs = t.UnreadableDirCount()
	return nil
}

// UnreadableDirCount reports the unreadable subdirectories of the last
// completed scan.
func (e *Engine) UnreadableDirCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.unreadableDirs
}

// AllowExcluded lets the next scan descend into an otherwise excluded
// directory.
func (e *Engine) AllowExcluded(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.allowExcluded[path] = true
}

// AllowMountPoint lets the next scan continue reading at a mount point.
func (e *Engine) AllowMountPoint(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.allowMount[path] = true
}

// Start validates the target and launches the walker goroutine. Package and
// unpackaged-file URLs cannot be walked; a target that cannot be opened
// fails synchronously so the caller can re-prompt.
func (e *Engine) Start(url string) error {
	if tree.IsPkgURL(url) || tree.IsUnpkgURL(url) {
		return fmt.Errorf("cannot scan %s: package views are not supported", url)
	}

	fi, err := os.Lstat(url)
	if err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("open %s: not a directory", url)
	}
	if f, err := os.Open(url); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	} else {
		f.Close()
	}

	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return fmt.Errorf("scan already in progress")
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.busy = true
	e.cancel = cancel
	e.mu.Unlock()

	interval := e.opts.ProgressInterval
	if interval <= 0 {
		interval = 10
	}

	w := &walker{
		engine:   e,
		limiter:  rate.NewLimiter(rate.Limit(interval), 1),
		rootInfo: fi,
	}
	go w.run(ctx, url)
	return nil
}

// AbortReading requests cancellation. Advisory: the walker acknowledges
// with an Aborted event when it winds down.
func (e *Engine) AbortReading() {
	e.mu.Lock()
	cancel := e.cancel
	e.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// emit delivers an event without ever blocking the walker; if the UI falls
// behind, progress events are dropped.
func (e *Engine) emit(ev Event) {
	if _, ok := ev.(Progress); ok {
		select {
		case e.events <- ev:
		default:
		}
		return
	}
	e.events <- ev
}

// finish installs the walk result and flips to idle before notifying.
func (e *Engine) finish(t *tree.Tree, unreadable int, aborted bool) {
	e.mu.Lock()
	if !aborted {
		e.current = t
		e.unreadableDirs = unreadable
	}
	e.busy = false
	e.cancel = nil
	e.allowExcluded = map[string]bool{}
	e.allowMount = map[string]bool{}
	e.mu.Unlock()

	if aborted {
		e.emit(Aborted{})
	} else {
		e.emit(Finished{})
	}
}
