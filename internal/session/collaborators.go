// Package session coordinates the scan lifecycle: busy/idle state, the
// progress ticker, deferred tree expansion, future selection, action
// availability, and navigation history. It performs no filesystem I/O and no
// rendering; everything observable happens through the narrow collaborator
// interfaces below.
//
// All methods must be called from a single event loop. Scheduler
// implementations are required to deliver their callbacks on that same loop,
// so no locking happens here.
package session

import (
	"time"

	"github.com/seliv/dirscope/internal/tree"
)

// Engine is the asynchronous scan engine. Start validates the target
// synchronously and returns an error when it cannot be opened; the busy/idle
// notifications arrive later through the event loop.
type Engine interface {
	Start(url string) error
	AbortReading()
	IsBusy() bool
	UnreadableDirCount() int
}

// TreeSource hands out the current tree. The tree is rebuilt by every scan,
// which is why future selections are stored as paths and resolved here only
// after the rebuild is done.
type TreeSource interface {
	Tree() *tree.Tree
}

// SelectionView is the selection state of the tree pane.
type SelectionView interface {
	CurrentItem() *tree.Item
	SelectedItems() []*tree.Item
	SetCurrentItem(it *tree.Item, selectIt bool)
	// CurrentBranch is the branch the user is working in, nil when none is
	// open. Deferred expansion is only armed when there is no branch yet.
	CurrentBranch() *tree.Item
}

// TreeView is the expansion and sorting surface of the tree pane.
type TreeView interface {
	ExpandToDepth(n int)
	CollapseAll()
	SetExpanded(it *tree.Item, expanded bool)
	SortByName()
	SortBySize()
}

// StatusBar reports progress and the one-shot permissions warning.
type StatusBar interface {
	ShowMessage(text string, timeout time.Duration)
	ShowPermissionsWarning()
}

// StaleWindow is a secondary window whose content does not survive a new
// scan (for example the unreadable-directories report).
type StaleWindow interface {
	Close()
}

// Timer is a stoppable scheduled callback. Stop is idempotent.
type Timer interface {
	Stop()
}

// Scheduler arms timers whose callbacks are delivered on the event loop.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
	TickEvery(d time.Duration, fn func()) Timer
}

// Clock returns the current time; swapped out in tests.
type Clock func() time.Time
