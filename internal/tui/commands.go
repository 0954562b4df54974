package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/seliv/dirscope/internal/cache"
	"github.com/seliv/dirscope/internal/tree"
	"github.com/seliv/dirscope/internal/trash"
)

// Command is one user-invokable operation. Enabled is evaluated against the
// freshly recomputed availability snapshot; a disabled command reports its
// reason on the status bar instead of running.
type Command struct {
	ID          string
	Name        string
	Description string
	Enabled     func(a *App) (bool, string)
	Execute     func(a *App)
}

type CommandRegistry struct {
	byID map[string]Command
}

func newCommandRegistry(cmds []Command) *CommandRegistry {
	reg := &CommandRegistry{byID: map[string]Command{}}
	for _, c := range cmds {
		if c.ID != "" {
			reg.byID[c.ID] = c
		}
	}
	return reg
}

func (r *CommandRegistry) Execute(id string, a *App) {
	c, ok := r.byID[id]
	if !ok {
		a.status.ShowMessage("Unknown command: "+id, a.statusTimeout)
		return
	}
	if c.Enabled != nil {
		if enabled, reason := c.Enabled(a); !enabled {
			if reason == "" {
				reason = "Not available right now"
			}
			a.status.ShowMessage(reason, a.statusTimeout)
			return
		}
	}
	c.Execute(a)
}

func commands() []Command {
	return []Command{
		{
			ID:   "stop-scan",
			Name: "Stop reading",
			Enabled: func(a *App) (bool, string) {
				return a.avail.StopScan, "No scan is running"
			},
			Execute: func(a *App) { a.controller.RequestStop() },
		},
		{
			ID:   "refresh-all",
			Name: "Refresh all",
			Enabled: func(a *App) (bool, string) {
				return a.avail.RefreshAll, "Busy reading"
			},
			Execute: func(a *App) {
				if a.engine.Tree().URL() == "" {
					a.openDlg.show("")
					return
				}
				_ = a.controller.RefreshAll()
			},
		},
		{
			ID:   "refresh-selected",
			Name: "Refresh selected subtree",
			Enabled: func(a *App) (bool, string) {
				return a.avail.RefreshSelected, "Selection cannot be refreshed"
			},
			Execute: func(a *App) { _ = a.controller.RefreshSelected() },
		},
		{
			ID:   "continue-at-mount-point",
			Name: "Continue reading at mount point",
			Enabled: func(a *App) (bool, string) {
				return a.avail.ContinueAtMountPoint, "Select a mount point first"
			},
			Execute: func(a *App) {
				sel := a.pane.SelectedItems()[0]
				a.engine.AllowMountPoint(sel.Path())
				a.controller.FutureSelection().Set(sel.Path())
				_ = a.controller.RefreshAll()
			},
		},
		{
			ID:   "read-excluded",
			Name: "Read excluded directory",
			Enabled: func(a *App) (bool, string) {
				return a.avail.ReadExcluded, "Select an excluded directory first"
			},
			Execute: func(a *App) {
				sel := a.pane.SelectedItems()[0]
				a.engine.AllowExcluded(sel.Path())
				a.controller.FutureSelection().Set(sel.Path())
				_ = a.controller.RefreshAll()
			},
		},
		{
			ID:   "copy-path",
			Name: "Copy path",
			Enabled: func(a *App) (bool, string) {
				return a.avail.CopyPath, "No current item"
			},
			Execute: func(a *App) {
				a.status.ShowMessage("Path: "+a.pane.CurrentItem().Path(), a.longTimeout)
			},
		},
		{
			ID:   "navigate-up",
			Name: "Go up one level",
			Enabled: func(a *App) (bool, string) {
				return a.avail.NavigateUp, "Already at the top"
			},
			Execute: func(a *App) {
				parent := a.pane.CurrentItem().Parent
				for parent != nil && parent.IsPseudoDir() {
					parent = parent.Parent
				}
				if parent != nil && parent.Parent != nil {
					a.pane.SetCurrentItem(parent, true)
				}
			},
		},
		{
			ID:   "navigate-top",
			Name: "Go to toplevel",
			Enabled: func(a *App) (bool, string) {
				return a.avail.NavigateToTop, "Nothing is open"
			},
			Execute: func(a *App) {
				a.controller.ExpandTreeToLevel(1)
				a.pane.SetCurrentItem(a.engine.Tree().FirstToplevel(), true)
			},
		},
		{
			ID:   "move-to-trash",
			Name: "Move to trash",
			Enabled: func(a *App) (bool, string) {
				return a.avail.MoveToTrash, "Selection cannot be trashed"
			},
			Execute: func(a *App) { moveToTrash(a) },
		},
		{
			ID:   "read-cache",
			Name: "Read cache file",
			Enabled: func(a *App) (bool, string) {
				return a.avail.ReadCache, "Busy reading"
			},
			Execute: func(a *App) { readCache(a) },
		},
		{
			ID:   "write-cache",
			Name: "Write cache file",
			Enabled: func(a *App) (bool, string) {
				return a.avail.WriteCache, "Busy reading"
			},
			Execute: func(a *App) { writeCache(a) },
		},
		{
			ID:   "type-stats",
			Name: "File type statistics",
			Enabled: func(a *App) (bool, string) {
				return a.avail.FileTypeStats, "Select one directory or nothing"
			},
			Execute: func(a *App) { a.stats.show(statsByType, a.selectedDirOrRoot()) },
		},
		{
			ID:   "size-stats",
			Name: "File size statistics",
			Enabled: func(a *App) (bool, string) {
				return a.avail.FileSizeStats, "Select one directory or nothing"
			},
			Execute: func(a *App) { a.stats.show(statsBySize, a.selectedDirOrRoot()) },
		},
		{
			ID:   "age-stats",
			Name: "File age statistics",
			Enabled: func(a *App) (bool, string) {
				return a.avail.FileAgeStats, "Select one directory or nothing"
			},
			Execute: func(a *App) { a.stats.show(statsByAge, a.selectedDirOrRoot()) },
		},
		{
			ID:   "treemap-zoom-in",
			Name: "Treemap zoom in",
			Enabled: func(a *App) (bool, string) {
				return a.avail.TreemapZoomIn, "Cannot zoom in here"
			},
			Execute: func(a *App) {
				a.treemap.zoomIn(a.pane.CurrentItem(), a.engine.Tree().FirstToplevel())
			},
		},
		{
			ID:   "treemap-zoom-out",
			Name: "Treemap zoom out",
			Enabled: func(a *App) (bool, string) {
				return a.avail.TreemapZoomOut, "Cannot zoom out"
			},
			Execute: func(a *App) { a.treemap.zoomOut(a.engine.Tree().FirstToplevel()) },
		},
		{
			ID:   "treemap-zoom-reset",
			Name: "Reset treemap zoom",
			Enabled: func(a *App) (bool, string) {
				return a.avail.TreemapZoomReset, "Cannot zoom out"
			},
			Execute: func(a *App) { a.treemap.resetZoom() },
		},
		{
			ID:   "treemap-rebuild",
			Name: "Rebuild treemap",
			Enabled: func(a *App) (bool, string) {
				return a.avail.TreemapRebuild, "Treemap is hidden"
			},
			Execute: func(a *App) { a.treemap.rebuild() },
		},
		{
			ID:   "treemap-side",
			Name: "Treemap as side panel",
			Enabled: func(a *App) (bool, string) {
				return a.avail.TreemapSidePanel, "Treemap is hidden"
			},
			Execute: func(a *App) { a.treemap.onSide = !a.treemap.onSide },
		},
	}
}

// selectedDirOrRoot mirrors the desktop behavior: the single selected
// directory, else the toplevel item.
func (a *App) selectedDirOrRoot() *tree.Item {
	selected := a.pane.SelectedItems()
	if len(selected) == 1 && selected[0].IsDir() && !selected[0].IsPseudoDir() {
		return selected[0]
	}
	return a.engine.Tree().FirstToplevel()
}

func moveToTrash(a *App) {
	selected := a.pane.SelectedItems()
	failed := 0
	var parentPath string
	for _, it := range selected {
		if parentPath == "" && it.Parent != nil && it.Parent.Parent != nil {
			parentPath = it.Parent.Path()
		}
		if err := trash.Put(it.Path()); err != nil {
			failed++
		}
	}
	if failed > 0 {
		a.status.ShowMessage(fmt.Sprintf("Move to trash failed for %d of %d items", failed, len(selected)), a.longTimeout)
	} else {
		a.status.ShowMessage(fmt.Sprintf("Moved %d items to trash", len(selected)), a.statusTimeout)
	}
	// the tree no longer matches the filesystem; rescan and come back to
	// the parent of the trashed items
	if parentPath != "" {
		a.controller.FutureSelection().Set(parentPath)
	}
	_ = a.controller.RefreshAll()
}

func readCache(a *App) {
	db, err := cache.Open(a.cachePath)
	if err != nil {
		a.status.ShowMessage(fmt.Sprintf("ERROR reading cache file %s: %v", a.cachePath, err), a.longTimeout)
		return
	}
	defer db.Close()
	t, err := cache.Read(db)
	if err != nil {
		a.status.ShowMessage(fmt.Sprintf("ERROR reading cache file %s: %v", a.cachePath, err), a.longTimeout)
		return
	}
	if err := a.engine.AdoptTree(t); err != nil {
		a.status.ShowMessage(err.Error(), a.statusTimeout)
		return
	}
	a.controller.History().Clear()
	// run the adopted tree through a regular busy/idle cycle so sorting,
	// expansion and availability end up exactly as after a real scan
	a.controller.ScanStarted(t.URL())
	a.pane.SetTree(t)
	a.treemap.rebuild()
	a.controller.ScanFinished()
}

func writeCache(a *App) {
	t := a.engine.Tree()
	if t.Empty() {
		a.status.ShowMessage("Nothing to write", a.statusTimeout)
		return
	}
	if err := ensureDir(a.cachePath); err != nil {
		a.status.ShowMessage(fmt.Sprintf("ERROR writing cache file %s: %v", a.cachePath, err), a.longTimeout)
		return
	}
	db, err := cache.Open(a.cachePath)
	if err != nil {
		a.status.ShowMessage(fmt.Sprintf("ERROR writing cache file %s: %v", a.cachePath, err), a.longTimeout)
		return
	}
	defer db.Close()
	if err := cache.Write(db, t); err != nil {
		a.status.ShowMessage(fmt.Sprintf("ERROR writing cache file %s: %v", a.cachePath, err), a.longTimeout)
		return
	}
	a.status.ShowMessage("Directory tree written to "+a.cachePath, a.statusTimeout)
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
