package session

import "github.com/seliv/dirscope/internal/tree"

// ViewFlags are the view-layer inputs to the availability computation.
type ViewFlags struct {
	TreemapVisible bool
	CanZoomIn      bool
	CanZoomOut     bool
}

// Availability is the full set of UI capabilities, fully recomputed from the
// current state after every event that can change any input. It is never
// updated field by field.
type Availability struct {
	StopScan   bool
	RefreshAll bool
	ReadCache  bool
	WriteCache bool

	CopyPath      bool
	NavigateUp    bool
	NavigateToTop bool

	MoveToTrash          bool
	RefreshSelected      bool
	ContinueAtMountPoint bool
	ReadExcluded         bool

	FileSizeStats bool
	FileTypeStats bool
	FileAgeStats  bool

	TreemapSidePanel bool
	TreemapZoomIn    bool
	TreemapZoomOut   bool
	TreemapZoomReset bool
	TreemapRebuild   bool
}

// Compute derives the availability snapshot. Pure: same inputs, same output.
func Compute(busy bool, current, toplevel *tree.Item, selected []*tree.Item, view ViewFlags) Availability {
	pkgView := toplevel != nil && toplevel.IsPkg()

	var sel *tree.Item
	if len(selected) > 0 {
		sel = selected[0]
	}
	selSize := len(selected)

	oneDirSelected := selSize == 1 && sel != nil && sel.IsDir() && !sel.IsPkg()
	pseudoDirSelected := false
	pkgSelected := false
	for _, it := range selected {
		if it.IsPseudoDir() {
			pseudoDirSelected = true
		}
		if it.IsPkg() {
			pkgSelected = true
		}
	}
	nothingOrOneDir := selSize == 0 || oneDirSelected

	return Availability{
		StopScan:   busy,
		RefreshAll: !busy,
		ReadCache:  !busy,
		WriteCache: !busy,

		CopyPath:      current != nil,
		NavigateUp:    current != nil && current.Depth() > 1,
		NavigateToTop: toplevel != nil && (current == nil || current.Depth() > 1),

		MoveToTrash:          sel != nil && !pseudoDirSelected && !pkgSelected && !busy,
		RefreshSelected:      selSize == 1 && !sel.Excluded && !sel.MountPoint && !pkgView,
		ContinueAtMountPoint: oneDirSelected && sel.MountPoint,
		ReadExcluded:         oneDirSelected && sel.Excluded,

		FileSizeStats: !busy && nothingOrOneDir,
		FileTypeStats: !busy && nothingOrOneDir,
		FileAgeStats:  !busy && nothingOrOneDir,

		TreemapSidePanel: view.TreemapVisible,
		TreemapZoomIn:    view.TreemapVisible && view.CanZoomIn,
		TreemapZoomOut:   view.TreemapVisible && view.CanZoomOut,
		TreemapZoomReset: view.TreemapVisible && view.CanZoomOut,
		TreemapRebuild:   view.TreemapVisible,
	}
}
