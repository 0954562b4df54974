package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/seliv/dirscope/internal/session"
	"github.com/seliv/dirscope/internal/tree"
)

// treemapPane renders the subtree under the zoom root as proportional bars.
// Its visibility and zoom state feed the availability matrix.
type treemapPane struct {
	visible bool
	onSide  bool
	zoom    *tree.Item // nil means the toplevel item
}

// effectiveRoot resolves the zoom root against the current tree; a zoom
// root from a replaced tree falls back to the toplevel.
func (tm *treemapPane) effectiveRoot(top *tree.Item) *tree.Item {
	if tm.zoom == nil || top == nil {
		return top
	}
	for a := tm.zoom; a != nil; a = a.Parent {
		if a == top {
			return tm.zoom
		}
	}
	return top
}

func (tm *treemapPane) flags(current, top *tree.Item) session.ViewFlags {
	root := tm.effectiveRoot(top)
	return session.ViewFlags{
		TreemapVisible: tm.visible,
		CanZoomIn:      current != nil && current.IsDir() && current != root && isUnder(current, root),
		CanZoomOut:     root != nil && root != top,
	}
}

func isUnder(it, root *tree.Item) bool {
	for a := it; a != nil; a = a.Parent {
		if a == root {
			return true
		}
	}
	return false
}

func (tm *treemapPane) zoomIn(current, top *tree.Item) {
	if tm.flags(current, top).CanZoomIn {
		tm.zoom = current
	}
}

func (tm *treemapPane) zoomOut(top *tree.Item) {
	root := tm.effectiveRoot(top)
	if root != nil && root != top {
		tm.zoom = root.Parent
		if tm.zoom == top {
			tm.zoom = nil
		}
	}
}

func (tm *treemapPane) resetZoom() { tm.zoom = nil }

// rebuild drops state referring to the previous tree.
func (tm *treemapPane) rebuild() { tm.zoom = nil }

func (tm *treemapPane) render(top *tree.Item, width, height int) string {
	root := tm.effectiveRoot(top)
	if root == nil {
		return ""
	}

	title := modalTitleStyle.Render("Treemap: " + root.Name)
	lines := []string{title}

	children := append([]*tree.Item(nil), root.Children...)
	rootTotal := root.TotalSize()
	barWidth := width - 2
	if barWidth < 10 {
		barWidth = 10
	}

	shown := 0
	for i, c := range children {
		if shown >= height-2 {
			lines = append(lines, percentStyle.Render(fmt.Sprintf("… %d more", len(children)-i)))
			break
		}
		frac := 0.0
		if rootTotal > 0 {
			frac = float64(c.TotalSize()) / float64(rootTotal)
		}
		barLen := int(frac * float64(barWidth))
		if barLen < 1 {
			barLen = 1
		}
		color := treemapBarColors[i%len(treemapBarColors)]
		bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", barLen))
		label := fmt.Sprintf(" %s  %s (%.1f%%)", c.Name, humanize.IBytes(uint64(c.TotalSize())), frac*100)
		lines = append(lines, bar+percentStyle.Render(label))
		shown++
	}
	return strings.Join(lines, "\n")
}
