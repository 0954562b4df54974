package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/seliv/dirscope/internal/tree"
)

// treePane is the main tree view. It implements both session.SelectionView
// and session.TreeView; the controller drives sorting and expansion through
// those interfaces while key handling moves the cursor directly.
type treePane struct {
	tree     *tree.Tree
	rows     []*tree.Item
	cursor   int
	offset   int
	expanded map[*tree.Item]bool
	selected map[*tree.Item]bool
	selOrder []*tree.Item
	current  *tree.Item
	bySize   bool

	// onCurrentChanged mirrors the selection model's current-item signal;
	// the app wires it to the controller.
	onCurrentChanged func(*tree.Item)
}

func newTreePane() *treePane {
	return &treePane{
		expanded: map[*tree.Item]bool{},
		selected: map[*tree.Item]bool{},
	}
}

// SetTree installs a freshly built tree. All per-item state refers to the
// old tree's items, so it is dropped wholesale.
func (p *treePane) SetTree(t *tree.Tree) {
	p.tree = t
	p.expanded = map[*tree.Item]bool{}
	p.selected = map[*tree.Item]bool{}
	p.selOrder = nil
	p.current = nil
	p.cursor = 0
	p.offset = 0
	p.applySort()
	p.rebuildRows()
}

func (p *treePane) Tree() *tree.Tree { return p.tree }

// --- session.SelectionView ---

func (p *treePane) CurrentItem() *tree.Item { return p.current }

// SelectedItems returns the explicit selection, or the current item alone
// when nothing was explicitly selected.
func (p *treePane) SelectedItems() []*tree.Item {
	if len(p.selOrder) > 0 {
		return p.selOrder
	}
	if p.current != nil {
		return []*tree.Item{p.current}
	}
	return nil
}

func (p *treePane) SetCurrentItem(it *tree.Item, selectIt bool) {
	p.current = it
	if selectIt && it != nil {
		p.selected = map[*tree.Item]bool{it: true}
		p.selOrder = []*tree.Item{it}
	}
	if it != nil {
		p.revealItem(it)
	}
	if p.onCurrentChanged != nil {
		p.onCurrentChanged(it)
	}
}

func (p *treePane) CurrentBranch() *tree.Item { return p.current }

// --- session.TreeView ---

// ExpandToDepth expands every directory down to the given depth below the
// toplevel item (0 expands just the toplevel).
func (p *treePane) ExpandToDepth(n int) {
	if p.tree == nil {
		return
	}
	var walk func(it *tree.Item)
	walk = func(it *tree.Item) {
		if it.IsDir() && it.Depth() <= n+1 {
			p.expanded[it] = true
		}
		for _, c := range it.Children {
			walk(c)
		}
	}
	if top := p.tree.FirstToplevel(); top != nil {
		walk(top)
	}
	p.rebuildRows()
}

func (p *treePane) CollapseAll() {
	p.expanded = map[*tree.Item]bool{}
	p.rebuildRows()
}

func (p *treePane) SetExpanded(it *tree.Item, expanded bool) {
	if expanded {
		p.expanded[it] = true
	} else {
		delete(p.expanded, it)
	}
	p.rebuildRows()
}

func (p *treePane) IsExpanded(it *tree.Item) bool { return p.expanded[it] }

func (p *treePane) SortByName() {
	p.bySize = false
	p.applySort()
	p.rebuildRows()
}

func (p *treePane) SortBySize() {
	p.bySize = true
	p.applySort()
	p.rebuildRows()
}

func (p *treePane) applySort() {
	if p.tree == nil {
		return
	}
	var walk func(it *tree.Item)
	walk = func(it *tree.Item) {
		if p.bySize {
			it.SortChildrenBySize()
		} else {
			it.SortChildrenByName()
		}
		for _, c := range it.Children {
			walk(c)
		}
	}
	if top := p.tree.FirstToplevel(); top != nil {
		walk(top)
	}
}

// --- cursor and selection handling ---

func (p *treePane) rebuildRows() {
	p.rows = p.rows[:0]
	if p.tree == nil {
		return
	}
	var walk func(it *tree.Item)
	walk = func(it *tree.Item) {
		p.rows = append(p.rows, it)
		if p.expanded[it] {
			for _, c := range it.Children {
				walk(c)
			}
		}
	}
	if top := p.tree.FirstToplevel(); top != nil {
		walk(top)
	}
	if p.cursor >= len(p.rows) {
		p.cursor = len(p.rows) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func (p *treePane) cursorItem() *tree.Item {
	if p.cursor < 0 || p.cursor >= len(p.rows) {
		return nil
	}
	return p.rows[p.cursor]
}

// moveCursor moves by delta and makes the row under the cursor the current
// item, like arrow navigation in the desktop tree view.
func (p *treePane) moveCursor(delta, viewHeight int) {
	if len(p.rows) == 0 {
		return
	}
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor >= len(p.rows) {
		p.cursor = len(p.rows) - 1
	}
	p.scrollIntoView(viewHeight)
	p.current = p.rows[p.cursor]
	if p.onCurrentChanged != nil {
		p.onCurrentChanged(p.current)
	}
}

func (p *treePane) scrollIntoView(viewHeight int) {
	if viewHeight <= 0 {
		return
	}
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+viewHeight {
		p.offset = p.cursor - viewHeight + 1
	}
}

func (p *treePane) toggleSelect() {
	it := p.cursorItem()
	if it == nil {
		return
	}
	if p.selected[it] {
		delete(p.selected, it)
		for i, s := range p.selOrder {
			if s == it {
				p.selOrder = append(p.selOrder[:i], p.selOrder[i+1:]...)
				break
			}
		}
		return
	}
	p.selected[it] = true
	p.selOrder = append(p.selOrder, it)
}

func (p *treePane) expandCursor() {
	if it := p.cursorItem(); it != nil && it.IsDir() {
		p.expanded[it] = true
		p.rebuildRows()
	}
}

func (p *treePane) collapseCursor() {
	it := p.cursorItem()
	if it == nil {
		return
	}
	if p.expanded[it] {
		delete(p.expanded, it)
	} else if it.Parent != nil && it.Parent.Parent != nil {
		// collapse the parent and land on it
		delete(p.expanded, it.Parent)
		p.current = it.Parent
	}
	p.rebuildRows()
	for i, r := range p.rows {
		if r == p.current {
			p.cursor = i
			break
		}
	}
}

// revealItem expands all ancestors and puts the cursor on the item.
func (p *treePane) revealItem(it *tree.Item) {
	for a := it.Parent; a != nil && a.Parent != nil; a = a.Parent {
		p.expanded[a] = true
	}
	p.rebuildRows()
	for i, r := range p.rows {
		if r == it {
			p.cursor = i
			break
		}
	}
}

// --- rendering ---

func (p *treePane) render(width, height int) string {
	if p.tree == nil || p.tree.Empty() {
		return lipgloss.NewStyle().Foreground(colorOverlay1).
			Render("\n  No directory open. Press o to open one.")
	}
	p.scrollIntoView(height)

	var b strings.Builder
	end := p.offset + height
	if end > len(p.rows) {
		end = len(p.rows)
	}
	for i := p.offset; i < end; i++ {
		b.WriteString(p.renderRow(p.rows[i], i == p.cursor, width))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func (p *treePane) renderRow(it *tree.Item, isCursor bool, width int) string {
	indent := strings.Repeat("  ", it.Depth()-1)

	arrow := "  "
	if it.IsDir() {
		if p.expanded[it] {
			arrow = "▾ "
		} else {
			arrow = "▸ "
		}
	}

	name := it.Name
	marks := ""
	if it.MountPoint {
		marks += " ⌂"
	}
	if it.Excluded {
		marks += " [excluded]"
	}
	switch it.ReadState {
	case tree.ReadPermissionDenied:
		marks += " [permission denied]"
	case tree.ReadError:
		marks += " [read error]"
	}

	size := humanize.IBytes(uint64(it.TotalSize()))
	pct := fmt.Sprintf("%5.1f%%", it.PercentOfParent())

	left := indent + arrow + name + marks
	right := fmt.Sprintf("%10s %s", size, pct)
	pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if pad < 1 {
		pad = 1
	}
	line := left + strings.Repeat(" ", pad) + right

	switch {
	case isCursor:
		return cursorRowStyle.Width(width).Render(line)
	case p.selected[it]:
		return selectedRowStyle.Render(line)
	case it.ReadState != tree.ReadOK:
		return errorRowStyle.Render(line)
	case it.IsPseudoDir():
		return pseudoStyle.Render(line)
	case it.IsDir():
		return dirStyle.Render(line)
	default:
		return fileStyle.Render(line)
	}
}
