// Package tree holds the in-memory directory tree that a scan produces and
// the views navigate. Items are plain nodes; all sizes are bytes.
package tree

import (
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// PseudoDirName is the display name of the synthetic node that aggregates
// the plain files of a directory which also has subdirectories.
const PseudoDirName = "<Files>"

// Kind classifies a tree node.
type Kind int

const (
	KindFile Kind = iota
	KindDir
	KindPseudoDir
	KindPkg
)

// ReadState records how reading a directory went.
type ReadState int

const (
	ReadOK ReadState = iota
	ReadPermissionDenied
	ReadError
)

// Item is one node of the directory tree.
type Item struct {
	Name       string
	Parent     *Item
	Children   []*Item
	Kind       Kind
	Size       int64 // own size; directories count their own entry only
	MTime      time.Time
	MountPoint bool
	Excluded   bool
	ReadState  ReadState

	total int64 // subtree size, filled in by Finalize
}

// IsDir reports whether the item is a real or pseudo directory.
func (it *Item) IsDir() bool {
	return it.Kind == KindDir || it.Kind == KindPseudoDir || it.Kind == KindPkg
}

func (it *Item) IsPseudoDir() bool { return it.Kind == KindPseudoDir }

func (it *Item) IsPkg() bool { return it.Kind == KindPkg }

// Depth is the tree level of the item: toplevel items have depth 1, the
// invisible root has depth 0.
func (it *Item) Depth() int {
	depth := 0
	for p := it.Parent; p != nil; p = p.Parent {
		depth++
	}
	return depth
}

// Path joins the names up to the toplevel item. The toplevel item's Name is
// its absolute path, so the result is absolute as well. Pseudo directories
// keep their angle-bracket name as a path component.
func (it *Item) Path() string {
	if it.Parent == nil || it.Parent.Parent == nil {
		return it.Name
	}
	return filepath.Join(it.Parent.Path(), it.Name)
}

// TotalSize is the cumulative size of the item's subtree. Valid after the
// owning tree has been finalized.
func (it *Item) TotalSize() int64 {
	if it.total > 0 {
		return it.total
	}
	return it.Size
}

// PercentOfParent returns the item's share of its parent subtree, 0..100.
func (it *Item) PercentOfParent() float64 {
	if it.Parent == nil || it.Parent.Parent == nil {
		return 100
	}
	parentTotal := it.Parent.TotalSize()
	if parentTotal <= 0 {
		return 0
	}
	return 100 * float64(it.TotalSize()) / float64(parentTotal)
}

// AddChild appends a child and sets its parent pointer.
func (it *Item) AddChild(child *Item) {
	child.Parent = it
	it.Children = append(it.Children, child)
}

// Child returns the direct child with the given name, or nil.
func (it *Item) Child(name string) *Item {
	for _, c := range it.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// PseudoChild returns the item's pseudo-directory child, or nil.
func (it *Item) PseudoChild() *Item {
	for _, c := range it.Children {
		if c.Kind == KindPseudoDir {
			return c
		}
	}
	return nil
}

// finalize computes subtree totals bottom-up.
func (it *Item) finalize() int64 {
	total := it.Size
	for _, c := range it.Children {
		total += c.finalize()
	}
	it.total = total
	return total
}

// SortChildrenByName orders children case-insensitively by name, pseudo
// directories last. This is the sort used while a scan is running.
func (it *Item) SortChildrenByName() {
	sort.SliceStable(it.Children, func(i, j int) bool {
		a, b := it.Children[i], it.Children[j]
		if a.IsPseudoDir() != b.IsPseudoDir() {
			return !a.IsPseudoDir()
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}

// SortChildrenBySize orders children by subtree size descending, the default
// idle sort (percentage of parent and subtree size order identically).
func (it *Item) SortChildrenBySize() {
	sort.SliceStable(it.Children, func(i, j int) bool {
		return it.Children[i].TotalSize() > it.Children[j].TotalSize()
	})
}
