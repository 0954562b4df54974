package tree

import (
	"path/filepath"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Tree owns one scanned directory hierarchy. The root item is invisible; the
// first toplevel item carries the scan URL as its name.
type Tree struct {
	root *Item
	url  string
}

// New builds a tree around the given toplevel item. toplevel may be nil for
// an empty tree.
func New(url string, toplevel *Item) *Tree {
	root := &Item{Name: "", Kind: KindDir}
	if toplevel != nil {
		root.AddChild(toplevel)
	}
	return &Tree{root: root, url: url}
}

// URL returns the URL the tree was read from, "" for an empty tree.
func (t *Tree) URL() string { return t.url }

// Root returns the invisible root item.
func (t *Tree) Root() *Item { return t.root }

// FirstToplevel returns the toplevel item, or nil for an empty tree.
func (t *Tree) FirstToplevel() *Item {
	if t == nil || t.root == nil || len(t.root.Children) == 0 {
		return nil
	}
	return t.root.Children[0]
}

// Empty reports whether the tree has no toplevel item.
func (t *Tree) Empty() bool { return t.FirstToplevel() == nil }

// Finalize computes subtree totals. Call once after the tree is fully built.
func (t *Tree) Finalize() {
	if top := t.FirstToplevel(); top != nil {
		top.finalize()
	}
}

// UnreadableDirCount counts directories that could not be read.
func (t *Tree) UnreadableDirCount() int {
	count := 0
	var walk func(*Item)
	walk = func(it *Item) {
		if it.IsDir() && it.ReadState != ReadOK {
			count++
		}
		for _, c := range it.Children {
			walk(c)
		}
	}
	if top := t.FirstToplevel(); top != nil {
		walk(top)
	}
	return count
}

// UnreadableDirs returns the unreadable directories in tree order.
func (t *Tree) UnreadableDirs() []*Item {
	var out []*Item
	var walk func(*Item)
	walk = func(it *Item) {
		if it.IsDir() && it.ReadState != ReadOK {
			out = append(out, it)
		}
		for _, c := range it.Children {
			walk(c)
		}
	}
	if top := t.FirstToplevel(); top != nil {
		walk(top)
	}
	return out
}

// Locate resolves an absolute path to an item, or nil if the path is not in
// the tree. Plain files that were folded into a pseudo directory are found
// through it; the pseudo directory itself is only returned when
// findPseudoDirs is set and the path names it explicitly.
func (t *Tree) Locate(path string, findPseudoDirs bool) *Item {
	top := t.FirstToplevel()
	if top == nil || path == "" {
		return nil
	}
	if path == t.url || path == top.Name {
		return top
	}
	rel, ok := relativeTo(path, top.Name)
	if !ok {
		return nil
	}
	it := top
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if part == "" {
			continue
		}
		if part == PseudoDirName {
			pseudo := it.PseudoChild()
			if pseudo == nil || !findPseudoDirs {
				return nil
			}
			it = pseudo
			continue
		}
		next := it.Child(part)
		if next == nil {
			if pseudo := it.PseudoChild(); pseudo != nil {
				next = pseudo.Child(part)
			}
		}
		if next == nil {
			return nil
		}
		it = next
	}
	return it
}

// SuggestSibling returns the name of the closest sibling to a path whose
// final component could not be located, for "did you mean" messages. Empty
// when nothing is reasonably close.
func (t *Tree) SuggestSibling(path string) string {
	parent := t.Locate(filepath.Dir(path), false)
	if parent == nil {
		return ""
	}
	return Nearest(filepath.Base(path), childNames(parent))
}

// Nearest picks the candidate with the smallest edit distance to name,
// ignoring anything further than 3 edits away.
func Nearest(name string, candidates []string) string {
	best := ""
	bestDist := 4
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func childNames(it *Item) []string {
	names := make([]string, 0, len(it.Children))
	for _, c := range it.Children {
		if !c.IsPseudoDir() {
			names = append(names, c.Name)
		}
	}
	if pseudo := it.PseudoChild(); pseudo != nil {
		for _, c := range pseudo.Children {
			names = append(names, c.Name)
		}
	}
	return names
}

func relativeTo(path, base string) (string, bool) {
	if !strings.HasPrefix(path, base) {
		return "", false
	}
	rel := strings.TrimPrefix(path, base)
	if rel == "" {
		return "", true
	}
	if rel[0] != filepath.Separator {
		return "", false
	}
	return rel[1:], true
}
