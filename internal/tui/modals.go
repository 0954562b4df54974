package tui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/seliv/dirscope/internal/tree"
)

// --- open-path modal ---

type openModal struct {
	open    bool
	input   string
	errText string
}

func (m *openModal) show(initial string) {
	m.open = true
	m.input = initial
	m.errText = ""
}

func (m *openModal) close() {
	m.open = false
	m.errText = ""
}

func (m *openModal) render(width int) string {
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render("Open directory"))
	b.WriteString("\n\n> " + m.input + "█")
	if m.errText != "" {
		b.WriteString("\n\n" + errorRowStyle.Render(m.errText))
	}
	b.WriteString("\n\n" + percentStyle.Render("enter: scan   esc: cancel"))
	return modalStyle.Width(min(width-4, 72)).Render(b.String())
}

// --- unreadable directories report ---

// unreadableModal lists directories the last scan could not read. It is a
// stale window in the session sense: a new scan may invalidate its content
// (permissions may have been fixed meanwhile), so the controller closes it
// on every scan start.
type unreadableModal struct {
	open bool
	dirs []*tree.Item
}

// Close implements session.StaleWindow.
func (m *unreadableModal) Close() {
	m.open = false
	m.dirs = nil
}

func (m *unreadableModal) populate(t *tree.Tree) {
	m.dirs = t.UnreadableDirs()
}

func (m *unreadableModal) show() { m.open = true }

func (m *unreadableModal) render(width, height int) string {
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render("Unreadable directories"))
	b.WriteString("\n\n")
	if len(m.dirs) == 0 {
		b.WriteString("All directories could be read.")
	}
	limit := height - 6
	for i, d := range m.dirs {
		if limit > 0 && i >= limit {
			b.WriteString(percentStyle.Render(fmt.Sprintf("… %d more\n", len(m.dirs)-i)))
			break
		}
		reason := "read error"
		if d.ReadState == tree.ReadPermissionDenied {
			reason = "permission denied"
		}
		b.WriteString(errorRowStyle.Render(d.Path()) + percentStyle.Render("  ("+reason+")") + "\n")
	}
	b.WriteString("\n" + percentStyle.Render("esc: close"))
	return modalStyle.Width(min(width-4, 100)).Render(b.String())
}

// --- statistics modal ---

type statsMode int

const (
	statsByType statsMode = iota
	statsBySize
	statsByAge
)

func (m statsMode) title() string {
	switch m {
	case statsBySize:
		return "Largest files"
	case statsByAge:
		return "Files by modification year"
	default:
		return "File types"
	}
}

type statsRow struct {
	label string
	count int
	size  int64
}

type statsModal struct {
	open bool
	mode statsMode
	root *tree.Item
	rows []statsRow
}

func (m *statsModal) show(mode statsMode, root *tree.Item) {
	m.open = true
	m.mode = mode
	m.root = root
	m.rows = aggregate(mode, root)
}

func (m *statsModal) close() { m.open = false }

func aggregate(mode statsMode, root *tree.Item) []statsRow {
	byKey := map[string]*statsRow{}
	var files []*tree.Item

	var walk func(it *tree.Item)
	walk = func(it *tree.Item) {
		if it.Kind == tree.KindFile {
			files = append(files, it)
			var key string
			switch mode {
			case statsByAge:
				if it.MTime.IsZero() {
					key = "unknown"
				} else {
					key = fmt.Sprintf("%d", it.MTime.Year())
				}
			default:
				key = strings.ToLower(filepath.Ext(it.Name))
				if key == "" {
					key = "(none)"
				}
			}
			row, ok := byKey[key]
			if !ok {
				row = &statsRow{label: key}
				byKey[key] = row
			}
			row.count++
			row.size += it.Size
		}
		for _, c := range it.Children {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}

	if mode == statsBySize {
		sort.Slice(files, func(i, j int) bool { return files[i].Size > files[j].Size })
		if len(files) > 30 {
			files = files[:30]
		}
		rows := make([]statsRow, 0, len(files))
		for _, f := range files {
			rows = append(rows, statsRow{label: f.Path(), count: 1, size: f.Size})
		}
		return rows
	}

	rows := make([]statsRow, 0, len(byKey))
	for _, r := range byKey {
		rows = append(rows, *r)
	}
	if mode == statsByAge {
		sort.Slice(rows, func(i, j int) bool { return rows[i].label > rows[j].label })
	} else {
		sort.Slice(rows, func(i, j int) bool { return rows[i].size > rows[j].size })
	}
	return rows
}

func (m *statsModal) render(width, height int) string {
	var b strings.Builder
	where := ""
	if m.root != nil {
		where = " in " + m.root.Name
	}
	b.WriteString(modalTitleStyle.Render(m.mode.title() + where))
	b.WriteString("\n\n")
	limit := height - 6
	for i, r := range m.rows {
		if limit > 0 && i >= limit {
			b.WriteString(percentStyle.Render(fmt.Sprintf("… %d more\n", len(m.rows)-i)))
			break
		}
		label := r.label
		if len(label) > 50 {
			label = "…" + label[len(label)-49:]
		}
		if m.mode == statsBySize {
			b.WriteString(fmt.Sprintf("%-52s %10s\n", label, humanize.IBytes(uint64(r.size))))
		} else {
			b.WriteString(fmt.Sprintf("%-16s %6d files %10s\n", label, r.count, humanize.IBytes(uint64(r.size))))
		}
	}
	b.WriteString("\n" + percentStyle.Render("esc: close"))
	return modalStyle.Width(min(width-4, 80)).Render(b.String())
}
