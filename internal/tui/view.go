package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const treemapPaneHeight = 10

// treeHeight is the number of tree rows that fit between the header and the
// bottom bars in the current layout.
func (a *App) treeHeight() int {
	h := a.height - 3 // header, status bar, footer
	if a.status.warning {
		h--
	}
	if a.treemap.visible && !a.treemap.onSide {
		h -= treemapPaneHeight
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (a *App) View() string {
	var modal string
	switch {
	case a.openDlg.open:
		modal = a.openDlg.render(a.width)
	case a.unreadable.open:
		modal = a.unreadable.render(a.width, a.height)
	case a.stats.open:
		modal = a.stats.render(a.width, a.height)
	}
	if modal != "" {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
	}

	var b strings.Builder
	b.WriteString(a.renderHeader())
	b.WriteByte('\n')
	b.WriteString(a.renderBody())
	b.WriteByte('\n')
	if a.status.warning {
		b.WriteString(warningStyle.Width(a.width).Render(
			"Some directories could not be read. Results may be incomplete. Press U for details, esc to dismiss."))
		b.WriteByte('\n')
	}
	b.WriteString(statusBarStyle.Width(a.width).Render(a.status.text))
	b.WriteByte('\n')
	b.WriteString(a.renderFooter())
	return b.String()
}

func (a *App) renderHeader() string {
	title := headerAppStyle.Render("dirscope")
	info := ""
	if url := a.engine.Tree().URL(); url != "" {
		info = "  " + url
	}
	if a.controller.Busy() {
		info = fmt.Sprintf("  %s  %d dirs  %d files  %s",
			a.controller.CurrentSession().URL,
			a.progress.Dirs, a.progress.Files,
			sizeStyle.Render(humanize.IBytes(uint64(a.progress.Bytes))))
	}
	return headerBarStyle.Width(a.width).Render(title + info)
}

func (a *App) renderBody() string {
	treeH := a.treeHeight()
	if !a.treemap.visible {
		return padToHeight(a.pane.render(a.width, treeH), treeH)
	}
	top := a.engine.Tree().FirstToplevel()
	if a.treemap.onSide {
		treeW := a.width * 3 / 5
		mapW := a.width - treeW - 1
		left := padToHeight(a.pane.render(treeW, treeH), treeH)
		right := padToHeight(a.treemap.render(top, mapW, treeH), treeH)
		return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
	}
	tree := padToHeight(a.pane.render(a.width, treeH), treeH)
	tmap := padToHeight(a.treemap.render(top, a.width, treemapPaneHeight), treemapPaneHeight)
	return tree + "\n" + tmap
}

func (a *App) renderFooter() string {
	var hints []string
	if a.avail.StopScan {
		hints = append(hints, "s stop")
	} else {
		hints = append(hints, "o open", "r refresh")
	}
	if a.avail.NavigateUp {
		hints = append(hints, "u up")
	}
	if a.controller.History().CanGoBack() {
		hints = append(hints, "[ back")
	}
	if a.controller.History().CanGoForward() {
		hints = append(hints, "] fwd")
	}
	if a.avail.MoveToTrash {
		hints = append(hints, "d trash")
	}
	if a.avail.ContinueAtMountPoint {
		hints = append(hints, "M read mount")
	}
	if a.avail.ReadExcluded {
		hints = append(hints, "E read excluded")
	}
	hints = append(hints, "m treemap", "T/S/A stats", "q quit")
	return footerStyle.Width(a.width).Render(strings.Join(hints, "  "))
}

func padToHeight(s string, h int) string {
	lines := strings.Count(s, "\n") + 1
	if s == "" {
		lines = 0
	}
	for ; lines < h; lines++ {
		s += "\n"
	}
	return s
}
