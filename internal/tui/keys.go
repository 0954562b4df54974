package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit            key.Binding
	Open            key.Binding
	Stop            key.Binding
	Refresh         key.Binding
	RefreshSelected key.Binding

	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Left     key.Binding
	Right    key.Binding
	Select   key.Binding

	NavigateUp  key.Binding
	NavigateTop key.Binding
	Back        key.Binding
	Forward     key.Binding

	CopyPath        key.Binding
	Trash           key.Binding
	ContinueAtMount key.Binding
	ReadExcluded    key.Binding

	ReadCache  key.Binding
	WriteCache key.Binding

	TreemapToggle  key.Binding
	TreemapSide    key.Binding
	ZoomIn         key.Binding
	ZoomOut        key.Binding
	ZoomReset      key.Binding
	TreemapRebuild key.Binding

	TypeStats key.Binding
	SizeStats key.Binding
	AgeStats  key.Binding

	Unreadable key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:            key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Open:            key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		Stop:            key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Refresh:         key.NewBinding(key.WithKeys("r", "f5"), key.WithHelp("r", "refresh")),
		RefreshSelected: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "refresh selected")),

		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "expand")),
		Select:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),

		NavigateUp:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "go up")),
		NavigateTop: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to top")),
		Back:        key.NewBinding(key.WithKeys("["), key.WithHelp("[", "back")),
		Forward:     key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "forward")),

		CopyPath:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy path")),
		Trash:           key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "trash")),
		ContinueAtMount: key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "read mount")),
		ReadExcluded:    key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "read excluded")),

		ReadCache:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "read cache")),
		WriteCache: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "write cache")),

		TreemapToggle:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "treemap")),
		TreemapSide:    key.NewBinding(key.WithKeys("V"), key.WithHelp("V", "treemap side")),
		ZoomIn:         key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "zoom in")),
		ZoomOut:        key.NewBinding(key.WithKeys("Z"), key.WithHelp("Z", "zoom out")),
		ZoomReset:      key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "reset zoom")),
		TreemapRebuild: key.NewBinding(key.WithKeys("B"), key.WithHelp("B", "rebuild")),

		TypeStats: key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "type stats")),
		SizeStats: key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "size stats")),
		AgeStats:  key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "age stats")),

		Unreadable: key.NewBinding(key.WithKeys("U"), key.WithHelp("U", "unreadable")),
	}
}
