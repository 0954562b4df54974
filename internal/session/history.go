package session

// History is the back/forward list of visited paths. Index movement clamps
// at both ends; there is no wraparound. Programmatic navigation (future
// selection restores, back/forward itself) locks the list so scan-driven
// jumps do not pollute it.
type History struct {
	items  []string
	pos    int
	locked bool
}

func NewHistory() *History {
	return &History{pos: -1}
}

// Add records a visited path, dropping any forward tail. Consecutive
// duplicates and additions while locked are ignored.
func (h *History) Add(path string) {
	if h.locked || path == "" {
		return
	}
	if h.pos >= 0 && h.items[h.pos] == path {
		return
	}
	h.items = append(h.items[:h.pos+1], path)
	h.pos = len(h.items) - 1
}

func (h *History) CanGoBack() bool    { return h.pos > 0 }
func (h *History) CanGoForward() bool { return h.pos < len(h.items)-1 }

// GoBack moves one step back and returns the path there.
func (h *History) GoBack() (string, bool) {
	if !h.CanGoBack() {
		return "", false
	}
	h.pos--
	return h.items[h.pos], true
}

// GoForward moves one step forward and returns the path there.
func (h *History) GoForward() (string, bool) {
	if !h.CanGoForward() {
		return "", false
	}
	h.pos++
	return h.items[h.pos], true
}

// Clear empties the list; used when a new root is opened explicitly.
func (h *History) Clear() {
	h.items = nil
	h.pos = -1
}

// Lock suppresses Add until Unlock; used around programmatic navigation.
func (h *History) Lock()   { h.locked = true }
func (h *History) Unlock() { h.locked = false }

// Len reports the number of recorded entries.
func (h *History) Len() int { return len(h.items) }
