package session

// FutureSelectionSlot holds at most one selection target requested before a
// scan or refresh, to be applied once that operation completes. The target
// is a path, never an item pointer: the scan rebuilds the tree, so a pointer
// captured beforehand could dangle by the time it is used.
type FutureSelectionSlot struct {
	pending         string
	has             bool
	useRootFallback bool
}

// Set stores a target, silently discarding any unconsumed previous one.
func (s *FutureSelectionSlot) Set(path string) {
	s.pending = path
	s.has = path != ""
}

// Consume returns the pending target and clears the slot. The clear happens
// whether or not the caller manages to resolve the target.
func (s *FutureSelectionSlot) Consume() (string, bool) {
	path, ok := s.pending, s.has
	s.pending, s.has = "", false
	return path, ok
}

// Clear cancels a pending target without consuming it.
func (s *FutureSelectionSlot) Clear() {
	s.pending, s.has = "", false
}

// Empty reports whether no target is pending.
func (s *FutureSelectionSlot) Empty() bool { return !s.has }

// UseRootFallback reports whether a failed resolution should fall back to
// the tree root. Always false: a failed resolution means no selection.
func (s *FutureSelectionSlot) UseRootFallback() bool { return s.useRootFallback }
