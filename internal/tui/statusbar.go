package tui

import (
	"time"
)

// statusBar implements session.StatusBar. Messages with a timeout expire via
// a generation counter checked when the expiry message arrives, so a newer
// message is never cleared by an older timeout.
type statusBar struct {
	text string
	gen  int

	// warning is the one-shot permissions panel; it stays up until the
	// user dismisses it or a new scan starts.
	warning bool

	// schedule posts the expiry into the Update loop; wired by the app.
	schedule func(gen int, after time.Duration)
}

func (s *statusBar) ShowMessage(text string, timeout time.Duration) {
	s.text = text
	s.gen++
	if text != "" && timeout > 0 && s.schedule != nil {
		s.schedule(s.gen, timeout)
	}
}

func (s *statusBar) ShowPermissionsWarning() {
	s.warning = true
}

func (s *statusBar) dismissWarning() { s.warning = false }

// expire clears the message if no newer one replaced it meanwhile.
func (s *statusBar) expire(gen int) {
	if gen == s.gen {
		s.text = ""
	}
}
