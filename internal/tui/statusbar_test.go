package tui

import (
	"testing"
	"time"
)

func TestStatusBarExpiryGenerations(t *testing.T) {
	var scheduled []int
	s := &statusBar{schedule: func(gen int, after time.Duration) {
		scheduled = append(scheduled, gen)
	}}

	s.ShowMessage("first", time.Second)
	s.ShowMessage("second", time.Second)
	if len(scheduled) != 2 {
		t.Fatalf("scheduled %d expiries, want 2", len(scheduled))
	}

	// the first expiry arrives late; it must not clear the newer message
	s.expire(scheduled[0])
	if s.text != "second" {
		t.Fatalf("text = %q, want second", s.text)
	}
	s.expire(scheduled[1])
	if s.text != "" {
		t.Fatalf("text = %q, want cleared", s.text)
	}
}

func TestStatusBarPermanentMessageNotScheduled(t *testing.T) {
	calls := 0
	s := &statusBar{schedule: func(int, time.Duration) { calls++ }}
	s.ShowMessage("/data/docs  (1.2 KiB)", 0)
	if calls != 0 {
		t.Fatal("zero-timeout messages must not schedule an expiry")
	}
}

func TestStatusBarWarning(t *testing.T) {
	s := &statusBar{}
	s.ShowPermissionsWarning()
	if !s.warning {
		t.Fatal("warning not shown")
	}
	s.ShowMessage("Reading... 1s", time.Second)
	if !s.warning {
		t.Fatal("ordinary messages must not clear the warning")
	}
	s.dismissWarning()
	if s.warning {
		t.Fatal("dismiss failed")
	}
}
