package session_test

import (
	"testing"

	"github.com/seliv/dirscope/internal/session"
)

func TestFutureSelectionSlot(t *testing.T) {
	var s session.FutureSelectionSlot
	if !s.Empty() {
		t.Fatal("new slot must be empty")
	}
	if _, ok := s.Consume(); ok {
		t.Fatal("consuming an empty slot must report no target")
	}

	s.Set("/data/a")
	s.Set("/data/b")
	path, ok := s.Consume()
	if !ok || path != "/data/b" {
		t.Fatalf("Consume = %q, %v; a second Set must replace the first", path, ok)
	}
	if !s.Empty() {
		t.Fatal("slot must be empty after consume")
	}
}

func TestFutureSelectionClear(t *testing.T) {
	var s session.FutureSelectionSlot
	s.Set("/data/a")
	s.Clear()
	if _, ok := s.Consume(); ok {
		t.Fatal("cleared slot must not deliver a target")
	}
}

func TestFutureSelectionNoRootFallback(t *testing.T) {
	var s session.FutureSelectionSlot
	s.Set("/data/a")
	if s.UseRootFallback() {
		t.Fatal("failed resolution must mean no selection, not the root")
	}
}
