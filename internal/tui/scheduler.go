package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/seliv/dirscope/internal/session"
)

// schedulerFiredMsg carries a timer callback into the Update loop, so every
// callback runs serialized with all other events.
type schedulerFiredMsg struct {
	fn func()
}

// programScheduler implements session.Scheduler by posting messages through
// the running Bubble Tea program.
type programScheduler struct {
	send func(tea.Msg)
}

func (s *programScheduler) AfterFunc(d time.Duration, fn func()) session.Timer {
	t := time.AfterFunc(d, func() {
		s.send(schedulerFiredMsg{fn: fn})
	})
	return afterHandle{t}
}

func (s *programScheduler) TickEvery(d time.Duration, fn func()) session.Timer {
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				s.send(schedulerFiredMsg{fn: fn})
			case <-done:
				return
			}
		}
	}()
	return &tickerHandle{ticker: ticker, done: done}
}

type afterHandle struct{ t *time.Timer }

func (h afterHandle) Stop() { h.t.Stop() }

type tickerHandle struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (h *tickerHandle) Stop() {
	h.once.Do(func() {
		h.ticker.Stop()
		close(h.done)
	})
}
