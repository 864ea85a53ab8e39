// Package debounce collapses bursts of events into one delayed action per
// quiet period. Timers are Bubble Tea ticks tagged with a generation id, so a
// superseded tick still arrives but is recognised as stale and dropped.
package debounce

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Key names an independent timer slot.
type Key string

// FiredMsg is delivered to Update when a scheduled tick elapses.
type FiredMsg struct {
	Key Key
	ID  uint64
}

// Scheduler keeps at most one armed timer per key. It is not safe for
// concurrent use; it lives inside the Update loop.
type Scheduler struct {
	next    uint64
	pending map[Key]uint64
}

// New creates an empty scheduler
func New() *Scheduler {
	return &Scheduler{pending: make(map[Key]uint64)}
}

// Schedule arms the timer for key, replacing any timer already armed for it.
// The returned command must be handed to the Bubble Tea runtime.
func (s *Scheduler) Schedule(key Key, delay time.Duration) tea.Cmd {
	s.next++
	id := s.next
	s.pending[key] = id
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return FiredMsg{Key: key, ID: id}
	})
}

// Cancel disarms the timer for key. Cancelling an idle key is a no-op.
func (s *Scheduler) Cancel(key Key) {
	delete(s.pending, key)
}

// Pending reports whether key has an armed timer.
func (s *Scheduler) Pending(key Key) bool {
	_, ok := s.pending[key]
	return ok
}

// Fire consumes msg and reports whether it belongs to the currently armed
// timer. Stale or cancelled ticks return false.
func (s *Scheduler) Fire(msg FiredMsg) bool {
	id, ok := s.pending[msg.Key]
	if !ok || id != msg.ID {
		return false
	}
	delete(s.pending, msg.Key)
	return true
}
