// Package presence tracks whether the local user is typing and reports the
// transitions to a sink. It shares the composer's debounce scheduler under its
// own key.
package presence

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Syed-Musa/talkup29/internal/debounce"
)

// Key is the scheduler slot used for the idle timer.
const Key debounce.Key = "typing"

// DefaultIdle is how long the buffer must be quiet before typing ends.
const DefaultIdle = 700 * time.Millisecond

const sendTimeout = 2 * time.Second

// Sink receives presence transitions. Calls are fire-and-forget from the
// composer's point of view.
type Sink interface {
	SetTyping(ctx context.Context, typing bool) error
}

// SentMsg reports the outcome of one transition delivery.
type SentMsg struct {
	Typing bool
	Err    error
}

// Signal is the Idle/Typing state machine. Only transitions are emitted,
// never individual edits.
type Signal struct {
	sched  *debounce.Scheduler
	sink   Sink
	idle   time.Duration
	typing bool

	gen  uint64
	wire *wire
}

// wire serialises deliveries so the sink sees transitions in order. A
// delivery that lost the race to a newer one is skipped.
type wire struct {
	mu   sync.Mutex
	last uint64
}

// New creates an idle signal. sink may be nil, in which case transitions are
// tracked but not delivered.
func New(sched *debounce.Scheduler, sink Sink, idle time.Duration) *Signal {
	if idle <= 0 {
		idle = DefaultIdle
	}
	return &Signal{sched: sched, sink: sink, idle: idle, wire: &wire{}}
}

// SetIdle changes the quiet interval for timers armed from now on.
func (s *Signal) SetIdle(d time.Duration) {
	if d > 0 {
		s.idle = d
	}
}

// Typing reports the current state.
func (s *Signal) Typing() bool { return s.typing }

// Edit records a keystroke: it (re)arms the idle timer and, on the first
// edit of a quiet period, emits typing=true.
func (s *Signal) Edit() tea.Cmd {
	timer := s.sched.Schedule(Key, s.idle)
	if s.typing {
		return timer
	}
	s.typing = true
	return tea.Batch(timer, s.emit(true))
}

// Handle processes a fired timer. The second result is false when msg
// belongs to a different key.
func (s *Signal) Handle(msg debounce.FiredMsg) (tea.Cmd, bool) {
	if msg.Key != Key {
		return nil, false
	}
	if !s.sched.Fire(msg) || !s.typing {
		return nil, true
	}
	s.typing = false
	return s.emit(false), true
}

// Stop ends typing immediately, cancelling the idle timer. Used on submit
// and explicit clear.
func (s *Signal) Stop() tea.Cmd {
	s.sched.Cancel(Key)
	if !s.typing {
		return nil
	}
	s.typing = false
	return s.emit(false)
}

func (s *Signal) emit(typing bool) tea.Cmd {
	if s.sink == nil {
		return nil
	}
	s.gen++
	gen, w, sink := s.gen, s.wire, s.sink
	return func() tea.Msg {
		w.mu.Lock()
		defer w.mu.Unlock()
		if gen <= w.last {
			return nil
		}
		w.last = gen

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		return SentMsg{Typing: typing, Err: sink.SetTyping(ctx, typing)}
	}
}
