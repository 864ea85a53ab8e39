package presence

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Syed-Musa/talkup29/internal/debounce"
)

type recordingSink struct {
	calls []bool
	err   error
}

func (r *recordingSink) SetTyping(_ context.Context, typing bool) error {
	r.calls = append(r.calls, typing)
	return r.err
}

// run executes cmd and everything it batches, returning the produced messages.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func split(msgs []tea.Msg) (fired []debounce.FiredMsg, sent []SentMsg) {
	for _, m := range msgs {
		switch m := m.(type) {
		case debounce.FiredMsg:
			fired = append(fired, m)
		case SentMsg:
			sent = append(sent, m)
		}
	}
	return fired, sent
}

func TestBurstProducesOneTrueThenOneFalse(t *testing.T) {
	sink := &recordingSink{}
	s := New(debounce.New(), sink, time.Millisecond)

	var ticks []debounce.FiredMsg
	for i := 0; i < 6; i++ {
		fired, _ := split(run(s.Edit()))
		ticks = append(ticks, fired...)
	}
	if !s.Typing() {
		t.Fatalf("not typing after edits")
	}
	if len(sink.calls) != 1 || !sink.calls[0] {
		t.Fatalf("sink calls = %v, want [true]", sink.calls)
	}

	for _, tick := range ticks {
		cmd, handled := s.Handle(tick)
		if !handled {
			t.Fatalf("typing tick not handled")
		}
		run(cmd)
	}
	if s.Typing() {
		t.Fatalf("still typing after idle timer")
	}
	if len(sink.calls) != 2 || sink.calls[1] {
		t.Fatalf("sink calls = %v, want [true false]", sink.calls)
	}
}

func TestStopForcesFalse(t *testing.T) {
	sink := &recordingSink{}
	s := New(debounce.New(), sink, time.Hour)

	// neither the idle timer nor the true delivery is run
	s.Edit()
	run(s.Stop())

	if s.Typing() {
		t.Fatalf("typing after stop")
	}
	if got := sink.calls; len(got) != 1 || got[0] {
		t.Fatalf("sink calls = %v, want [false]", got)
	}
	if cmd := s.Stop(); cmd != nil {
		t.Fatalf("second stop emitted a transition")
	}
}

func TestOutOfOrderDeliveryIsSkipped(t *testing.T) {
	sink := &recordingSink{}
	s := New(debounce.New(), sink, time.Hour)

	first := s.emit(true)
	second := s.emit(false)
	second()
	if msg := first(); msg != nil {
		t.Fatalf("superseded delivery ran: %v", msg)
	}
	if len(sink.calls) != 1 || sink.calls[0] {
		t.Fatalf("sink calls = %v, want [false]", sink.calls)
	}
}

func TestForeignKeyIgnored(t *testing.T) {
	s := New(debounce.New(), nil, time.Millisecond)
	if _, handled := s.Handle(debounce.FiredMsg{Key: "suggest", ID: 1}); handled {
		t.Fatalf("handled another key's tick")
	}
}

func TestSinkErrorReported(t *testing.T) {
	boom := errors.New("socket closed")
	s := New(debounce.New(), &recordingSink{err: boom}, time.Hour)
	s.typing = true
	_, sent := split(run(s.Stop()))
	if len(sent) != 1 || !errors.Is(sent[0].Err, boom) {
		t.Fatalf("sent = %v, want one error message", sent)
	}
}

func TestNilSinkStillTracksState(t *testing.T) {
	s := New(debounce.New(), nil, time.Hour)
	s.Edit()
	if !s.Typing() {
		t.Fatalf("not typing")
	}
	if cmd := s.Stop(); cmd != nil {
		t.Fatalf("nil sink produced a delivery")
	}
	if s.Typing() {
		t.Fatalf("typing after stop")
	}
}
