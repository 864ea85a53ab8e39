package suggest

import (
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Push channel event names
const (
	EventSentenceAutocomplete = "sentence_autocomplete"
	EventAutocompleteResults  = "autocomplete_suggestions"
)

// maxInflight caps how many unanswered notifies are remembered for
// correlation.
const maxInflight = 64

// Transport is a named-event socket. internal/socket.Client satisfies it.
type Transport interface {
	Emit(event string, payload any) error
	On(event string, handler func(decode func(v any) error))
	Off(event string)
}

// NotifyPayload is the outbound sentence_autocomplete body. ID is the local
// sequence number; servers that echo it get exact correlation.
type NotifyPayload struct {
	Text string `json:"text" msgpack:"text"`
	ID   Seq    `json:"id,omitempty" msgpack:"id,omitempty"`
}

// ResultsPayload is the inbound autocomplete_suggestions body.
type ResultsPayload struct {
	Suggestions []string `json:"suggestions" msgpack:"suggestions"`
	ID          Seq      `json:"id,omitempty" msgpack:"id,omitempty"`
}

// Push is the composer's handle on the push channel.
type Push interface {
	// Notify tells the oracle about a new buffer snapshot.
	Notify(q Query) error
	// Subscribe starts delivering inbound batches. Calling it again while
	// subscribed does nothing.
	Subscribe()
	// Unsubscribe stops delivery. It is a no-op when not subscribed.
	Unsubscribe()
	// Wait returns a command resolving to the next inbound BatchMsg, or nil
	// when there is no subscription.
	Wait() tea.Cmd
	// Available reports whether a real channel backs this handle.
	Available() bool
}

// OpenPush returns a push handle over t, or a NoopPush when t is nil.
func OpenPush(t Transport) Push {
	if t == nil {
		return NoopPush{}
	}
	return NewPushChannel(t)
}

// NoopPush stands in when the push channel is unavailable.
type NoopPush struct{}

func (NoopPush) Notify(Query) error { return nil }
func (NoopPush) Subscribe()         {}
func (NoopPush) Unsubscribe()       {}
func (NoopPush) Wait() tea.Cmd      { return nil }
func (NoopPush) Available() bool    { return false }

// PushChannel correlates inbound batches with outbound notifies. The wire
// payload may carry no id, so batches are matched to notifies in the order
// the notifies were sent; an echoed id overrides that.
type PushChannel struct {
	transport Transport

	mu       sync.Mutex
	inflight []Seq
	last     Seq
	events   chan Batch
	done     chan struct{}
}

// NewPushChannel wraps t without subscribing.
func NewPushChannel(t Transport) *PushChannel {
	return &PushChannel{transport: t}
}

// Notify emits the snapshot. Blank text is not sent.
func (p *PushChannel) Notify(q Query) error {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return nil
	}
	if err := p.transport.Emit(EventSentenceAutocomplete, NotifyPayload{Text: text, ID: q.Seq}); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inflight = append(p.inflight, q.Seq)
	if len(p.inflight) > maxInflight {
		p.inflight = p.inflight[len(p.inflight)-maxInflight:]
	}
	p.last = q.Seq
	return nil
}

func (p *PushChannel) Subscribe() {
	p.mu.Lock()
	if p.events != nil {
		p.mu.Unlock()
		return
	}
	events := make(chan Batch, 16)
	done := make(chan struct{})
	p.events, p.done = events, done
	p.mu.Unlock()

	p.transport.On(EventAutocompleteResults, func(decode func(v any) error) {
		var payload ResultsPayload
		if err := decode(&payload); err != nil {
			return
		}
		b := Batch{
			Seq:         p.correlate(payload.ID),
			Source:      SourcePush,
			Suggestions: payload.Suggestions,
		}
		select {
		case events <- b:
		case <-done:
		}
	})
}

func (p *PushChannel) Unsubscribe() {
	p.mu.Lock()
	if p.events == nil {
		p.mu.Unlock()
		return
	}
	done := p.done
	p.events, p.done = nil, nil
	p.mu.Unlock()

	p.transport.Off(EventAutocompleteResults)
	close(done)
}

// Subscribed reports whether a handler is registered.
func (p *PushChannel) Subscribed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events != nil
}

func (p *PushChannel) Wait() tea.Cmd {
	p.mu.Lock()
	events, done := p.events, p.done
	p.mu.Unlock()
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case b := <-events:
			return BatchMsg{Batch: b}
		case <-done:
			return nil
		}
	}
}

func (p *PushChannel) Available() bool { return true }

// correlate picks the snapshot an inbound batch answers. A batch can only
// answer a snapshot that was already notified, never a later one.
func (p *PushChannel) correlate(id Seq) Seq {
	p.mu.Lock()
	defer p.mu.Unlock()

	if id != 0 {
		i := 0
		for i < len(p.inflight) && p.inflight[i] <= id {
			i++
		}
		p.inflight = p.inflight[i:]
		return id
	}
	if len(p.inflight) > 0 {
		seq := p.inflight[0]
		p.inflight = p.inflight[1:]
		return seq
	}
	return p.last
}
