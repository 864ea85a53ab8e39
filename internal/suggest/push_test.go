package suggest

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

type emitted struct {
	event   string
	payload any
}

// fakeTransport records emits and lets tests deliver inbound events.
type fakeTransport struct {
	mu       sync.Mutex
	emits    []emitted
	handlers map[string]func(decode func(v any) error)
	onCalls  int
	emitErr  error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{handlers: make(map[string]func(decode func(v any) error))}
}

func (f *fakeTransport) Emit(event string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.emitErr != nil {
		return f.emitErr
	}
	f.emits = append(f.emits, emitted{event, payload})
	return nil
}

func (f *fakeTransport) On(event string, handler func(decode func(v any) error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onCalls++
	f.handlers[event] = handler
}

func (f *fakeTransport) Off(event string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.handlers, event)
}

func (f *fakeTransport) deliver(t *testing.T, event string, body string) bool {
	t.Helper()
	f.mu.Lock()
	h, ok := f.handlers[event]
	f.mu.Unlock()
	if !ok {
		return false
	}
	h(func(v any) error { return json.Unmarshal([]byte(body), v) })
	return true
}

func nextBatch(t *testing.T, p Push) Batch {
	t.Helper()
	cmd := p.Wait()
	if cmd == nil {
		t.Fatalf("no subscription to wait on")
	}
	done := make(chan BatchMsg, 1)
	go func() {
		if msg, ok := cmd().(BatchMsg); ok {
			done <- msg
		}
	}()
	select {
	case msg := <-done:
		return msg.Batch
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for batch")
	}
	return Batch{}
}

func TestNotifyEmitsTrimmedTextWithID(t *testing.T) {
	ft := newFakeTransport()
	p := NewPushChannel(ft)

	assert.Equal(t, p.Notify(Query{Text: "  hi there ", Seq: 3}), nil)
	assert.Equal(t, p.Notify(Query{Text: "   ", Seq: 4}), nil)

	assert.Equal(t, len(ft.emits), 1)
	assert.Equal(t, ft.emits[0].event, EventSentenceAutocomplete)
	assert.Equal(t, ft.emits[0].payload, NotifyPayload{Text: "hi there", ID: 3})
}

func TestSubscribeIsIdempotent(t *testing.T) {
	ft := newFakeTransport()
	p := NewPushChannel(ft)

	p.Subscribe()
	p.Subscribe()
	assert.Equal(t, ft.onCalls, 1)
	assert.Equal(t, p.Subscribed(), true)

	p.Unsubscribe()
	p.Unsubscribe()
	assert.Equal(t, p.Subscribed(), false)
	assert.Equal(t, p.Wait() == nil, true)

	// remount
	p.Subscribe()
	assert.Equal(t, ft.onCalls, 2)
	p.Unsubscribe()
}

func TestInboundCorrelatesByNotifyOrder(t *testing.T) {
	ft := newFakeTransport()
	p := NewPushChannel(ft)
	p.Subscribe()
	defer p.Unsubscribe()

	p.Notify(Query{Text: "he", Seq: 1})
	p.Notify(Query{Text: "hel", Seq: 2})

	go ft.deliver(t, EventAutocompleteResults, `{"suggestions":["hello"]}`)
	b := nextBatch(t, p)
	assert.Equal(t, b.Seq, Seq(1))
	assert.Equal(t, b.Source, SourcePush)
	assert.Equal(t, b.Suggestions, []string{"hello"})

	go ft.deliver(t, EventAutocompleteResults, `{"suggestions":["help"]}`)
	assert.Equal(t, nextBatch(t, p).Seq, Seq(2))

	// nothing outstanding: assume it answers the latest notify
	go ft.deliver(t, EventAutocompleteResults, `{"suggestions":["hell"]}`)
	assert.Equal(t, nextBatch(t, p).Seq, Seq(2))
}

func TestInboundEchoedIDWins(t *testing.T) {
	ft := newFakeTransport()
	p := NewPushChannel(ft)
	p.Subscribe()
	defer p.Unsubscribe()

	p.Notify(Query{Text: "a", Seq: 1})
	p.Notify(Query{Text: "ab", Seq: 2})
	p.Notify(Query{Text: "abc", Seq: 3})

	go ft.deliver(t, EventAutocompleteResults, `{"suggestions":["abcd"],"id":2}`)
	assert.Equal(t, nextBatch(t, p).Seq, Seq(2))

	// 1 and 2 were both retired by the echoed id
	go ft.deliver(t, EventAutocompleteResults, `{"suggestions":["abcde"]}`)
	assert.Equal(t, nextBatch(t, p).Seq, Seq(3))
}

func TestNotifyErrorIsReturned(t *testing.T) {
	ft := newFakeTransport()
	ft.emitErr = errors.New("not connected")
	p := NewPushChannel(ft)

	assert.NotEqual(t, p.Notify(Query{Text: "hi", Seq: 1}), nil)
	assert.Equal(t, len(p.inflight), 0)
}

func TestUnsubscribeReleasesWaiter(t *testing.T) {
	ft := newFakeTransport()
	p := NewPushChannel(ft)
	p.Subscribe()
	cmd := p.Wait()

	done := make(chan any, 1)
	go func() { done <- cmd() }()
	p.Unsubscribe()

	select {
	case msg := <-done:
		assert.Equal(t, msg, nil)
	case <-time.After(time.Second):
		t.Fatalf("waiter not released")
	}
	assert.Equal(t, ft.deliver(t, EventAutocompleteResults, `{"suggestions":[]}`), false)
}

func TestOpenPushWithoutTransport(t *testing.T) {
	p := OpenPush(nil)
	assert.Equal(t, p.Available(), false)
	p.Subscribe()
	assert.Equal(t, p.Notify(Query{Text: "hi", Seq: 1}), nil)
	assert.Equal(t, p.Wait() == nil, true)
	p.Unsubscribe()
}
