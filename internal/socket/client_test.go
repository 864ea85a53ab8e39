package socket

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

type echoPayload struct {
	Text string `json:"text" msgpack:"text"`
}

// newEchoServer answers every "say" event with an "echo" event.
func newEchoServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		peer, err := Upgrade(w, r)
		if err != nil {
			return
		}
		peer.Serve(func(event string, decode DecodeFunc) {
			if event != "say" {
				return
			}
			var p echoPayload
			if err := decode(&p); err != nil {
				return
			}
			peer.Emit("echo", echoPayload{Text: strings.ToUpper(p.Text)})
		})
	}))
	t.Cleanup(srv.Close)
	return srv, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func waitConnected(t *testing.T, c *Client) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !c.Connected() {
		if time.Now().After(deadline) {
			t.Fatalf("client never connected")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func testRoundTrip(t *testing.T, codec Codec) {
	_, url := newEchoServer(t)
	c := Dial(context.Background(), url, codec, nil, nil)
	defer c.Close()

	got := make(chan string, 1)
	c.On("echo", func(decode func(v any) error) {
		var p echoPayload
		if err := decode(&p); err == nil {
			got <- p.Text
		}
	})
	waitConnected(t, c)

	assert.Equal(t, c.Emit("say", echoPayload{Text: "hello"}), nil)
	select {
	case text := <-got:
		assert.Equal(t, text, "HELLO")
	case <-time.After(2 * time.Second):
		t.Fatalf("no echo received")
	}
}

func TestRoundTripJSON(t *testing.T)    { testRoundTrip(t, JSON) }
func TestRoundTripMsgPack(t *testing.T) { testRoundTrip(t, MsgPack) }

func TestEmitWhileDisconnected(t *testing.T) {
	srv, url := newEchoServer(t)
	srv.Close()

	c := Dial(context.Background(), url, JSON, nil, nil)
	defer c.Close()
	assert.Equal(t, errors.Is(c.Emit("say", echoPayload{}), ErrNotConnected), true)
}

func TestEmitAfterClose(t *testing.T) {
	_, url := newEchoServer(t)
	c := Dial(context.Background(), url, JSON, nil, nil)
	c.Close()
	assert.Equal(t, errors.Is(c.Emit("say", echoPayload{}), ErrClosed), true)
}

func TestOffStopsDelivery(t *testing.T) {
	_, url := newEchoServer(t)
	c := Dial(context.Background(), url, JSON, nil, nil)
	defer c.Close()

	got := make(chan struct{}, 1)
	c.On("echo", func(func(v any) error) { got <- struct{}{} })
	c.Off("echo")
	waitConnected(t, c)

	c.Emit("say", echoPayload{Text: "x"})
	select {
	case <-got:
		t.Fatalf("handler ran after Off")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCodecByName(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", "json", false},
		{"json", "json", false},
		{"msgpack", "msgpack", false},
		{"xml", "", true},
	}
	for _, tc := range tests {
		c, err := CodecByName(tc.name)
		if tc.wantErr {
			assert.NotEqual(t, err, nil)
			continue
		}
		assert.Equal(t, err, nil)
		assert.Equal(t, c.Name(), tc.want)
	}
}

func TestCodecRejectsNamelessFrame(t *testing.T) {
	_, _, err := JSON.Decode([]byte(`{"data":{}}`))
	assert.NotEqual(t, err, nil)
}
