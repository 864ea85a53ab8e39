package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestSendPostsMessage(t *testing.T) {
	var got Message
	var auth, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	image := "data:image/png;base64,AAAA"
	c := NewClient(srv.URL+"/api/messages", "user-42", "secret")
	err := c.Send(context.Background(), Message{Text: "hi", Image: &image, ClientID: "01J"})

	assert.Equal(t, err, nil)
	assert.Equal(t, path, "/api/messages/send/user-42")
	assert.Equal(t, auth, "Bearer secret")
	assert.Equal(t, got.Text, "hi")
	assert.Equal(t, *got.Image, image)
	assert.Equal(t, got.ClientID, "01J")
}

func TestSendNullImage(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
	}))
	defer srv.Close()

	assert.Equal(t, NewClient(srv.URL, "u", "").Send(context.Background(), Message{Text: "hi"}), nil)
	v, ok := raw["image"]
	assert.Equal(t, ok, true)
	assert.Equal(t, v, nil)
}

func TestSendRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "u", "").Send(context.Background(), Message{Text: "hi"})
	assert.Equal(t, errors.Is(err, ErrRejected), true)
	var se *SendError
	assert.Equal(t, errors.As(err, &se), true)
	assert.Equal(t, se.Status, http.StatusInternalServerError)
}

type recordingEmitter struct {
	event   string
	payload any
}

func (r *recordingEmitter) Emit(event string, payload any) error {
	r.event, r.payload = event, payload
	return nil
}

func TestPresenceEmitsTyping(t *testing.T) {
	e := &recordingEmitter{}
	p := NewPresence(e, "user-42")

	assert.Equal(t, p.SetTyping(context.Background(), true), nil)
	assert.Equal(t, e.event, EventTyping)
	assert.Equal(t, e.payload, TypingPayload{ReceiverID: "user-42", Typing: true})
}
