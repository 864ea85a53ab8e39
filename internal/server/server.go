// Package server is the reference completion oracle and chat sink: the HTTP
// and websocket surface the composer talks to.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"

	"github.com/Syed-Musa/talkup29/internal/chat"
	"github.com/Syed-Musa/talkup29/internal/logger"
	"github.com/Syed-Musa/talkup29/internal/oracle"
)

const completeTimeout = 2 * time.Second

// Completer answers autocomplete queries.
type Completer interface {
	Complete(ctx context.Context, text string) ([]string, error)
}

// Learner is implemented by completers that adapt to sent messages.
type Learner interface {
	Learn(text string)
}

type Server struct {
	completer Completer
	hub       *hub
	mux       *http.ServeMux
	log       *log.Logger
}

// New builds the server over completer. l may be nil.
func New(completer Completer, l *log.Logger) *Server {
	s := &Server{
		completer: completer,
		hub:       newHub(),
		mux:       http.NewServeMux(),
		log:       logger.OrDiscard(l),
	}
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.HandleFunc("POST /autocomplete", s.handleAutocomplete)
	s.mux.HandleFunc("GET /socket", s.handleSocket)
	s.mux.HandleFunc("POST /api/messages/send/{id}", s.handleSend)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Close disconnects every socket peer.
func (s *Server) Close() error {
	return s.hub.closeAll()
}

// Peers reports the number of connected sockets.
func (s *Server) Peers() int {
	return s.hub.len()
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"peers":  s.hub.len(),
	})
}

func (s *Server) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	var req oracle.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	suggestions, err := s.complete(r.Context(), req.Text)
	if err != nil {
		s.log.Warn("autocomplete failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "autocomplete failed"})
		return
	}
	writeJSON(w, http.StatusOK, oracle.Response{Suggestions: suggestions})
}

func (s *Server) complete(ctx context.Context, text string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, completeTimeout)
	defer cancel()
	out, err := s.completer.Complete(ctx, text)
	if out == nil {
		out = []string{}
	}
	return out, err
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	receiver := r.PathValue("id")
	var msg chat.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	hasImage := msg.Image != nil && *msg.Image != ""
	if strings.TrimSpace(msg.Text) == "" && !hasImage {
		badRequest(w, "text or image is required")
		return
	}
	if hasImage && !strings.HasPrefix(*msg.Image, "data:image/") {
		badRequest(w, "image must be an image data URL")
		return
	}

	id := msg.ClientID
	if id == "" {
		id = ulid.Make().String()
	}
	s.log.Info("message received", "id", id, "receiver", receiver, "chars", len(msg.Text), "image", hasImage)
	if l, ok := s.completer.(Learner); ok && msg.Text != "" {
		l.Learn(msg.Text)
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":         id,
		"receiverId": receiver,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}
