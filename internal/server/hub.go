package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/Syed-Musa/talkup29/internal/chat"
	"github.com/Syed-Musa/talkup29/internal/socket"
	"github.com/Syed-Musa/talkup29/internal/suggest"
)

// hub tracks the connected socket peers.
type hub struct {
	mu    sync.Mutex
	peers map[*socket.Peer]struct{}
}

func newHub() *hub {
	return &hub{peers: make(map[*socket.Peer]struct{})}
}

func (h *hub) add(p *socket.Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.peers[p] = struct{}{}
}

func (h *hub) remove(p *socket.Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.peers, p)
}

func (h *hub) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

func (h *hub) others(p *socket.Peer) []*socket.Peer {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*socket.Peer, 0, len(h.peers))
	for o := range h.peers {
		if o != p {
			out = append(out, o)
		}
	}
	return out
}

func (h *hub) closeAll() error {
	h.mu.Lock()
	peers := make([]*socket.Peer, 0, len(h.peers))
	for p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.Unlock()

	var result error
	for _, p := range peers {
		if err := p.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	peer, err := socket.Upgrade(w, r)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "err", err)
		return
	}
	s.hub.add(peer)
	defer s.hub.remove(peer)
	s.log.Debug("peer connected", "remote", r.RemoteAddr, "peers", s.hub.len())

	err = peer.Serve(func(event string, decode socket.DecodeFunc) {
		switch event {
		case suggest.EventSentenceAutocomplete:
			s.onSentence(r.Context(), peer, decode)
		case chat.EventTyping:
			s.onTyping(peer, decode)
		default:
			s.log.Debug("unknown event", "event", event)
		}
	})
	s.log.Debug("peer disconnected", "remote", r.RemoteAddr, "err", err)
}

// onSentence answers on the same socket, echoing the query id.
func (s *Server) onSentence(ctx context.Context, peer *socket.Peer, decode socket.DecodeFunc) {
	var q suggest.NotifyPayload
	if err := decode(&q); err != nil {
		s.log.Debug("bad sentence_autocomplete payload", "err", err)
		return
	}
	suggestions, err := s.complete(ctx, q.Text)
	if err != nil {
		s.log.Warn("autocomplete failed", "id", q.ID, "err", err)
		return
	}
	if err := peer.Emit(suggest.EventAutocompleteResults, suggest.ResultsPayload{Suggestions: suggestions, ID: q.ID}); err != nil {
		s.log.Debug("emit suggestions failed", "id", q.ID, "err", err)
	}
}

// onTyping relays presence to every other peer.
func (s *Server) onTyping(from *socket.Peer, decode socket.DecodeFunc) {
	var p chat.TypingPayload
	if err := decode(&p); err != nil {
		s.log.Debug("bad typing payload", "err", err)
		return
	}
	for _, o := range s.hub.others(from) {
		if err := o.Emit(chat.EventTyping, p); err != nil {
			s.log.Debug("relay typing failed", "err", err)
		}
	}
}
