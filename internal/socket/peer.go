package socket

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the reference oracle is a local development service
	CheckOrigin: func(*http.Request) bool { return true },
}

// Peer is the server side of a client connection. Its codec follows the
// frames it receives: text frames are JSON, binary frames msgpack.
type Peer struct {
	conn *websocket.Conn

	mu    sync.Mutex
	codec Codec
}

// Upgrade accepts a websocket on w.
func Upgrade(w http.ResponseWriter, r *http.Request) (*Peer, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return &Peer{conn: conn, codec: JSON}, nil
}

// Emit sends one event using the peer's current codec.
func (p *Peer) Emit(event string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	messageType, frame, err := p.codec.Encode(event, payload)
	if err != nil {
		return err
	}
	p.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return p.conn.WriteMessage(messageType, frame)
}

// Serve reads frames until the connection fails, calling handle for each
// decodable event. It closes the connection before returning.
func (p *Peer) Serve(handle func(event string, decode DecodeFunc)) error {
	defer p.conn.Close()
	for {
		messageType, frame, err := p.conn.ReadMessage()
		if err != nil {
			return err
		}
		codec := JSON
		if messageType == websocket.BinaryMessage {
			codec = MsgPack
		}
		p.mu.Lock()
		p.codec = codec
		p.mu.Unlock()

		event, decode, err := codec.Decode(frame)
		if err != nil {
			continue
		}
		handle(event, decode)
	}
}

// Close closes the underlying connection.
func (p *Peer) Close() error {
	return p.conn.Close()
}
