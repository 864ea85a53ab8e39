// Package socket is a small named-event websocket client. It keeps one
// connection alive, redialling on loss, and dispatches inbound events to
// per-name handlers that survive reconnects.
package socket

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/Syed-Musa/talkup29/internal/logger"
)

var (
	// ErrNotConnected is returned by Emit while the connection is down.
	ErrNotConnected = errors.New("socket not connected")
	// ErrClosed is returned by Emit after Close.
	ErrClosed = errors.New("socket closed")
)

type Settings struct {
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	ReadTimeout      time.Duration
	PingInterval     time.Duration
	ReconnectTimeout time.Duration
	Header           http.Header
}

func DefaultSettings() *Settings {
	return &Settings{
		HandshakeTimeout: 2 * time.Second,
		WriteTimeout:     5 * time.Second,
		ReadTimeout:      30 * time.Second,
		PingInterval:     10 * time.Second,
		ReconnectTimeout: 5 * time.Second,
	}
}

// Client is safe for concurrent use.
type Client struct {
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	url      string
	codec    Codec
	settings *Settings
	log      *log.Logger

	mu       sync.Mutex
	conn     *websocket.Conn
	handlers map[string]func(decode DecodeFunc)

	// gorilla allows one concurrent writer per connection
	writeMu sync.Mutex
}

// Dial starts a client for url and returns immediately; the connection is
// established (and re-established) in the background.
func Dial(ctx context.Context, url string, codec Codec, settings *Settings, l *log.Logger) *Client {
	if codec == nil {
		codec = JSON
	}
	if settings == nil {
		settings = DefaultSettings()
	}
	cancelCtx, cancel := context.WithCancel(ctx)
	c := &Client{
		ctx:      cancelCtx,
		cancel:   cancel,
		done:     make(chan struct{}),
		url:      url,
		codec:    codec,
		settings: settings,
		log:      logger.OrDiscard(l).WithPrefix("socket"),
		handlers: make(map[string]func(decode DecodeFunc)),
	}
	go c.run()
	return c
}

// On registers the handler for event, replacing any previous one. Handlers
// run on the reader goroutine.
func (c *Client) On(event string, handler func(decode func(v any) error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = handler
}

// Off removes the handler for event.
func (c *Client) Off(event string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.handlers, event)
}

// Connected reports whether a live connection exists.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Emit sends one event. It does not queue: while disconnected the event is
// rejected with ErrNotConnected.
func (c *Client) Emit(event string, payload any) error {
	if c.ctx.Err() != nil {
		return ErrClosed
	}
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	messageType, frame, err := c.codec.Encode(event, payload)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(c.settings.WriteTimeout))
	if err := conn.WriteMessage(messageType, frame); err != nil {
		// a write deadline cannot be recovered; the reader will notice and redial
		conn.Close()
		return err
	}
	return nil
}

// Close stops the reconnect loop and closes the connection.
func (c *Client) Close() error {
	c.cancel()
	<-c.done
	return nil
}

func (c *Client) run() {
	defer close(c.done)

	for {
		conn, err := c.connect()
		if err != nil {
			c.log.Debug("dial failed", "url", c.url, "err", err)
		} else {
			c.log.Debug("connected", "url", c.url)
			c.serve(conn)
			c.log.Debug("disconnected", "url", c.url)
		}

		select {
		case <-c.ctx.Done():
			return
		case <-time.After(c.settings.ReconnectTimeout):
		}
	}
}

func (c *Client) connect() (*websocket.Conn, error) {
	dialer := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: c.settings.HandshakeTimeout,
	}
	conn, _, err := dialer.DialContext(c.ctx, c.url, c.settings.Header)
	return conn, err
}

func (c *Client) serve(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	handleCtx, handleCancel := context.WithCancel(c.ctx)
	defer func() {
		handleCancel()
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(c.settings.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(c.settings.ReadTimeout))
		return nil
	})

	go func() {
		ticker := time.NewTicker(c.settings.PingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-handleCtx.Done():
				// unblock the reader
				conn.Close()
				return
			case <-ticker.C:
				c.writeMu.Lock()
				err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.settings.WriteTimeout))
				c.writeMu.Unlock()
				if err != nil {
					conn.Close()
					return
				}
			}
		}
	}()

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if handleCtx.Err() == nil {
				c.log.Debug("read error", "err", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(c.settings.ReadTimeout))

		event, decode, err := c.codec.Decode(frame)
		if err != nil {
			c.log.Warn("dropping malformed frame", "err", err)
			continue
		}

		c.mu.Lock()
		handler, ok := c.handlers[event]
		c.mu.Unlock()
		if !ok {
			c.log.Debug("no handler", "event", event)
			continue
		}
		handler(decode)
	}
}
