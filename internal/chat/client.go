// Package chat holds the outbound collaborators of the composer: the HTTP
// message sender and the socket-backed typing presence sink.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
)

// ErrRejected is wrapped by SendError when the backend answered non-2xx.
var ErrRejected = errors.New("message rejected")

// Message is the sendMessage body. Image is a data URL or nil.
type Message struct {
	Text     string  `json:"text"`
	Image    *string `json:"image"`
	ClientID string  `json:"clientId,omitempty"`
}

// Sender delivers one outbound message
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SendError wraps a failed send.
type SendError struct {
	Status     int
	Underlying error
}

func (e *SendError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("send failed: status %d", e.Status)
	}
	return fmt.Sprintf("send failed: %v", e.Underlying)
}

func (e *SendError) Unwrap() error { return e.Underlying }

// Client posts messages to {baseURL}/send/{receiver}.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
}

// NewClient builds a sender. token may be empty.
func NewClient(baseURL, receiverID, token string) *Client {
	return &Client{
		endpoint: strings.TrimRight(baseURL, "/") + "/send/" + url.PathEscape(receiverID),
		token:    token,
		http:     cleanhttp.DefaultPooledClient(),
	}
}

func (c *Client) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &SendError{Underlying: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &SendError{Status: resp.StatusCode, Underlying: ErrRejected}
	}
	return nil
}
