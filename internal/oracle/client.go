// Package oracle is the HTTP client for the completion oracle's pull
// endpoint, POST /autocomplete.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
)

// Request is the /autocomplete body
type Request struct {
	Text string `json:"text"`
}

// Response is the /autocomplete answer
type Response struct {
	Suggestions []string `json:"suggestions"`
}

// FetchError wraps a failed pull query.
type FetchError struct {
	Status     int // zero for transport errors
	Underlying error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("autocomplete failed: status %d", e.Status)
	}
	return fmt.Sprintf("autocomplete failed: %v", e.Underlying)
}

func (e *FetchError) Unwrap() error { return e.Underlying }

// Client talks to one oracle base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for baseURL (e.g. http://localhost:8090). Per-call
// deadlines come from the caller's context.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    cleanhttp.DefaultPooledClient(),
	}
}

// Complete posts text and returns the ranked suggestions.
func (c *Client) Complete(ctx context.Context, text string) ([]string, error) {
	body, err := json.Marshal(Request{Text: text})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/autocomplete", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Underlying: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{Status: resp.StatusCode}
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &FetchError{Underlying: err}
	}
	return out.Suggestions, nil
}
