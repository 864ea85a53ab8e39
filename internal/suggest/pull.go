package suggest

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultRequestTimeout bounds a single pull query.
const DefaultRequestTimeout = 5 * time.Second

// BatchMsg carries a batch from either channel into Update.
type BatchMsg struct {
	Batch Batch
	Err   error // set when a pull failed; Batch.Failed is true
}

// RequestChannel issues pull queries. Calls are not queued or cancelled at
// the transport; superseded answers are dropped by the Reconciler.
type RequestChannel struct {
	oracle  Oracle
	timeout time.Duration
}

// NewRequestChannel wraps oracle. A zero timeout uses DefaultRequestTimeout.
func NewRequestChannel(oracle Oracle, timeout time.Duration) *RequestChannel {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &RequestChannel{oracle: oracle, timeout: timeout}
}

// Request returns a command that resolves to a BatchMsg tagged with q.Seq.
// Failures resolve to an empty, Failed batch rather than an error message.
func (c *RequestChannel) Request(q Query) tea.Cmd {
	if c == nil || c.oracle == nil {
		return nil
	}
	oracle, timeout := c.oracle, c.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		list, err := oracle.Complete(ctx, q.Text)
		if err != nil {
			return BatchMsg{
				Batch: Batch{Seq: q.Seq, Source: SourcePull, Failed: true},
				Err:   err,
			}
		}
		return BatchMsg{Batch: Batch{Seq: q.Seq, Source: SourcePull, Suggestions: list}}
	}
}
