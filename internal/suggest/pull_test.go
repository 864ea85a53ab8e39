package suggest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

type oracleFunc func(ctx context.Context, text string) ([]string, error)

func (f oracleFunc) Complete(ctx context.Context, text string) ([]string, error) {
	return f(ctx, text)
}

func TestRequestResolvesTaggedBatch(t *testing.T) {
	var got string
	c := NewRequestChannel(oracleFunc(func(_ context.Context, text string) ([]string, error) {
		got = text
		return []string{"hello", "help"}, nil
	}), 0)

	msg := c.Request(Query{Text: "he", Seq: 7})().(BatchMsg)
	assert.Equal(t, got, "he")
	assert.Equal(t, msg.Err, nil)
	assert.Equal(t, msg.Batch, Batch{Seq: 7, Source: SourcePull, Suggestions: []string{"hello", "help"}})
}

func TestRequestFailureDegradesToFailedBatch(t *testing.T) {
	boom := errors.New("connection refused")
	c := NewRequestChannel(oracleFunc(func(context.Context, string) ([]string, error) {
		return nil, boom
	}), 0)

	msg := c.Request(Query{Text: "he", Seq: 2})().(BatchMsg)
	assert.Equal(t, errors.Is(msg.Err, boom), true)
	assert.Equal(t, msg.Batch.Seq, Seq(2))
	assert.Equal(t, msg.Batch.Failed, true)
	assert.Equal(t, len(msg.Batch.Suggestions), 0)
}

func TestRequestTimeout(t *testing.T) {
	c := NewRequestChannel(oracleFunc(func(ctx context.Context, _ string) ([]string, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}), 20*time.Millisecond)

	start := time.Now()
	msg := c.Request(Query{Text: "slow", Seq: 1})().(BatchMsg)
	assert.Equal(t, errors.Is(msg.Err, context.DeadlineExceeded), true)
	if time.Since(start) > time.Second {
		t.Fatalf("timeout not applied")
	}
}

func TestNilRequestChannel(t *testing.T) {
	var c *RequestChannel
	assert.Equal(t, c.Request(Query{Text: "x", Seq: 1}) == nil, true)
}
