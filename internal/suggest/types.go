// Package suggest holds the two suggestion channels (pull and push) and the
// reconciler that merges their batches into the list the composer shows.
package suggest

import "context"

// Seq identifies a buffer snapshot. Zero means "no snapshot".
type Seq uint64

// Source tags where a batch came from
type Source int

const (
	SourcePull Source = iota
	SourcePush
)

func (s Source) String() string {
	switch s {
	case SourcePull:
		return "pull"
	case SourcePush:
		return "push"
	default:
		return "unknown"
	}
}

// Query is the trimmed buffer text at the moment it was issued
type Query struct {
	Text string
	Seq  Seq
}

// Batch is one ranked answer from either channel.
type Batch struct {
	Seq         Seq
	Source      Source
	Suggestions []string
	// Failed marks a pull that errored. It carries no suggestions and never
	// replaces what is displayed.
	Failed bool
}

// Oracle answers completion queries. The HTTP client in internal/oracle
// implements it.
type Oracle interface {
	Complete(ctx context.Context, text string) ([]string, error)
}
