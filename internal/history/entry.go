// internal/history/entry.go
package history

import (
	"strings"
	"time"
)

// Entry is one message the user sent
type Entry struct {
	ID         string // ULID, doubles as the send clientId
	ReceiverID string
	Text       string
	HasImage   bool
	SentAt     time.Time
}

// Preview returns a single-line, truncated version of the text
func (e *Entry) Preview(maxLen int) string {
	t := strings.Join(strings.Fields(e.Text), " ")
	if e.HasImage {
		if t == "" {
			t = "[image]"
		} else {
			t = "[image] " + t
		}
	}
	r := []rune(t)
	if maxLen > 3 && len(r) > maxLen {
		return string(r[:maxLen-3]) + "..."
	}
	return t
}
