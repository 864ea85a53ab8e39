// internal/ui/model_messages.go
// Message types local to the root model
package ui

import (
	"time"

	"github.com/Syed-Musa/talkup29/internal/history"
)

// HistoryLoadedMsg sent when history loads from SQLite. Popup is set when
// the entries were requested for the history table rather than the
// transcript.
type HistoryLoadedMsg struct {
	Entries []history.Entry
	Popup   bool
	Err     error
}

// historySavedMsg reports the outcome of recording a sent message
type historySavedMsg struct {
	ID  string
	Err error
}

// linkTickMsg polls the socket connection state
type linkTickMsg time.Time
