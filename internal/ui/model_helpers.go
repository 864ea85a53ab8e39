// internal/ui/model_helpers.go
// Small helper functions and commands used across the UI layer
package ui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Syed-Musa/talkup29/internal/history"
)

var errNoHistory = errors.New("history store unavailable")

var timeNow = time.Now

// matchKey returns true if the key message matches any of the provided key strings
func matchKey(msg tea.KeyMsg, keys []string) bool {
	keyStr := msg.String()
	for _, k := range keys {
		if k == keyStr {
			return true
		}
	}
	return false
}

// limitString truncates s to maxLen by replacing the middle with "..."
func limitString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	half := (maxLen - 3) / 2
	return string(r[:half]) + "..." + string(r[len(r)-half:])
}

func linkTick() tea.Cmd {
	return tea.Tick(linkPollInterval, func(t time.Time) tea.Msg {
		return linkTickMsg(t)
	})
}

func loadHistoryCmd(store *history.Store, receiverID string, limit int, popup bool) tea.Cmd {
	return func() tea.Msg {
		if store == nil {
			if popup {
				return HistoryLoadedMsg{Popup: true, Err: errNoHistory}
			}
			return nil
		}
		entries, err := store.List(receiverID, limit, 0)
		return HistoryLoadedMsg{Entries: entries, Popup: popup, Err: err}
	}
}

func recordCmd(store *history.Store, e history.Entry) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		err := store.Add(&e)
		return historySavedMsg{ID: e.ID, Err: err}
	}
}
