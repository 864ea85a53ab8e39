// internal/ui/update.go
package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Syed-Musa/talkup29/internal/composer"
	"github.com/Syed-Musa/talkup29/internal/history"
	"github.com/Syed-Musa/talkup29/internal/monitor"
	eztable "github.com/Syed-Musa/talkup29/internal/ui/components/table"
)

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.composer = m.composer.SetWidth(m.width - 2)
		return m.updateTranscriptViewport(), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case composer.SentMsg:
		return m.handleSent(msg)

	case HistoryLoadedMsg:
		return m.handleHistoryLoaded(msg)

	case historySavedMsg:
		if msg.Err != nil {
			m.log.Warn("recording sent message failed", "id", msg.ID, "err", msg.Err)
		}
		return m, nil

	case monitor.ConfigReloadedMsg:
		if msg.Err != nil {
			m.errorMsg = "config: " + msg.Err.Error()
		} else {
			m.config = msg.Config
			InitStyles(m.config.Theme)
			m.composer = m.composer.Configure(m.config).SetStyles(ComposerStyles())
			m.spinner.Style = m.spinner.Style.Foreground(AccentColor())
			m.errorMsg = ""
			m.statusMsg = "Config reloaded"
			m = m.updateTranscriptViewport()
		}
		if m.watcher == nil {
			return m, nil
		}
		return m, m.watcher.Wait()

	case linkTickMsg:
		if m.link == nil {
			return m, nil
		}
		if c := m.link.Connected(); c != m.connected {
			m.log.Debug("socket link changed", "connected", c)
			m.connected = c
		}
		return m, linkTick()

	case spinner.TickMsg:
		if m.composer.State() != composer.StateSending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.forward(msg)
}

// forward hands msg to the composer and starts the spinner when a send
// begins.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := m.composer.State()
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	if before != composer.StateSending && m.composer.State() == composer.StateSending {
		m.statusMsg, m.errorMsg = "", ""
		return m, tea.Batch(cmd, m.spinner.Tick)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if matchKey(msg, m.config.Keys.Quit) {
		return m, tea.Sequence(m.composer.Close(), tea.Quit)
	}

	if m.showHistory {
		switch msg.String() {
		case "esc", "q":
			m.showHistory = false
			var cmd tea.Cmd
			m.composer, cmd = m.composer.Focus()
			return m, cmd
		}
		var cmd tea.Cmd
		m.historyTable, cmd = m.historyTable.Update(msg)
		return m, cmd
	}

	if matchKey(msg, m.config.Keys.History) && !m.composer.Attaching() {
		limit := m.config.HistoryLimit
		if limit <= 0 {
			limit = history.DefaultLimit
		}
		return m, loadHistoryCmd(m.historyStore, m.config.ReceiverID, limit, true)
	}

	return m.forward(msg)
}

func (m Model) handleSent(msg composer.SentMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	if msg.Err != nil {
		m.statusMsg = ""
		m.errorMsg = "send failed: " + msg.Err.Error()
		return m, cmd
	}

	entry := history.Entry{
		ID:         msg.ClientID,
		ReceiverID: m.config.ReceiverID,
		Text:       msg.Text,
		HasImage:   msg.HasImage,
		SentAt:     timeNow(),
	}
	m.transcript = append(m.transcript, transcriptEntry{
		ID:       entry.ID,
		Text:     entry.Text,
		HasImage: entry.HasImage,
		SentAt:   entry.SentAt,
	})
	m.errorMsg = ""
	m.statusMsg = "Sent"
	m = m.updateTranscriptViewport()
	m.viewport.GotoBottom()
	return m, tea.Batch(cmd, recordCmd(m.historyStore, entry))
}

func (m Model) handleHistoryLoaded(msg HistoryLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.log.Warn("loading history failed", "err", msg.Err)
		if msg.Popup {
			m.errorMsg = "history: " + msg.Err.Error()
		}
		return m, nil
	}

	if msg.Popup {
		m.historyTable = eztable.FromHistory(msg.Entries, m.width-8, historyPageSize)
		m.showHistory = true
		m.composer = m.composer.Blur()
		return m, nil
	}

	// Seed the transcript oldest first, ahead of anything sent already.
	seed := make([]transcriptEntry, 0, len(msg.Entries)+len(m.transcript))
	for i := len(msg.Entries) - 1; i >= 0; i-- {
		e := msg.Entries[i]
		seed = append(seed, transcriptEntry{ID: e.ID, Text: e.Text, HasImage: e.HasImage, SentAt: e.SentAt})
	}
	m.transcript = append(seed, m.transcript...)
	m = m.updateTranscriptViewport()
	m.viewport.GotoBottom()
	return m, nil
}
