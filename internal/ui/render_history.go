package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Syed-Musa/talkup29/internal/ui/icons"
)

// updateTranscriptViewport sizes the viewport to the space left by the
// chrome and refreshes its content.
func (m Model) updateTranscriptViewport() Model {
	chromeHeight := lipgloss.Height(m.renderStatusBar()) +
		lipgloss.Height(m.renderHelp()) +
		lipgloss.Height(m.renderInput())
	transcriptHeight := m.height - chromeHeight
	if transcriptHeight < 0 {
		transcriptHeight = 0
	}

	m.viewport.Width = m.width
	m.viewport.Height = transcriptHeight
	m.viewport.SetContent(m.renderTranscript(transcriptHeight))
	return m
}

// renderTranscript generates the string for the viewport. Short transcripts
// are pushed to the bottom so the newest message sits above the input.
func (m Model) renderTranscript(minHeight int) string {
	if len(m.transcript) == 0 {
		empty := EmptyTranscript.Render("No messages yet. Start typing below.")
		if minHeight > 1 {
			return strings.Repeat("\n", minHeight-1) + empty
		}
		return empty
	}

	sections := make([]string, 0, len(m.transcript))
	for i := range m.transcript {
		sections = append(sections, m.renderTranscriptItem(i))
	}
	content := strings.Join(sections, "\n\n")

	h := lipgloss.Height(content)
	if h < minHeight && h > 0 {
		return strings.Repeat("\n", minHeight-h) + content
	}
	return content
}

func (m Model) renderTranscriptItem(i int) string {
	e := m.transcript[i]

	meta := "you " + icons.IconBullet + " " + e.SentAt.Local().Format("15:04")
	if e.HasImage {
		meta += " " + icons.IconBullet + " " + icons.IconImage + " image"
	}

	width := m.width - 4
	if width < 10 {
		width = 10
	}
	lines := []string{MetaStyle.Render(meta)}
	if e.Text != "" {
		lines = append(lines, OwnMessageStyle.Width(width).Render(e.Text))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
