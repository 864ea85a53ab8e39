package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Syed-Musa/talkup29/internal/composer"
	"github.com/Syed-Musa/talkup29/internal/ui/icons"
)

func (m Model) renderStatusBar() string {
	var parts []string

	// 1. Composer state
	state := m.composer.State()
	if state == composer.StateSending {
		parts = append(parts, SendingStyle.Render(m.spinner.View()+" SENDING"))
	} else {
		parts = append(parts, StateStyle.Render(strings.ToUpper(state.String())))
	}

	// 2. Receiver
	if id := m.config.ReceiverID; id != "" {
		parts = append(parts, ReceiverStyle.Render("to "+limitString(id, 24)))
	} else {
		parts = append(parts, ReceiverStyle.Render("NO RECEIVER"))
	}

	// 3. Push link
	linkStyle := lipgloss.NewStyle().Padding(0, 1).Background(BgSecondary())
	switch {
	case m.link == nil:
		parts = append(parts, linkStyle.Foreground(TextFaint()).Render("pull only"))
	case m.connected:
		parts = append(parts, linkStyle.Foreground(SuccessColor()).Render(icons.Link(true)+" live"))
	default:
		parts = append(parts, linkStyle.Foreground(WarningColor()).Render(icons.Link(false)+" offline"))
	}

	// 4. Typing indicator
	if m.composer.Typing() {
		parts = append(parts, lipgloss.NewStyle().Padding(0, 1).Background(BgSecondary()).
			Foreground(TextSecondary()).Italic(true).Render("typing"+icons.IconTyping))
	}

	// 5. Status message (success/info)
	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Background(SuccessColor()).Foreground(BgPrimary()).Padding(0, 1)
		parts = append(parts, statusStyle.Render(icons.IconSuccess+" "+m.statusMsg))
	}

	// 6. Error indicator
	if m.errorMsg != "" {
		errorStyle := lipgloss.NewStyle().Background(ErrorColor()).Foreground(TextPrimary()).Padding(0, 1)
		truncated := m.errorMsg
		if r := []rune(truncated); len(r) > 40 {
			truncated = string(r[:37]) + "..."
		}
		parts = append(parts, errorStyle.Render(icons.IconError+" "+truncated))
	}

	content := lipgloss.JoinHorizontal(lipgloss.Left, parts...)
	return StatusBarStyle.Width(m.width).Render(content)
}
