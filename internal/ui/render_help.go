package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) renderHelp() string {
	// Style for key hints - makes keys look like keyboard buttons
	keyStyle := lipgloss.NewStyle().
		Foreground(TextPrimary()).
		Background(CardBg()).
		Padding(0, 1).
		Bold(true)

	sepStyle := lipgloss.NewStyle().Foreground(TextFaint())
	descStyle := lipgloss.NewStyle().Foreground(TextSecondary())

	hint := func(key, desc string) string {
		return keyStyle.Render(key) + descStyle.Render(" "+desc)
	}

	key := func(bindings []string, fallback string) string {
		if len(bindings) > 0 {
			return bindings[0]
		}
		return fallback
	}

	sep := sepStyle.Render("  ")
	keys := m.config.Keys

	var hints []string
	switch {
	case m.showHistory:
		hints = append(hints,
			hint("↑/↓", "Nav"),
			hint("esc", "Close"),
		)
	case m.composer.Attaching():
		hints = append(hints,
			hint("enter", "Attach"),
			hint("esc", "Cancel"),
		)
	default:
		if len(m.composer.Suggestions()) > 0 {
			hints = append(hints,
				hint(key(keys.PrevSuggestion, "up")+"/"+key(keys.NextSuggestion, "down"), "Pick"),
				hint(key(keys.ApplySuggestion, "tab"), "Apply"),
			)
		}
		hints = append(hints, hint(key(keys.Submit, "enter"), "Send"))
		if m.composer.Attachment() != nil {
			hints = append(hints, hint(key(keys.RemoveAttachment, "ctrl+x"), "Drop image"))
		} else {
			hints = append(hints, hint(key(keys.Attach, "ctrl+o"), "Image"))
		}
		hints = append(hints,
			hint(key(keys.Clear, "esc"), "Clear"),
			hint(key(keys.History, "ctrl+r"), "History"),
		)
	}

	hints = append(hints, hint(key(keys.Quit, "ctrl+c"), "Quit"))
	return strings.Join(hints, sep)
}
