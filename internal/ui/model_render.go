package ui

import (
	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	inputView := m.renderInput()
	statusBar := m.renderStatusBar()
	helpText := m.renderHelp()

	chromeHeight := lipgloss.Height(statusBar) + lipgloss.Height(helpText) + lipgloss.Height(inputView)
	transcriptHeight := m.height - chromeHeight
	if transcriptHeight < 0 {
		transcriptHeight = 0
	}
	m.viewport.Height = transcriptHeight

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		inputView,
		statusBar,
		helpText,
	)

	if m.showHistory {
		return m.renderHistoryPopup(main)
	}

	// The dropdown sits directly above the input box, starting under the
	// cursor column.
	if dropdown := m.composer.SuggestionsView(); dropdown != "" {
		bottomOffset := lipgloss.Height(statusBar) + lipgloss.Height(helpText) + lipgloss.Height(inputView)
		y := m.height - bottomOffset - lipgloss.Height(dropdown)
		if y < 0 {
			y = 0
		}
		x := lipgloss.Width(m.composer.Value()) + 2
		if w := lipgloss.Width(dropdown); x+w > m.width {
			x = m.width - w
		}
		if x < 0 {
			x = 0
		}
		main = overlay.Composite(dropdown, main, 0, 0, x, y)
	}

	return main
}

func (m Model) renderInput() string {
	return InputStyle.Width(m.width - 2).Render(m.composer.View())
}

func (m Model) renderHistoryPopup(main string) string {
	title := PopupTitleStyle.Render("Sent messages")
	body := lipgloss.JoinVertical(lipgloss.Left, title, m.historyTable.View())
	return overlay.Composite(PopupStyle.Render(body), main, overlay.Center, overlay.Center, 0, 0)
}
