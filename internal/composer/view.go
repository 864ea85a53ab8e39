package composer

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/Syed-Musa/talkup29/internal/suggest"
	"github.com/Syed-Musa/talkup29/internal/ui/components/suggestions"
)

// Styles used by the composer
type Styles struct {
	Prompt      lipgloss.Style
	Text        lipgloss.Style
	Placeholder lipgloss.Style
	Attachment  lipgloss.Style
	Notice      lipgloss.Style
	Sending     lipgloss.Style
	Dropdown    suggestions.Styles
}

func DefaultStyles() Styles {
	return Styles{
		Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color("#88C0D0")),
		Text:        lipgloss.NewStyle().Foreground(lipgloss.Color("#D8DEE9")),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("#4C566A")),
		Attachment:  lipgloss.NewStyle().Foreground(lipgloss.Color("#A3BE8C")),
		Notice:      lipgloss.NewStyle().Foreground(lipgloss.Color("#BF616A")),
		Sending:     lipgloss.NewStyle().Foreground(lipgloss.Color("#81A1C1")).Italic(true),
		Dropdown:    suggestions.DefaultStyles(),
	}
}

// View renders the attachment preview, the input line and any notice.
func (m Model) View() string {
	var rows []string
	if a := m.attachment; a != nil {
		rows = append(rows, m.styles.Attachment.Render(
			fmt.Sprintf("[%s] %s (%s)  %s to remove", a.MediaType, a.Name, humanSize(a.Size), firstKey(m.keys.RemoveAttachment))))
	}
	if m.attaching {
		rows = append(rows, m.prompt.View())
	} else {
		rows = append(rows, m.input.View())
	}
	switch {
	case m.notice != "":
		rows = append(rows, m.styles.Notice.Render(m.notice))
	case m.state == StateSending:
		rows = append(rows, m.styles.Sending.Render("sending..."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// SuggestionsView renders the dropdown, or "" when there is nothing to show.
// The parent overlays it directly above the input.
func (m Model) SuggestionsView() string {
	if m.rec.Len() == 0 || m.input.Value() == "" || m.attaching {
		return ""
	}
	idx, ok := m.rec.ActiveIndex()
	if !ok {
		idx = -1
	}
	footer := ""
	if m.lastSource == suggest.SourcePush {
		footer = "live"
	}
	return m.dropdown.SetItems(m.rec.Items(), idx).SetFooter(footer).View()
}

func humanSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

func firstKey(keys []string) string {
	if len(keys) == 0 {
		return "?"
	}
	return keys[0]
}
