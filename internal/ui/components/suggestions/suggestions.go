// Package suggestions provides the completion dropdown shown above the
// composer input.
package suggestions

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles for the suggestions dropdown
type Styles struct {
	Box      lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Source   lipgloss.Style
}

// DefaultStyles returns default styling
func DefaultStyles() Styles {
	return Styles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6272A4")).
			Padding(0, 1),
		Item: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8F8F2")),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#282A36")).
			Background(lipgloss.Color("#8BE9FD")),
		Source: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4")).
			Italic(true),
	}
}

// Model is a read-only view over a suggestion list. Selection is owned by
// the caller; -1 means nothing is selected.
type Model struct {
	items    []string
	selected int
	footer   string
	maxShow  int
	styles   Styles
}

// New creates a new suggestions model
func New() Model {
	return Model{
		selected: -1,
		maxShow:  5,
		styles:   DefaultStyles(),
	}
}

// SetItems sets the suggestion items and the selected index. An index out
// of range is treated as no selection.
func (m Model) SetItems(items []string, selected int) Model {
	m.items = items
	if selected < 0 || selected >= len(items) {
		selected = -1
	}
	m.selected = selected
	return m
}

// SetFooter sets a faint line under the items, e.g. which channel answered.
func (m Model) SetFooter(s string) Model {
	m.footer = s
	return m
}

// SetStyles sets custom styles
func (m Model) SetStyles(s Styles) Model {
	m.styles = s
	return m
}

// SetMaxShow sets maximum visible items
func (m Model) SetMaxShow(n int) Model {
	if n > 0 {
		m.maxShow = n
	}
	return m
}

// Visible reports whether View renders anything.
func (m Model) Visible() bool {
	return len(m.items) > 0
}

// Selected returns the selected index, -1 if none
func (m Model) Selected() int {
	return m.selected
}

// Len returns number of items
func (m Model) Len() int {
	return len(m.items)
}

// Height is the rendered height in rows, borders included.
func (m Model) Height() int {
	if !m.Visible() {
		return 0
	}
	return lipgloss.Height(m.View())
}

// View renders the suggestions dropdown
func (m Model) View() string {
	if len(m.items) == 0 {
		return ""
	}

	// Calculate visible window
	start := 0
	if m.selected > m.maxShow/2 {
		start = m.selected - m.maxShow/2
	}
	end := start + m.maxShow
	if end > len(m.items) {
		end = len(m.items)
		if end-m.maxShow >= 0 {
			start = end - m.maxShow
		} else {
			start = 0
		}
	}

	var views []string
	for i := start; i < end; i++ {
		item := m.items[i]
		style := m.styles.Item
		prefix := "  "
		if i == m.selected {
			style = m.styles.Selected
			prefix = "> "
		}
		views = append(views, style.Render(prefix+item))
	}
	if m.footer != "" {
		views = append(views, m.styles.Source.Render(m.footer))
	}

	return m.styles.Box.Render(strings.Join(views, "\n"))
}
