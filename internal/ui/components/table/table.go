// Package table wraps bubble-table with the app's look and builds the sent
// history table.
package table

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	bbtable "github.com/evertras/bubble-table/table"

	"github.com/Syed-Musa/talkup29/internal/history"
)

// Nord colors
const (
	ColorForeground = "#D8DEE9" // Nord4: Light gray
	ColorComment    = "#4C566A" // Nord3: Dark gray
	ColorCyan       = "#88C0D0" // Nord8: Cyan blue
	ColorGreen      = "#A3BE8C" // Nord14: Green
	ColorTeal       = "#8FBCBB" // Nord7: Teal
)

// Column keys of the history table
const (
	ColSent  = "sent"
	ColImage = "image"
	ColText  = "text"
	ColID    = "id"
)

// New creates a new bubble-table with Nord theme (no background)
func New(cols []bbtable.Column) bbtable.Model {
	return bbtable.New(cols).
		WithBaseStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorForeground))).
		HeaderStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorTeal)).
			Bold(true)).
		HighlightStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorGreen)).
			Bold(true)).
		Focused(true).
		BorderRounded()
}

// FromHistory builds the sent-messages table, newest first. width is the
// space available for the whole table.
func FromHistory(entries []history.Entry, width, pageSize int) bbtable.Model {
	textWidth := width - 16 - 7 - 8
	if textWidth < 20 {
		textWidth = 20
	}
	cols := []bbtable.Column{
		bbtable.NewColumn(ColSent, "Sent", 16),
		bbtable.NewColumn(ColImage, "Img", 5),
		bbtable.NewColumn(ColText, "Message", textWidth),
	}

	faint := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorComment))
	var rows []bbtable.Row
	for _, e := range entries {
		img := ""
		if e.HasImage {
			img = "yes"
		}
		rows = append(rows, bbtable.NewRow(bbtable.RowData{
			ColSent:  bbtable.NewStyledCell(e.SentAt.Local().Format("Jan 02 15:04"), faint),
			ColImage: img,
			ColText:  e.Preview(textWidth - 2),
			ColID:    e.ID,
		}))
	}

	footer := fmt.Sprintf("%d sent • esc to close", len(entries))
	if len(entries) == 0 {
		footer = "nothing sent yet • esc to close"
	}
	return New(cols).
		WithRows(rows).
		WithPageSize(pageSize).
		WithStaticFooter(footer)
}
