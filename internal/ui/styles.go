// internal/ui/styles.go
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Syed-Musa/talkup29/internal/composer"
	"github.com/Syed-Musa/talkup29/internal/config"
	"github.com/Syed-Musa/talkup29/internal/ui/components/suggestions"
)

var (
	// Colors (exported via getter functions below)
	textPrimary   lipgloss.Color
	textSecondary lipgloss.Color
	textFaint     lipgloss.Color

	accentColor    lipgloss.Color
	successColor   lipgloss.Color
	errorColor     lipgloss.Color
	highlightColor lipgloss.Color
	warningColor   lipgloss.Color

	bgPrimary   lipgloss.Color
	bgSecondary lipgloss.Color
	cardBg      lipgloss.Color

	// Styles
	StatusBarStyle  lipgloss.Style
	StateStyle      lipgloss.Style
	SendingStyle    lipgloss.Style
	ReceiverStyle   lipgloss.Style
	OwnMessageStyle lipgloss.Style
	MetaStyle       lipgloss.Style
	InputStyle      lipgloss.Style
	PromptStyle     lipgloss.Style
	SuccessStyle    lipgloss.Style
	ErrorStyle      lipgloss.Style
	FailedStyle     lipgloss.Style
	PopupStyle      lipgloss.Style
	PopupTitleStyle lipgloss.Style
	EmptyTranscript lipgloss.Style
)

// Color getter functions for use in components
func TextPrimary() lipgloss.Color    { return textPrimary }
func TextSecondary() lipgloss.Color  { return textSecondary }
func TextFaint() lipgloss.Color      { return textFaint }
func AccentColor() lipgloss.Color    { return accentColor }
func SuccessColor() lipgloss.Color   { return successColor }
func ErrorColor() lipgloss.Color     { return errorColor }
func HighlightColor() lipgloss.Color { return highlightColor }
func WarningColor() lipgloss.Color   { return warningColor }
func BgPrimary() lipgloss.Color      { return bgPrimary }
func BgSecondary() lipgloss.Color    { return bgSecondary }
func CardBg() lipgloss.Color         { return cardBg }

// InitStyles initializes the global styles based on the provided configuration theme
func InitStyles(theme config.Theme) {
	textPrimary = lipgloss.Color(theme.TextPrimary)
	textSecondary = lipgloss.Color(theme.TextSecondary)
	textFaint = lipgloss.Color(theme.TextFaint)

	accentColor = lipgloss.Color(theme.Accent)
	successColor = lipgloss.Color(theme.Success)
	errorColor = lipgloss.Color(theme.Error)
	highlightColor = lipgloss.Color(theme.Highlight)
	warningColor = lipgloss.Color(theme.Warning)

	bgPrimary = lipgloss.Color(theme.BgPrimary)
	bgSecondary = lipgloss.Color(theme.BgSecondary)
	cardBg = lipgloss.Color(theme.CardBg)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(textPrimary).
		Background(bgSecondary)

	StateStyle = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(successColor).
		Foreground(bgPrimary)

	SendingStyle = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(accentColor).
		Foreground(bgPrimary)

	ReceiverStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(cardBg).
		Foreground(textPrimary)

	OwnMessageStyle = lipgloss.NewStyle().
		Foreground(textPrimary).
		PaddingLeft(2)

	MetaStyle = lipgloss.NewStyle().
		Foreground(textFaint).
		Italic(true)

	InputStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), true, false, false, false).
		BorderForeground(textFaint)

	PromptStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor)

	SuccessStyle = lipgloss.NewStyle().
		Foreground(successColor)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(errorColor).
		Bold(true)

	FailedStyle = lipgloss.NewStyle().
		Foreground(errorColor).
		PaddingLeft(2)

	PopupStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(highlightColor).
		Padding(1, 2)

	PopupTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor).
		MarginBottom(1)

	EmptyTranscript = lipgloss.NewStyle().
		Foreground(textFaint).
		Italic(true).
		PaddingLeft(2)
}

// ComposerStyles maps the current theme onto the composer's styles.
func ComposerStyles() composer.Styles {
	return composer.Styles{
		Prompt:      PromptStyle,
		Text:        lipgloss.NewStyle().Foreground(textPrimary),
		Placeholder: lipgloss.NewStyle().Foreground(textFaint),
		Attachment:  lipgloss.NewStyle().Foreground(successColor),
		Notice:      lipgloss.NewStyle().Foreground(errorColor),
		Sending:     lipgloss.NewStyle().Foreground(textSecondary).Italic(true),
		Dropdown: suggestions.Styles{
			Box: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(textFaint).
				Padding(0, 1),
			Item: lipgloss.NewStyle().Foreground(textPrimary),
			Selected: lipgloss.NewStyle().
				Foreground(lipgloss.Color("#000000")).
				Background(highlightColor).
				Bold(true),
			Source: lipgloss.NewStyle().Foreground(textFaint).Italic(true),
		},
	}
}
