package icons

const (
	IconSuccess   = "✓"
	IconError     = "⚠"
	IconSelect    = "▸"
	IconBullet    = "•"
	IconSeparator = "  •  "
	IconImage     = "▣"
	IconOnline    = "●"
	IconOffline   = "○"
	IconTyping    = "…"
)

// Link returns the connection indicator for the push socket.
func Link(connected bool) string {
	if connected {
		return IconOnline
	}
	return IconOffline
}
