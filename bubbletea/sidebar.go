package bubbletea

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/zdco/zdchat"
)

const (
	sidebarMaxWidth = 28
	sidebarMinTotal = 60 // below this terminal width the sidebar is hidden
)

// sidebarWidth returns the sidebar width, border included, for a terminal
// of the given width.
func sidebarWidth(total int) int {
	if total < sidebarMinTotal {
		return 0
	}
	return min(sidebarMaxWidth, total/3)
}

// truncateTitle shortens title to fit width terminal cells. Wide runes such
// as CJK and emoji count double.
func truncateTitle(title string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(title, width, "…")
}

func renderSidebar(sessions []zdchat.SessionSummary, activeID string, width, height int, styles Styles) string {
	inner := width - 1 // right border
	var b strings.Builder
	b.WriteString(styles.Accent.Render(truncateTitle("Chats", inner)))
	b.WriteString("\n")
	if len(sessions) == 0 {
		b.WriteString(styles.Muted.Render(truncateTitle("No chats yet", inner)))
	}
	for i, s := range sessions {
		if i > 0 {
			b.WriteString("\n")
		}
		title := truncateTitle(s.Title, inner-2)
		if s.ID == activeID {
			line := "▸ " + title
			line += strings.Repeat(" ", max(inner-runewidth.StringWidth(line), 0))
			b.WriteString(styles.ActiveItem.Render(line))
			continue
		}
		b.WriteString("  " + title)
	}
	return styles.Sidebar.Width(inner).Height(height).MaxHeight(height).Render(b.String())
}
