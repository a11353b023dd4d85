package bubbletea

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/zdco/zdchat"
)

// Styles maps a Theme to lipgloss styles for TUI rendering.
type Styles struct {
	UserMsg    lipgloss.Style
	Module     lipgloss.Style
	Error      lipgloss.Style
	Warning    lipgloss.Style
	Muted      lipgloss.Style
	Accent     lipgloss.Style
	ActiveItem lipgloss.Style
	Sidebar    lipgloss.Style
	Notice     lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t zdchat.Theme) Styles {
	return Styles{
		UserMsg:    lipgloss.NewStyle().Foreground(ansiColor(t.UserMsg)).Bold(true),
		Module:     lipgloss.NewStyle().Foreground(ansiColor(t.Module)),
		Error:      lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Warning:    lipgloss.NewStyle().Foreground(ansiColor(t.Warning)).Bold(true),
		Muted:      lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		Accent:     lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
		ActiveItem: lipgloss.NewStyle().Background(ansiColor(t.ActiveBg)).Bold(true),
		Sidebar: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(ansiColor(t.Muted)),
		Notice: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ansiColor(t.Error)).
			Padding(0, 2),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
