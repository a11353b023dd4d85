// Package goldmark renders assistant replies to ANSI-styled terminal output
// using goldmark for parsing and lipgloss for styling.
//
// Replies arrive as plain text with one sentence per line, sometimes mixed
// with markdown lists and tables. Single newlines are therefore kept as line
// breaks rather than folded into the surrounding paragraph.
package goldmark

import "github.com/zdco/zdchat"

const defaultWidth = 80

// Render parses markdown source and returns ANSI-styled terminal output
// wrapped to width. Code blocks and tables are not reflowed.
func Render(source string, width int, theme zdchat.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = defaultWidth
	}
	return newTermRenderer(theme).render([]byte(source), width)
}
