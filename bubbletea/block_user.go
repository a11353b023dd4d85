package bubbletea

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/zdco/zdchat"
)

var _ MessageBlock = (*UserMessageBlock)(nil)

// UserMessageBlock renders a user message with a "> " prefix.
type UserMessageBlock struct {
	msg    zdchat.Message
	styles Styles
}

// NewUserMessageBlock creates a UserMessageBlock.
func NewUserMessageBlock(msg zdchat.Message, styles Styles) *UserMessageBlock {
	return &UserMessageBlock{msg: msg, styles: styles}
}

func (b *UserMessageBlock) View(width int) string {
	var s strings.Builder
	s.WriteString(header("You", b.msg.Timestamp, b.styles))
	s.WriteString("\n")
	if ind := ModuleIndicator(b.msg.Module); ind != "" {
		s.WriteString(b.styles.Module.Render(ind))
		s.WriteString("\n")
	}
	body := lipgloss.NewStyle().Width(max(width-2, 1)).Render(b.msg.Content)
	prompt := b.styles.UserMsg.Render("> ")
	for i, line := range strings.Split(body, "\n") {
		if i > 0 {
			s.WriteString("\n  ")
		} else {
			s.WriteString(prompt)
		}
		s.WriteString(line)
	}
	return s.String()
}
