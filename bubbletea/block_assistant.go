package bubbletea

import (
	"strings"

	"github.com/zdco/zdchat"
	"github.com/zdco/zdchat/goldmark"
)

var _ MessageBlock = (*AssistantMessageBlock)(nil)

// AssistantMessageBlock renders an assistant reply as markdown. Replies are
// immutable, so the rendering is cached per width.
type AssistantMessageBlock struct {
	msg     zdchat.Message
	theme   zdchat.Theme
	styles  Styles
	byWidth map[int]string
}

// NewAssistantMessageBlock creates an AssistantMessageBlock.
func NewAssistantMessageBlock(msg zdchat.Message, theme zdchat.Theme, styles Styles) *AssistantMessageBlock {
	return &AssistantMessageBlock{
		msg:     msg,
		theme:   theme,
		styles:  styles,
		byWidth: make(map[int]string),
	}
}

func (b *AssistantMessageBlock) View(width int) string {
	if cached, ok := b.byWidth[width]; ok {
		return cached
	}
	var s strings.Builder
	s.WriteString(header("ZDCO Assistant", b.msg.Timestamp, b.styles))
	s.WriteString("\n")
	if ind := ModuleIndicator(b.msg.Module); ind != "" {
		s.WriteString(b.styles.Module.Render(ind))
		s.WriteString("\n")
	}
	if b.msg.Content == zdchat.FailureNotice {
		s.WriteString(b.styles.Error.Render(b.msg.Content))
	} else {
		s.WriteString(goldmark.Render(b.msg.Content, width, b.theme))
	}
	out := s.String()
	b.byWidth[width] = out
	return out
}
