package bubbletea

import (
	"strings"
	"time"

	"github.com/zdco/zdchat"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MessageBlock is a renderable element in the conversation. View takes the
// width so the root model controls layout and blocks are testable in
// isolation.
type MessageBlock interface {
	View(width int) string
}

var moduleIcons = map[zdchat.ModuleTag]string{
	zdchat.ModuleOrder: "📦",
	zdchat.ModuleAfaqy: "🚛",
}

// ModuleIndicator returns the label shown above a message routed to tag,
// e.g. "📦 Order Module". Tags without an icon get the label alone;
// underscores read as spaces.
func ModuleIndicator(tag zdchat.ModuleTag) string {
	if tag == "" {
		return ""
	}
	label := cases.Title(language.Und).String(strings.ReplaceAll(string(tag), "_", " ")) + " Module"
	if icon, ok := moduleIcons[tag]; ok {
		return icon + " " + label
	}
	return label
}

func header(who string, at time.Time, styles Styles) string {
	if at.IsZero() {
		return styles.Muted.Render(who)
	}
	return styles.Muted.Render(who + " · " + at.Local().Format(time.Kitchen))
}
