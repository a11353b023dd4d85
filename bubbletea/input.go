package bubbletea

import (
	"strconv"

	"github.com/rivo/uniseg"
)

const (
	// MaxChars is the longest message the input accepts.
	MaxChars = 4000
	// NearLimit is the remaining-character count below which the counter
	// switches to the warning style.
	NearLimit = 100
)

// charsRemaining counts user-perceived characters, so a flag emoji or a
// letter with combining accents costs one.
func charsRemaining(value string) int {
	return MaxChars - uniseg.GraphemeClusterCount(value)
}

func (m Model) counter() string {
	value := m.Input.Value()
	if value == "" {
		return ""
	}
	n := charsRemaining(value)
	if n < NearLimit {
		return m.styles.Warning.Render(strconv.Itoa(n))
	}
	return m.styles.Muted.Render(strconv.Itoa(n))
}
