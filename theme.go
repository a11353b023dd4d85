package zdchat

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values.
type Theme struct {
	UserMsg  int // User message accent
	Module   int // Module indicator line
	Error    int // Notices and failures
	Warning  int // Near-limit character counter
	Muted    int // Status bar, placeholders
	Accent   int // Headings, links, sidebar header
	ActiveBg int // Highlighted sidebar entry
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		UserMsg:  4,
		Module:   6,
		Error:    1,
		Warning:  3,
		Muted:    8,
		Accent:   5,
		ActiveBg: 4,
	}
}
