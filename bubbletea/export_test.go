package bubbletea

// RenderContent exports renderContent for testing.
func RenderContent(m Model) string {
	return m.renderContent()
}

// CharsRemaining exports charsRemaining for testing.
var CharsRemaining = charsRemaining

// TruncateTitle exports truncateTitle for testing.
var TruncateTitle = truncateTitle

// RenderSidebar exports renderSidebar for testing.
var RenderSidebar = renderSidebar
