package gemini

import (
	"regexp"
	"strings"
)

// identifierWords matches words that start with "order" or "truck" together
// with whatever is glued to them, e.g. "order#4411" or "truck-42".
var identifierWords = regexp.MustCompile(`(?i)\b(order|truck)[^ ]*\b`)

// CleanTitleInput strips order and truck identifiers from message so the
// model does not echo them into the title.
func CleanTitleInput(message string) string {
	return strings.TrimSpace(identifierWords.ReplaceAllString(message, ""))
}

// TitlePrompt builds the title request for message.
func TitlePrompt(message string) string {
	var b strings.Builder
	b.WriteString("Generate a short 3-5 word chat title for this message. Avoid numbers or IDs.\n\n")
	b.WriteString("Message:\n")
	b.WriteString(CleanTitleInput(message))
	b.WriteString("\n\nTitle:\n")
	return b.String()
}

const transcribePrompt = "Transcribe the speech in this recording verbatim. " +
	"Reply with the transcript only. Reply with nothing if there is no speech."

// cleanTitle keeps the first non-empty line and drops wrapping quotes and
// markdown emphasis the model sometimes adds.
func cleanTitle(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "\"'*`")
		line = strings.TrimSpace(strings.TrimPrefix(line, "Title:"))
		if line != "" {
			return line
		}
	}
	return ""
}
