// Package gemini implements [zdchat.Titler] and [zdchat.Transcriber] on the
// Google Gemini API.
//
// It wraps the google.golang.org/genai SDK. Titles are generated locally
// instead of through the chat backend's /generate_title route; transcription
// sends recorded audio inline and asks the model for a verbatim transcript.
package gemini

const (
	defaultModel = "gemini-2.5-flash"

	// untitled is what the title route answers when the model fails. The
	// store treats it like any other title, so it is never returned here.
	untitled = "Untitled Chat"
)
