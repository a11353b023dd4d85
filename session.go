package zdchat

import (
	"fmt"
	"time"
)

// Session is a persisted conversation thread.
//
// Title starts as a placeholder and is replaced at most once by a generated
// title; Titled records whether that replacement happened.
type Session struct {
	ID        string
	Title     string
	Messages  []Message
	CreatedAt time.Time
	Titled    bool
}

// SessionSummary is the listing projection of a Session.
type SessionSummary struct {
	ID    string
	Title string
}

// PlaceholderTitle returns the provisional title for the n-th session.
func PlaceholderTitle(n int) string {
	return fmt.Sprintf("Chat %d", n)
}

// hasUserMessage reports whether any message in the session came from the user.
func (s *Session) hasUserMessage() bool {
	for _, m := range s.Messages {
		if m.Sender == SenderUser {
			return true
		}
	}
	return false
}

func (s *Session) hasMessage(id string) bool {
	for _, m := range s.Messages {
		if m.ID == id {
			return true
		}
	}
	return false
}

// clone returns a deep copy so callers never alias the store's slices.
func (s *Session) clone() Session {
	c := *s
	c.Messages = append([]Message(nil), s.Messages...)
	return c
}
