package zdchat

import "github.com/google/uuid"

// NewID returns a random identifier for sessions and messages.
func NewID() string {
	return uuid.NewString()
}
