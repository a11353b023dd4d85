package zdchat

import "time"

// ModuleTag labels the backend capability area a query targets.
// The empty tag means the message carries no classification.
type ModuleTag string

const (
	ModuleOrder ModuleTag = "order"
	ModuleAfaqy ModuleTag = "afaqy"
)

// Message is a single entry in a session's conversation. Messages are
// immutable once appended to a session.
type Message struct {
	ID        string
	Content   string
	Sender    Sender
	Timestamp time.Time
	Module    ModuleTag
}

// NewUserMessage builds a user message with a fresh ID.
func NewUserMessage(content string, module ModuleTag, at time.Time) Message {
	return Message{
		ID:        NewID(),
		Content:   content,
		Sender:    SenderUser,
		Timestamp: at,
		Module:    module,
	}
}

// NewAssistantMessage builds an assistant message with a fresh ID.
func NewAssistantMessage(content string, module ModuleTag, at time.Time) Message {
	return Message{
		ID:        NewID(),
		Content:   content,
		Sender:    SenderAssistant,
		Timestamp: at,
		Module:    module,
	}
}
