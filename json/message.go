package json

import (
	"fmt"
	"time"

	"github.com/zdco/zdchat"
)

type messageDTO struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	Module    string    `json:"module,omitempty"`
}

func marshalMessage(m zdchat.Message) (messageDTO, error) {
	if _, err := parseSender(string(m.Sender)); err != nil {
		return messageDTO{}, err
	}
	return messageDTO{
		ID:        m.ID,
		Content:   m.Content,
		Sender:    string(m.Sender),
		Timestamp: m.Timestamp,
		Module:    string(m.Module),
	}, nil
}

func unmarshalMessage(dto messageDTO) (zdchat.Message, error) {
	sender, err := parseSender(dto.Sender)
	if err != nil {
		return zdchat.Message{}, err
	}
	return zdchat.Message{
		ID:        dto.ID,
		Content:   dto.Content,
		Sender:    sender,
		Timestamp: dto.Timestamp,
		Module:    zdchat.ModuleTag(dto.Module),
	}, nil
}

// parseSender maps wire sender names to zdchat.Sender. "ai" is the browser
// client's name for the assistant.
func parseSender(s string) (zdchat.Sender, error) {
	switch s {
	case "user":
		return zdchat.SenderUser, nil
	case "assistant", "ai":
		return zdchat.SenderAssistant, nil
	default:
		return "", fmt.Errorf("unknown sender: %q", s)
	}
}
