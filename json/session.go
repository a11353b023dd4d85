package json

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/zdco/zdchat"
)

type sessionDTO struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Titled    bool         `json:"titled,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	Messages  []messageDTO `json:"messages"`
}

func marshalSession(s zdchat.Session) (sessionDTO, error) {
	dto := sessionDTO{
		ID:        s.ID,
		Title:     s.Title,
		Titled:    s.Titled,
		CreatedAt: s.CreatedAt,
		Messages:  make([]messageDTO, len(s.Messages)),
	}
	for i, m := range s.Messages {
		md, err := marshalMessage(m)
		if err != nil {
			return sessionDTO{}, fmt.Errorf("message %d: %w", i, err)
		}
		dto.Messages[i] = md
	}
	return dto, nil
}

func unmarshalSession(dto sessionDTO) (zdchat.Session, error) {
	s := zdchat.Session{
		ID:        dto.ID,
		Title:     dto.Title,
		Titled:    dto.Titled,
		CreatedAt: dto.CreatedAt,
	}
	if len(dto.Messages) > 0 {
		s.Messages = make([]zdchat.Message, len(dto.Messages))
	}
	for i, md := range dto.Messages {
		m, err := unmarshalMessage(md)
		if err != nil {
			return zdchat.Session{}, fmt.Errorf("message %d: %w", i, err)
		}
		s.Messages[i] = m
	}
	return s, nil
}

// legacySessionDTO is the camelCase layout of the browser client's
// persisted sessions.
type legacySessionDTO struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	CreatedAt time.Time          `json:"createdAt"`
	Messages  []legacyMessageDTO `json:"messages"`
}

type legacyMessageDTO struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	Sender     string    `json:"sender"`
	Timestamp  time.Time `json:"timestamp"`
	ModuleType string    `json:"moduleType,omitempty"`
}

func unmarshalLegacy(data []byte) (zdchat.Snapshot, error) {
	var legacy []legacySessionDTO
	if err := json.Unmarshal(data, &legacy); err != nil {
		return zdchat.Snapshot{}, fmt.Errorf("unmarshal legacy sessions: %w", err)
	}
	snap := zdchat.Snapshot{Sessions: make([]zdchat.Session, len(legacy))}
	for i, ls := range legacy {
		s := zdchat.Session{
			ID:        ls.ID,
			Title:     ls.Title,
			CreatedAt: ls.CreatedAt,
		}
		for j, lm := range ls.Messages {
			sender, err := parseSender(lm.Sender)
			if err != nil {
				return zdchat.Snapshot{}, fmt.Errorf("session %d: message %d: %w", i, j, err)
			}
			s.Messages = append(s.Messages, zdchat.Message{
				ID:        lm.ID,
				Content:   lm.Content,
				Sender:    sender,
				Timestamp: lm.Timestamp,
				Module:    zdchat.ModuleTag(lm.ModuleType),
			})
			// The browser client asked for a title on the first user
			// message, so any session holding one had its chance.
			if sender == zdchat.SenderUser {
				s.Titled = true
			}
		}
		snap.Sessions[i] = s
	}
	return snap, nil
}
