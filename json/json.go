// Package json implements serialization for parley's persisted and
// exported forms, and adapts a [parley.KV] to the [parley.SessionStore]
// contract.
//
// The persisted layout is two keys: the full session collection as a
// JSON array, and the active session id as a plain string.
package json

import (
	"encoding/json"
	"fmt"
	"time"

	"parley"
)

// sessionDTO is the persisted wire form of a Session.
type sessionDTO struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Messages  []messageDTO `json:"messages"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

type messageDTO struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// MarshalSessions serializes the full session collection.
func MarshalSessions(sessions []parley.Session) ([]byte, error) {
	dtos := make([]sessionDTO, len(sessions))
	for i, s := range sessions {
		dtos[i] = sessionDTO{
			ID:        s.ID,
			Title:     s.Title,
			Messages:  marshalMessages(s.Messages),
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		}
	}
	return json.Marshal(dtos)
}

// UnmarshalSessions deserializes a session collection.
func UnmarshalSessions(data []byte) ([]parley.Session, error) {
	var dtos []sessionDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("unmarshal sessions: %w", err)
	}
	sessions := make([]parley.Session, len(dtos))
	for i, dto := range dtos {
		msgs := make([]parley.Message, len(dto.Messages))
		for j, md := range dto.Messages {
			msgs[j] = parley.Message{
				ID:        md.ID,
				Role:      parley.Role(md.Role),
				Content:   md.Content,
				Timestamp: md.Timestamp,
			}
		}
		sessions[i] = parley.Session{
			ID:        dto.ID,
			Title:     dto.Title,
			Messages:  msgs,
			CreatedAt: dto.CreatedAt,
			UpdatedAt: dto.UpdatedAt,
		}
	}
	return sessions, nil
}

func marshalMessages(msgs []parley.Message) []messageDTO {
	dtos := make([]messageDTO, len(msgs))
	for i, m := range msgs {
		dtos[i] = messageDTO{
			ID:        m.ID,
			Role:      string(m.Role),
			Content:   m.Content,
			Timestamp: m.Timestamp,
		}
	}
	return dtos
}
