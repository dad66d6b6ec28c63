package dbschema

import (
	"time"

	"github.com/janhq/health-assistant/internal/domain/chat"
)

// ChatMessage is a row of the append-only chat_messages transcript.
type ChatMessage struct {
	ID        uint   `gorm:"primaryKey"`
	PublicID  string `gorm:"type:uuid;not null;uniqueIndex"`
	Role      string `gorm:"type:varchar(16);not null"`
	Content   string `gorm:"type:text;not null"`
	CreatedAt time.Time
}

func (ChatMessage) TableName() string { return "chat_messages" }

func NewSchemaChatMessage(d *chat.Message) *ChatMessage {
	if d == nil {
		return nil
	}
	return &ChatMessage{
		PublicID:  d.ID,
		Role:      string(d.Role),
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
	}
}

func (s *ChatMessage) EtoD() *chat.Message {
	if s == nil {
		return nil
	}
	return &chat.Message{
		ID:        s.PublicID,
		Role:      chat.Role(s.Role),
		Content:   s.Content,
		CreatedAt: s.CreatedAt,
	}
}
