// Package chat keeps the append-only transcript around the assistant.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/janhq/health-assistant/internal/domain/assistant"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ErrEmptyQuery rejects blank questions before they reach the pipeline.
var ErrEmptyQuery = errors.New("query must not be empty")

// Message is one transcript entry.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository persists transcript entries in insertion order.
type Repository interface {
	Append(ctx context.Context, msg *Message) error
	List(ctx context.Context, limit int) ([]Message, error)
}

// Answerer is the assistant entry point.
type Answerer interface {
	Answer(ctx context.Context, query string) (string, error)
}

// Exchange is the outcome of one Ask.
type Exchange struct {
	Query    Message
	Reply    Message
	Degraded bool
}

type Service struct {
	repo     Repository
	answerer Answerer
	now      func() time.Time
	log      zerolog.Logger
}

func NewService(repo Repository, answerer Answerer, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		answerer: answerer,
		now:      time.Now,
		log:      log.With().Str("component", "chat").Logger(),
	}
}

// Ask answers query and records both turns. Pipeline failures are rendered as
// fixed replies and flagged Degraded; transcript write failures are logged only.
func (s *Service) Ask(ctx context.Context, query string) (*Exchange, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	ex := &Exchange{Query: s.newMessage(RoleUser, query)}
	s.append(ctx, &ex.Query)

	reply, err := s.answerer.Answer(ctx, query)
	if err != nil {
		s.log.Error().Err(err).Msg("answer failed")
		reply = assistant.RenderFailure(err)
		ex.Degraded = true
	}

	ex.Reply = s.newMessage(RoleAssistant, reply)
	s.append(ctx, &ex.Reply)
	return ex, nil
}

// History returns up to limit transcript entries, oldest first.
func (s *Service) History(ctx context.Context, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.repo.List(ctx, limit)
}

func (s *Service) newMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
}

func (s *Service) append(ctx context.Context, msg *Message) {
	if err := s.repo.Append(ctx, msg); err != nil {
		s.log.Warn().Err(err).Str("role", string(msg.Role)).Msg("transcript append failed")
	}
}
