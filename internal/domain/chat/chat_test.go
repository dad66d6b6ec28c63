package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/health-assistant/internal/domain/assistant"
)

type memoryRepo struct {
	messages  []Message
	appendErr error
}

func (m *memoryRepo) Append(ctx context.Context, msg *Message) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *memoryRepo) List(ctx context.Context, limit int) ([]Message, error) {
	if limit > len(m.messages) {
		limit = len(m.messages)
	}
	return m.messages[:limit], nil
}

type answerFunc func(ctx context.Context, query string) (string, error)

func (f answerFunc) Answer(ctx context.Context, query string) (string, error) { return f(ctx, query) }

func TestAsk_RecordsBothTurns(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo, answerFunc(func(ctx context.Context, q string) (string, error) {
		return "You slept 7h 25m.", nil
	}), zerolog.Nop())

	ex, err := svc.Ask(context.Background(), "  how did I sleep?  ")
	require.NoError(t, err)
	assert.False(t, ex.Degraded)
	assert.Equal(t, "how did I sleep?", ex.Query.Content)
	assert.Equal(t, "You slept 7h 25m.", ex.Reply.Content)

	history, err := svc.History(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, RoleUser, history[0].Role)
	assert.Equal(t, RoleAssistant, history[1].Role)
	assert.NotEqual(t, history[0].ID, history[1].ID)
}

func TestAsk_RendersUnavailable(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo, answerFunc(func(ctx context.Context, q string) (string, error) {
		return "", fmt.Errorf("synthesis stage: %w", assistant.ErrServiceUnavailable)
	}), zerolog.Nop())

	ex, err := svc.Ask(context.Background(), "sleep?")
	require.NoError(t, err)
	assert.True(t, ex.Degraded)
	assert.Equal(t, assistant.UnavailableMessage, ex.Reply.Content)
	assert.Len(t, repo.messages, 2)
}

func TestAsk_EmptyQuery(t *testing.T) {
	svc := NewService(&memoryRepo{}, answerFunc(func(ctx context.Context, q string) (string, error) {
		t.Fatal("answerer must not be called")
		return "", nil
	}), zerolog.Nop())

	_, err := svc.Ask(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestAsk_TranscriptFailureDoesNotFailAnswer(t *testing.T) {
	svc := NewService(&memoryRepo{appendErr: errors.New("db down")}, answerFunc(func(ctx context.Context, q string) (string, error) {
		return "ok", nil
	}), zerolog.Nop())

	ex, err := svc.Ask(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "ok", ex.Reply.Content)
}
