package chatrepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/janhq/health-assistant/internal/domain/chat"
	"github.com/janhq/health-assistant/internal/infrastructure/database/dbschema"
	"github.com/janhq/health-assistant/internal/utils/platformerrors"
)

type Repository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) chat.Repository {
	return &Repository{db: db}
}

func (r *Repository) Append(ctx context.Context, msg *chat.Message) error {
	row := dbschema.NewSchemaChatMessage(msg)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to append chat message")
	}
	msg.CreatedAt = row.CreatedAt
	return nil
}

// List returns the latest limit messages in insertion order.
func (r *Repository) List(ctx context.Context, limit int) ([]chat.Message, error) {
	var rows []dbschema.ChatMessage
	latest := r.db.WithContext(ctx).
		Model(&dbschema.ChatMessage{}).
		Order("id DESC").
		Limit(limit)
	if err := r.db.WithContext(ctx).
		Table("(?) AS recent", latest).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to list chat messages")
	}
	result := make([]chat.Message, 0, len(rows))
	for i := range rows {
		result = append(result, *rows[i].EtoD())
	}
	return result, nil
}
