package interfaces

import (
	"context"

	"adventure-server/internal/models"
)

// MessageRepository persists the adventure transcript.
type MessageRepository interface {
	Create(ctx context.Context, querier DBTX, message *models.Message) error

	// ListByAdventure returns messages oldest first.
	ListByAdventure(ctx context.Context, querier DBTX, adventureID int64) ([]*models.Message, error)
}
