package interfaces

import (
	"context"

	"adventure-server/internal/models"
)

// TurnSessionRepository persists the append-only turn log.
type TurnSessionRepository interface {
	Create(ctx context.Context, querier DBTX, session *models.TurnSession) error

	// LatestByAdventure returns the newest turn session, or
	// models.ErrNotFound when the adventure has no turns yet.
	LatestByAdventure(ctx context.Context, querier DBTX, adventureID int64) (*models.TurnSession, error)

	// ListByAdventure returns turn sessions oldest first.
	ListByAdventure(ctx context.Context, querier DBTX, adventureID int64) ([]*models.TurnSession, error)
}
