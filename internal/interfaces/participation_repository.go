package interfaces

import (
	"context"

	"adventure-server/internal/models"
)

// ParticipationRepository defines membership persistence.
type ParticipationRepository interface {
	// Join inserts a participation row. Re-joining an adventure the user
	// already belongs to is a no-op that preserves the existing character
	// selection; the boolean reports whether a new row was created.
	Join(ctx context.Context, querier DBTX, participation *models.Participation) (bool, error)

	// Get returns models.ErrParticipationNotFound when the user does not
	// participate in the adventure.
	Get(ctx context.Context, querier DBTX, userID, adventureID int64) (*models.Participation, error)

	// ListByAdventure returns all participants of an adventure.
	ListByAdventure(ctx context.Context, querier DBTX, adventureID int64) ([]*models.Participation, error)

	// SetCharacter binds the user's chosen character for the adventure.
	SetCharacter(ctx context.Context, querier DBTX, userID, adventureID int64, characterID *int64) error
}
