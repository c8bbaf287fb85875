package interfaces

import (
	"context"

	"adventure-server/internal/models"
)

// CharacterRepository defines character persistence.
type CharacterRepository interface {
	Create(ctx context.Context, querier DBTX, character *models.Character) error

	// GetByID returns models.ErrCharacterNotFound when absent.
	GetByID(ctx context.Context, querier DBTX, id int64) (*models.Character, error)

	// ListByUser returns the user's characters ordered by creation time.
	ListByUser(ctx context.Context, querier DBTX, userID int64) ([]*models.Character, error)

	// ListByIDs returns the characters matching the given ids, in id order.
	// Missing ids are skipped.
	ListByIDs(ctx context.Context, querier DBTX, ids []int64) ([]*models.Character, error)

	Update(ctx context.Context, querier DBTX, character *models.Character) error

	Delete(ctx context.Context, querier DBTX, id int64) error
}
