package interfaces

import (
	"context"

	"adventure-server/internal/models"
)

// AdventureRepository defines adventure persistence.
type AdventureRepository interface {
	Create(ctx context.Context, querier DBTX, adventure *models.Adventure) error

	// GetByID returns models.ErrAdventureNotFound when absent.
	GetByID(ctx context.Context, querier DBTX, id int64) (*models.Adventure, error)

	// GetByIDForUpdate locks the adventure row for the duration of the
	// surrounding transaction. Must be called on a transaction querier.
	GetByIDForUpdate(ctx context.Context, querier DBTX, id int64) (*models.Adventure, error)

	// ListByParticipant returns adventures the user participates in,
	// newest first.
	ListByParticipant(ctx context.Context, querier DBTX, userID int64) ([]*models.Adventure, error)

	// Update rewrites title, description, setting and metadata.
	Update(ctx context.Context, querier DBTX, adventure *models.Adventure) error

	Delete(ctx context.Context, querier DBTX, id int64) error

	UpdateStatus(ctx context.Context, querier DBTX, id int64, status string) error

	UpdateRules(ctx context.Context, querier DBTX, id int64, rules models.RollRules) error

	UpdateSummary(ctx context.Context, querier DBTX, id int64, summary string) error
}
