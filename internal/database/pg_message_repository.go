package database

import (
	"context"
	"fmt"

	"adventure-server/internal/interfaces"
	"adventure-server/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"go.uber.org/zap"
)

// Compile-time check to ensure pgMessageRepository implements MessageRepository
var _ interfaces.MessageRepository = (*pgMessageRepository)(nil)

type pgMessageRepository struct {
	logger *zap.Logger
}

// NewPgMessageRepository creates a new PostgreSQL-backed MessageRepository.
func NewPgMessageRepository(logger *zap.Logger) interfaces.MessageRepository {
	return &pgMessageRepository{
		logger: logger.Named("PgMessageRepo"),
	}
}

// Create appends a message to the adventure transcript.
func (r *pgMessageRepository) Create(ctx context.Context, querier interfaces.DBTX, message *models.Message) error {
	query := `INSERT INTO messages (adventure_id, user_id, author, text)
	          VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("adventureID", message.AdventureID), zap.String("author", message.Author))
	err := querier.QueryRow(ctx, query,
		message.AdventureID, message.UserID, message.Author, message.Text,
	).Scan(&message.ID, &message.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create message in postgres", zap.Error(err), zap.Int64("adventureID", message.AdventureID))
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListByAdventure retrieves the transcript of an adventure, oldest first.
func (r *pgMessageRepository) ListByAdventure(ctx context.Context, querier interfaces.DBTX, adventureID int64) ([]*models.Message, error) {
	query := `SELECT id, adventure_id, user_id, author, text, created_at
	          FROM messages WHERE adventure_id = $1 ORDER BY id ASC`
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("adventureID", adventureID))
	var messages []*models.Message
	if err := pgxscan.Select(ctx, querier, &messages, query, adventureID); err != nil {
		r.logger.Error("Failed to list messages from postgres", zap.Error(err), zap.Int64("adventureID", adventureID))
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}
