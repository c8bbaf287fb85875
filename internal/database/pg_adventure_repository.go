package database

import (
	"context"
	"errors"
	"fmt"

	"adventure-server/internal/interfaces"
	"adventure-server/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Compile-time check to ensure pgAdventureRepository implements AdventureRepository
var _ interfaces.AdventureRepository = (*pgAdventureRepository)(nil)

const adventureColumns = `id, creator_id, title, description, setting, rules, status, summary, metadata, created_at`

type pgAdventureRepository struct {
	logger *zap.Logger
}

// NewPgAdventureRepository creates a new PostgreSQL-backed AdventureRepository.
func NewPgAdventureRepository(logger *zap.Logger) interfaces.AdventureRepository {
	return &pgAdventureRepository{
		logger: logger.Named("PgAdventureRepo"),
	}
}

// Create inserts a new adventure in the preparing state.
func (r *pgAdventureRepository) Create(ctx context.Context, querier interfaces.DBTX, adventure *models.Adventure) error {
	query := `INSERT INTO adventures (creator_id, title, description, setting, rules, status, summary, metadata)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at`
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("creatorID", adventure.CreatorID), zap.String("title", adventure.Title))
	err := querier.QueryRow(ctx, query,
		adventure.CreatorID, adventure.Title, adventure.Description, adventure.Setting,
		adventure.Rules, adventure.Status, adventure.Summary, adventure.Metadata,
	).Scan(&adventure.ID, &adventure.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create adventure in postgres", zap.Error(err), zap.Int64("creatorID", adventure.CreatorID))
		return fmt.Errorf("failed to create adventure in postgres: %w", err)
	}
	r.logger.Info("Adventure created successfully", zap.Int64("adventureID", adventure.ID), zap.String("title", adventure.Title))
	return nil
}

func (r *pgAdventureRepository) getByID(ctx context.Context, querier interfaces.DBTX, id int64, lock bool) (*models.Adventure, error) {
	query := `SELECT ` + adventureColumns + ` FROM adventures WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	adventure := &models.Adventure{}
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("id", id))
	err := querier.QueryRow(ctx, query, id).Scan(
		&adventure.ID, &adventure.CreatorID, &adventure.Title, &adventure.Description,
		&adventure.Setting, &adventure.Rules, &adventure.Status, &adventure.Summary,
		&adventure.Metadata, &adventure.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrAdventureNotFound
		}
		r.logger.Error("Failed to get adventure from postgres", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get adventure from postgres: %w", err)
	}
	return adventure, nil
}

// GetByID retrieves an adventure by its ID.
func (r *pgAdventureRepository) GetByID(ctx context.Context, querier interfaces.DBTX, id int64) (*models.Adventure, error) {
	return r.getByID(ctx, querier, id, false)
}

// GetByIDForUpdate retrieves an adventure and locks its row until the
// surrounding transaction ends. Concurrent turn commits for the same
// adventure queue up on this lock.
func (r *pgAdventureRepository) GetByIDForUpdate(ctx context.Context, querier interfaces.DBTX, id int64) (*models.Adventure, error) {
	return r.getByID(ctx, querier, id, true)
}

// ListByParticipant retrieves adventures the user participates in, newest first.
func (r *pgAdventureRepository) ListByParticipant(ctx context.Context, querier interfaces.DBTX, userID int64) ([]*models.Adventure, error) {
	query := `SELECT a.id, a.creator_id, a.title, a.description, a.setting, a.rules, a.status, a.summary, a.metadata, a.created_at
	          FROM adventures a
	          JOIN participations p ON p.adventure_id = a.id
	          WHERE p.user_id = $1
	          ORDER BY a.created_at DESC, a.id DESC`
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("userID", userID))
	var adventures []*models.Adventure
	if err := pgxscan.Select(ctx, querier, &adventures, query, userID); err != nil {
		r.logger.Error("Failed to list adventures from postgres", zap.Error(err), zap.Int64("userID", userID))
		return nil, fmt.Errorf("failed to list adventures: %w", err)
	}
	return adventures, nil
}

// Update rewrites the descriptive fields of an adventure.
func (r *pgAdventureRepository) Update(ctx context.Context, querier interfaces.DBTX, adventure *models.Adventure) error {
	query := `UPDATE adventures
	          SET title = $1, description = $2, setting = $3, metadata = $4, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $5`
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("id", adventure.ID))
	cmdTag, err := querier.Exec(ctx, query,
		adventure.Title, adventure.Description, adventure.Setting, adventure.Metadata, adventure.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update adventure in postgres", zap.Error(err), zap.Int64("id", adventure.ID))
		return fmt.Errorf("failed to update adventure: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrAdventureNotFound
	}
	return nil
}

// Delete removes an adventure and, via cascades, its participations,
// sessions and messages.
func (r *pgAdventureRepository) Delete(ctx context.Context, querier interfaces.DBTX, id int64) error {
	query := `DELETE FROM adventures WHERE id = $1`
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("id", id))
	cmdTag, err := querier.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete adventure from postgres", zap.Error(err), zap.Int64("id", id))
		return fmt.Errorf("failed to delete adventure: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrAdventureNotFound
	}
	r.logger.Info("Adventure deleted", zap.Int64("adventureID", id))
	return nil
}

// UpdateStatus moves the adventure to a new lifecycle status.
func (r *pgAdventureRepository) UpdateStatus(ctx context.Context, querier interfaces.DBTX, id int64, status string) error {
	query := `UPDATE adventures SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("id", id), zap.String("status", status))
	cmdTag, err := querier.Exec(ctx, query, status, id)
	if err != nil {
		r.logger.Error("Failed to update adventure status in postgres", zap.Error(err), zap.Int64("id", id))
		return fmt.Errorf("failed to update adventure status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrAdventureNotFound
	}
	r.logger.Info("Adventure status updated", zap.Int64("adventureID", id), zap.String("status", status))
	return nil
}

// UpdateRules replaces the adventure's roll thresholds.
func (r *pgAdventureRepository) UpdateRules(ctx context.Context, querier interfaces.DBTX, id int64, rules models.RollRules) error {
	query := `UPDATE adventures SET rules = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("id", id))
	cmdTag, err := querier.Exec(ctx, query, rules, id)
	if err != nil {
		r.logger.Error("Failed to update adventure rules in postgres", zap.Error(err), zap.Int64("id", id))
		return fmt.Errorf("failed to update adventure rules: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrAdventureNotFound
	}
	return nil
}

// UpdateSummary replaces the adventure's running summary.
func (r *pgAdventureRepository) UpdateSummary(ctx context.Context, querier interfaces.DBTX, id int64, summary string) error {
	query := `UPDATE adventures SET summary = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("id", id))
	cmdTag, err := querier.Exec(ctx, query, summary, id)
	if err != nil {
		r.logger.Error("Failed to update adventure summary in postgres", zap.Error(err), zap.Int64("id", id))
		return fmt.Errorf("failed to update adventure summary: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrAdventureNotFound
	}
	return nil
}
