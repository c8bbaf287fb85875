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

// Compile-time check to ensure pgCharacterRepository implements CharacterRepository
var _ interfaces.CharacterRepository = (*pgCharacterRepository)(nil)

type pgCharacterRepository struct {
	logger *zap.Logger
}

// NewPgCharacterRepository creates a new PostgreSQL-backed CharacterRepository.
func NewPgCharacterRepository(logger *zap.Logger) interfaces.CharacterRepository {
	return &pgCharacterRepository{
		logger: logger.Named("PgCharacterRepo"),
	}
}

// Create inserts a new character sheet.
func (r *pgCharacterRepository) Create(ctx context.Context, querier interfaces.DBTX, character *models.Character) error {
	query := `INSERT INTO characters (user_id, name, class, race, attributes, xp, level, description, active_in_scene)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, created_at`
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("userID", character.UserID), zap.String("name", character.Name))
	err := querier.QueryRow(ctx, query,
		character.UserID, character.Name, character.Class, character.Race,
		character.Attributes, character.XP, character.Level, character.Description, character.ActiveInScene,
	).Scan(&character.ID, &character.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create character in postgres", zap.Error(err), zap.Int64("userID", character.UserID))
		return fmt.Errorf("failed to create character in postgres: %w", err)
	}
	r.logger.Info("Character created successfully", zap.Int64("characterID", character.ID), zap.Int64("userID", character.UserID))
	return nil
}

// GetByID retrieves a character by its ID.
func (r *pgCharacterRepository) GetByID(ctx context.Context, querier interfaces.DBTX, id int64) (*models.Character, error) {
	query := `SELECT id, user_id, name, class, race, attributes, xp, level, description, active_in_scene, created_at
	          FROM characters WHERE id = $1`
	character := &models.Character{}
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("id", id))
	err := querier.QueryRow(ctx, query, id).Scan(
		&character.ID, &character.UserID, &character.Name, &character.Class, &character.Race,
		&character.Attributes, &character.XP, &character.Level, &character.Description,
		&character.ActiveInScene, &character.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrCharacterNotFound
		}
		r.logger.Error("Failed to get character from postgres", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get character from postgres: %w", err)
	}
	return character, nil
}

// ListByUser retrieves the user's characters ordered by creation time.
func (r *pgCharacterRepository) ListByUser(ctx context.Context, querier interfaces.DBTX, userID int64) ([]*models.Character, error) {
	query := `SELECT id, user_id, name, class, race, attributes, xp, level, description, active_in_scene, created_at
	          FROM characters WHERE user_id = $1 ORDER BY created_at ASC, id ASC`
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("userID", userID))
	var characters []*models.Character
	if err := pgxscan.Select(ctx, querier, &characters, query, userID); err != nil {
		r.logger.Error("Failed to list characters from postgres", zap.Error(err), zap.Int64("userID", userID))
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	return characters, nil
}

// ListByIDs retrieves characters by id. Unknown ids are skipped.
func (r *pgCharacterRepository) ListByIDs(ctx context.Context, querier interfaces.DBTX, ids []int64) ([]*models.Character, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT id, user_id, name, class, race, attributes, xp, level, description, active_in_scene, created_at
	          FROM characters WHERE id = ANY($1) ORDER BY id ASC`
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int("count", len(ids)))
	var characters []*models.Character
	if err := pgxscan.Select(ctx, querier, &characters, query, ids); err != nil {
		r.logger.Error("Failed to list characters by ids from postgres", zap.Error(err))
		return nil, fmt.Errorf("failed to list characters by ids: %w", err)
	}
	return characters, nil
}

// Update rewrites the mutable fields of a character sheet.
func (r *pgCharacterRepository) Update(ctx context.Context, querier interfaces.DBTX, character *models.Character) error {
	query := `UPDATE characters
	          SET name = $1, class = $2, race = $3, attributes = $4, xp = $5, level = $6,
	              description = $7, active_in_scene = $8, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $9`
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("id", character.ID))
	cmdTag, err := querier.Exec(ctx, query,
		character.Name, character.Class, character.Race, character.Attributes,
		character.XP, character.Level, character.Description, character.ActiveInScene, character.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update character in postgres", zap.Error(err), zap.Int64("id", character.ID))
		return fmt.Errorf("failed to update character: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrCharacterNotFound
	}
	return nil
}

// Delete removes a character sheet.
func (r *pgCharacterRepository) Delete(ctx context.Context, querier interfaces.DBTX, id int64) error {
	query := `DELETE FROM characters WHERE id = $1`
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("id", id))
	cmdTag, err := querier.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete character from postgres", zap.Error(err), zap.Int64("id", id))
		return fmt.Errorf("failed to delete character: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrCharacterNotFound
	}
	r.logger.Info("Character deleted", zap.Int64("characterID", id))
	return nil
}
