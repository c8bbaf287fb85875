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

// Compile-time check to ensure pgParticipationRepository implements ParticipationRepository
var _ interfaces.ParticipationRepository = (*pgParticipationRepository)(nil)

type pgParticipationRepository struct {
	logger *zap.Logger
}

// NewPgParticipationRepository creates a new PostgreSQL-backed ParticipationRepository.
func NewPgParticipationRepository(logger *zap.Logger) interfaces.ParticipationRepository {
	return &pgParticipationRepository{
		logger: logger.Named("PgParticipationRepo"),
	}
}

// Join inserts a participation row. The UNIQUE(user_id, adventure_id)
// constraint plus ON CONFLICT DO NOTHING makes a repeat join a no-op
// that keeps the existing character selection intact.
func (r *pgParticipationRepository) Join(ctx context.Context, querier interfaces.DBTX, participation *models.Participation) (bool, error) {
	query := `INSERT INTO participations (user_id, adventure_id, character_id, role)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (user_id, adventure_id) DO NOTHING
	          RETURNING id`
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("userID", participation.UserID), zap.Int64("adventureID", participation.AdventureID))
	err := querier.QueryRow(ctx, query,
		participation.UserID, participation.AdventureID, participation.CharacterID, participation.Role,
	).Scan(&participation.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Conflict path: the user already participates.
			existing, getErr := r.Get(ctx, querier, participation.UserID, participation.AdventureID)
			if getErr != nil {
				return false, getErr
			}
			*participation = *existing
			return false, nil
		}
		r.logger.Error("Failed to join adventure in postgres", zap.Error(err), zap.Int64("userID", participation.UserID), zap.Int64("adventureID", participation.AdventureID))
		return false, fmt.Errorf("failed to join adventure: %w", err)
	}
	r.logger.Info("User joined adventure", zap.Int64("userID", participation.UserID), zap.Int64("adventureID", participation.AdventureID))
	return true, nil
}

// Get retrieves the participation row for a (user, adventure) pair.
func (r *pgParticipationRepository) Get(ctx context.Context, querier interfaces.DBTX, userID, adventureID int64) (*models.Participation, error) {
	query := `SELECT id, user_id, adventure_id, character_id, role
	          FROM participations WHERE user_id = $1 AND adventure_id = $2`
	participation := &models.Participation{}
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("userID", userID), zap.Int64("adventureID", adventureID))
	err := querier.QueryRow(ctx, query, userID, adventureID).Scan(
		&participation.ID, &participation.UserID, &participation.AdventureID,
		&participation.CharacterID, &participation.Role,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrParticipationNotFound
		}
		r.logger.Error("Failed to get participation from postgres", zap.Error(err), zap.Int64("userID", userID), zap.Int64("adventureID", adventureID))
		return nil, fmt.Errorf("failed to get participation: %w", err)
	}
	return participation, nil
}

// ListByAdventure retrieves all participants of an adventure.
func (r *pgParticipationRepository) ListByAdventure(ctx context.Context, querier interfaces.DBTX, adventureID int64) ([]*models.Participation, error) {
	query := `SELECT id, user_id, adventure_id, character_id, role
	          FROM participations WHERE adventure_id = $1 ORDER BY id ASC`
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("adventureID", adventureID))
	var participations []*models.Participation
	if err := pgxscan.Select(ctx, querier, &participations, query, adventureID); err != nil {
		r.logger.Error("Failed to list participations from postgres", zap.Error(err), zap.Int64("adventureID", adventureID))
		return nil, fmt.Errorf("failed to list participations: %w", err)
	}
	return participations, nil
}

// SetCharacter binds the user's chosen character for the adventure.
func (r *pgParticipationRepository) SetCharacter(ctx context.Context, querier interfaces.DBTX, userID, adventureID int64, characterID *int64) error {
	query := `UPDATE participations SET character_id = $1 WHERE user_id = $2 AND adventure_id = $3`
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("userID", userID), zap.Int64("adventureID", adventureID))
	cmdTag, err := querier.Exec(ctx, query, characterID, userID, adventureID)
	if err != nil {
		r.logger.Error("Failed to set participation character in postgres", zap.Error(err), zap.Int64("userID", userID), zap.Int64("adventureID", adventureID))
		return fmt.Errorf("failed to set participation character: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrParticipationNotFound
	}
	return nil
}
