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

// Compile-time check to ensure pgTurnSessionRepository implements TurnSessionRepository
var _ interfaces.TurnSessionRepository = (*pgTurnSessionRepository)(nil)

type pgTurnSessionRepository struct {
	logger *zap.Logger
}

// NewPgTurnSessionRepository creates a new PostgreSQL-backed TurnSessionRepository.
func NewPgTurnSessionRepository(logger *zap.Logger) interfaces.TurnSessionRepository {
	return &pgTurnSessionRepository{
		logger: logger.Named("PgTurnSessionRepo"),
	}
}

// Create appends a turn session to the log.
func (r *pgTurnSessionRepository) Create(ctx context.Context, querier interfaces.DBTX, session *models.TurnSession) error {
	query := `INSERT INTO turn_sessions (adventure_id, narration, player_actions, prompt, raw_response)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("adventureID", session.AdventureID))
	err := querier.QueryRow(ctx, query,
		session.AdventureID, session.Narration, session.PlayerActions, session.Prompt, session.RawResponse,
	).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create turn session in postgres", zap.Error(err), zap.Int64("adventureID", session.AdventureID))
		return fmt.Errorf("failed to create turn session: %w", err)
	}
	r.logger.Info("Turn session recorded", zap.Int64("sessionID", session.ID), zap.Int64("adventureID", session.AdventureID))
	return nil
}

// LatestByAdventure retrieves the newest turn session of an adventure.
func (r *pgTurnSessionRepository) LatestByAdventure(ctx context.Context, querier interfaces.DBTX, adventureID int64) (*models.TurnSession, error) {
	query := `SELECT id, adventure_id, narration, player_actions, prompt, raw_response, created_at
	          FROM turn_sessions WHERE adventure_id = $1 ORDER BY id DESC LIMIT 1`
	session := &models.TurnSession{}
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("adventureID", adventureID))
	err := querier.QueryRow(ctx, query, adventureID).Scan(
		&session.ID, &session.AdventureID, &session.Narration, &session.PlayerActions,
		&session.Prompt, &session.RawResponse, &session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get latest turn session from postgres", zap.Error(err), zap.Int64("adventureID", adventureID))
		return nil, fmt.Errorf("failed to get latest turn session: %w", err)
	}
	return session, nil
}

// ListByAdventure retrieves all turn sessions of an adventure, oldest first.
func (r *pgTurnSessionRepository) ListByAdventure(ctx context.Context, querier interfaces.DBTX, adventureID int64) ([]*models.TurnSession, error) {
	query := `SELECT id, adventure_id, narration, player_actions, prompt, raw_response, created_at
	          FROM turn_sessions WHERE adventure_id = $1 ORDER BY id ASC`
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("adventureID", adventureID))
	var sessions []*models.TurnSession
	if err := pgxscan.Select(ctx, querier, &sessions, query, adventureID); err != nil {
		r.logger.Error("Failed to list turn sessions from postgres", zap.Error(err), zap.Int64("adventureID", adventureID))
		return nil, fmt.Errorf("failed to list turn sessions: %w", err)
	}
	return sessions, nil
}
