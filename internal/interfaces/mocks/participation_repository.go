package mocks

import (
	"context"

	"adventure-server/internal/interfaces"
	"adventure-server/internal/models"

	"github.com/stretchr/testify/mock"
)

// Mock ParticipationRepository
type ParticipationRepository struct {
	mock.Mock
}

func (m *ParticipationRepository) Join(ctx context.Context, querier interfaces.DBTX, participation *models.Participation) (bool, error) {
	args := m.Called(ctx, querier, participation)
	return args.Bool(0), args.Error(1)
}
func (m *ParticipationRepository) Get(ctx context.Context, querier interfaces.DBTX, userID, adventureID int64) (*models.Participation, error) {
	args := m.Called(ctx, querier, userID, adventureID)
	p, _ := args.Get(0).(*models.Participation)
	return p, args.Error(1)
}
func (m *ParticipationRepository) ListByAdventure(ctx context.Context, querier interfaces.DBTX, adventureID int64) ([]*models.Participation, error) {
	args := m.Called(ctx, querier, adventureID)
	ps, _ := args.Get(0).([]*models.Participation)
	return ps, args.Error(1)
}
func (m *ParticipationRepository) SetCharacter(ctx context.Context, querier interfaces.DBTX, userID, adventureID int64, characterID *int64) error {
	args := m.Called(ctx, querier, userID, adventureID, characterID)
	return args.Error(0)
}
