package mocks

import (
	"context"

	"adventure-server/internal/interfaces"
	"adventure-server/internal/models"

	"github.com/stretchr/testify/mock"
)

// Mock TurnSessionRepository
type TurnSessionRepository struct {
	mock.Mock
}

func (m *TurnSessionRepository) Create(ctx context.Context, querier interfaces.DBTX, session *models.TurnSession) error {
	args := m.Called(ctx, querier, session)
	return args.Error(0)
}
func (m *TurnSessionRepository) LatestByAdventure(ctx context.Context, querier interfaces.DBTX, adventureID int64) (*models.TurnSession, error) {
	args := m.Called(ctx, querier, adventureID)
	s, _ := args.Get(0).(*models.TurnSession)
	return s, args.Error(1)
}
func (m *TurnSessionRepository) ListByAdventure(ctx context.Context, querier interfaces.DBTX, adventureID int64) ([]*models.TurnSession, error) {
	args := m.Called(ctx, querier, adventureID)
	ss, _ := args.Get(0).([]*models.TurnSession)
	return ss, args.Error(1)
}
