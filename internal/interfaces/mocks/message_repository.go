package mocks

import (
	"context"

	"adventure-server/internal/interfaces"
	"adventure-server/internal/models"

	"github.com/stretchr/testify/mock"
)

// Mock MessageRepository
type MessageRepository struct {
	mock.Mock
}

func (m *MessageRepository) Create(ctx context.Context, querier interfaces.DBTX, message *models.Message) error {
	args := m.Called(ctx, querier, message)
	return args.Error(0)
}
func (m *MessageRepository) ListByAdventure(ctx context.Context, querier interfaces.DBTX, adventureID int64) ([]*models.Message, error) {
	args := m.Called(ctx, querier, adventureID)
	ms, _ := args.Get(0).([]*models.Message)
	return ms, args.Error(1)
}
