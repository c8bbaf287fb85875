package mocks

import (
	"context"

	"adventure-server/internal/interfaces"
	"adventure-server/internal/models"

	"github.com/stretchr/testify/mock"
)

// Mock CharacterRepository
type CharacterRepository struct {
	mock.Mock
}

func (m *CharacterRepository) Create(ctx context.Context, querier interfaces.DBTX, character *models.Character) error {
	args := m.Called(ctx, querier, character)
	return args.Error(0)
}
func (m *CharacterRepository) GetByID(ctx context.Context, querier interfaces.DBTX, id int64) (*models.Character, error) {
	args := m.Called(ctx, querier, id)
	c, _ := args.Get(0).(*models.Character)
	return c, args.Error(1)
}
func (m *CharacterRepository) ListByUser(ctx context.Context, querier interfaces.DBTX, userID int64) ([]*models.Character, error) {
	args := m.Called(ctx, querier, userID)
	cs, _ := args.Get(0).([]*models.Character)
	return cs, args.Error(1)
}
func (m *CharacterRepository) ListByIDs(ctx context.Context, querier interfaces.DBTX, ids []int64) ([]*models.Character, error) {
	args := m.Called(ctx, querier, ids)
	cs, _ := args.Get(0).([]*models.Character)
	return cs, args.Error(1)
}
func (m *CharacterRepository) Update(ctx context.Context, querier interfaces.DBTX, character *models.Character) error {
	args := m.Called(ctx, querier, character)
	return args.Error(0)
}
func (m *CharacterRepository) Delete(ctx context.Context, querier interfaces.DBTX, id int64) error {
	args := m.Called(ctx, querier, id)
	return args.Error(0)
}
