package mocks

import (
	"context"

	"adventure-server/internal/interfaces"
	"adventure-server/internal/models"

	"github.com/stretchr/testify/mock"
)

// Mock AdventureRepository
type AdventureRepository struct {
	mock.Mock
}

func (m *AdventureRepository) Create(ctx context.Context, querier interfaces.DBTX, adventure *models.Adventure) error {
	args := m.Called(ctx, querier, adventure)
	return args.Error(0)
}
func (m *AdventureRepository) GetByID(ctx context.Context, querier interfaces.DBTX, id int64) (*models.Adventure, error) {
	args := m.Called(ctx, querier, id)
	a, _ := args.Get(0).(*models.Adventure)
	return a, args.Error(1)
}
func (m *AdventureRepository) GetByIDForUpdate(ctx context.Context, querier interfaces.DBTX, id int64) (*models.Adventure, error) {
	args := m.Called(ctx, querier, id)
	a, _ := args.Get(0).(*models.Adventure)
	return a, args.Error(1)
}
func (m *AdventureRepository) ListByParticipant(ctx context.Context, querier interfaces.DBTX, userID int64) ([]*models.Adventure, error) {
	args := m.Called(ctx, querier, userID)
	as, _ := args.Get(0).([]*models.Adventure)
	return as, args.Error(1)
}
func (m *AdventureRepository) Update(ctx context.Context, querier interfaces.DBTX, adventure *models.Adventure) error {
	args := m.Called(ctx, querier, adventure)
	return args.Error(0)
}
func (m *AdventureRepository) Delete(ctx context.Context, querier interfaces.DBTX, id int64) error {
	args := m.Called(ctx, querier, id)
	return args.Error(0)
}
func (m *AdventureRepository) UpdateStatus(ctx context.Context, querier interfaces.DBTX, id int64, status string) error {
	args := m.Called(ctx, querier, id, status)
	return args.Error(0)
}
func (m *AdventureRepository) UpdateRules(ctx context.Context, querier interfaces.DBTX, id int64, rules models.RollRules) error {
	args := m.Called(ctx, querier, id, rules)
	return args.Error(0)
}
func (m *AdventureRepository) UpdateSummary(ctx context.Context, querier interfaces.DBTX, id int64, summary string) error {
	args := m.Called(ctx, querier, id, summary)
	return args.Error(0)
}
