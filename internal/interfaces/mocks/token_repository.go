package mocks

import (
	"context"

	"adventure-server/internal/models"

	"github.com/stretchr/testify/mock"
)

// Mock TokenRepository
type TokenRepository struct {
	mock.Mock
}

func (m *TokenRepository) SaveTokens(ctx context.Context, userID int64, details *models.TokenDetails) error {
	args := m.Called(ctx, userID, details)
	return args.Error(0)
}
func (m *TokenRepository) FetchAuth(ctx context.Context, tokenUUID string) (int64, error) {
	args := m.Called(ctx, tokenUUID)
	id, _ := args.Get(0).(int64)
	return id, args.Error(1)
}
func (m *TokenRepository) DeleteAuth(ctx context.Context, tokenUUID string) error {
	args := m.Called(ctx, tokenUUID)
	return args.Error(0)
}
