package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// Mock ResetTokenRepository
type ResetTokenRepository struct {
	mock.Mock
}

func (m *ResetTokenRepository) SaveResetToken(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	args := m.Called(ctx, token, userID, ttl)
	return args.Error(0)
}
func (m *ResetTokenRepository) ConsumeResetToken(ctx context.Context, token string) (int64, error) {
	args := m.Called(ctx, token)
	id, _ := args.Get(0).(int64)
	return id, args.Error(1)
}

// Mock CSRFTokenRepository
type CSRFTokenRepository struct {
	mock.Mock
}

func (m *CSRFTokenRepository) SaveCSRFToken(ctx context.Context, userID int64, token string, ttl time.Duration) error {
	args := m.Called(ctx, userID, token, ttl)
	return args.Error(0)
}
func (m *CSRFTokenRepository) ValidateCSRFToken(ctx context.Context, userID int64, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

// Mock NarrationCache
type NarrationCache struct {
	mock.Mock
}

func (m *NarrationCache) SetLastNarration(ctx context.Context, adventureID int64, narration string) error {
	args := m.Called(ctx, adventureID, narration)
	return args.Error(0)
}
func (m *NarrationCache) GetLastNarration(ctx context.Context, adventureID int64) (string, error) {
	args := m.Called(ctx, adventureID)
	return args.String(0), args.Error(1)
}
func (m *NarrationCache) InvalidateLastNarration(ctx context.Context, adventureID int64) error {
	args := m.Called(ctx, adventureID)
	return args.Error(0)
}
