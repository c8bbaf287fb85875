package database

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strconv"
	"time"

	"adventure-server/internal/interfaces"
	"adventure-server/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Compile-time checks
var (
	_ interfaces.ResetTokenRepository = (*redisStateRepository)(nil)
	_ interfaces.CSRFTokenRepository  = (*redisStateRepository)(nil)
	_ interfaces.NarrationCache       = (*redisStateRepository)(nil)
)

// redisStateRepository backs the short-lived server state: password
// reset tokens, CSRF tokens and the last-narration projection.
type redisStateRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisStateRepository creates a Redis-backed state repository.
func NewRedisStateRepository(client *redis.Client, logger *zap.Logger) *redisStateRepository {
	return &redisStateRepository{
		client: client,
		logger: logger.Named("RedisStateRepo"),
	}
}

func resetKey(token string) string          { return fmt.Sprintf("reset_token:%s", token) }
func csrfKey(userID int64) string           { return fmt.Sprintf("csrf_token:%d", userID) }
func narrationKey(adventureID int64) string { return fmt.Sprintf("last_narration:%d", adventureID) }

// SaveResetToken binds a reset token to a user id for the given TTL.
func (r *redisStateRepository) SaveResetToken(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	key := resetKey(token)
	r.logger.Debug("Setting reset token in Redis", zap.Int64("userID", userID), zap.Duration("ttl", ttl))
	if err := r.client.Set(ctx, key, strconv.FormatInt(userID, 10), ttl).Err(); err != nil {
		r.logger.Error("Failed to set reset token in redis", zap.Error(err), zap.Int64("userID", userID))
		return fmt.Errorf("failed to set reset token in redis: %w", err)
	}
	return nil
}

// ConsumeResetToken returns the bound user id and deletes the token.
// GETDEL keeps lookup and invalidation atomic, so a token verifies at
// most once.
func (r *redisStateRepository) ConsumeResetToken(ctx context.Context, token string) (int64, error) {
	key := resetKey(token)
	userIDStr, err := r.client.GetDel(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			r.logger.Debug("Reset token not found in Redis")
			return 0, models.ErrResetTokenInvalid
		}
		r.logger.Error("Failed to consume reset token from redis", zap.Error(err))
		return 0, fmt.Errorf("failed to consume reset token from redis: %w", err)
	}
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		r.logger.Error("Failed to parse userID from reset token data", zap.Error(err), zap.String("value", userIDStr))
		return 0, fmt.Errorf("corrupted userID data in redis for reset token: %w", err)
	}
	return userID, nil
}

// SaveCSRFToken stores the user's current CSRF token.
func (r *redisStateRepository) SaveCSRFToken(ctx context.Context, userID int64, token string, ttl time.Duration) error {
	key := csrfKey(userID)
	if err := r.client.Set(ctx, key, token, ttl).Err(); err != nil {
		r.logger.Error("Failed to set CSRF token in redis", zap.Error(err), zap.Int64("userID", userID))
		return fmt.Errorf("failed to set CSRF token in redis: %w", err)
	}
	return nil
}

// ValidateCSRFToken compares the submitted token against the stored one
// in constant time.
func (r *redisStateRepository) ValidateCSRFToken(ctx context.Context, userID int64, token string) error {
	key := csrfKey(userID)
	stored, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return models.ErrCSRFTokenInvalid
		}
		r.logger.Error("Failed to get CSRF token from redis", zap.Error(err), zap.Int64("userID", userID))
		return fmt.Errorf("failed to get CSRF token from redis: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(token)) != 1 {
		r.logger.Warn("CSRF token mismatch", zap.Int64("userID", userID))
		return models.ErrCSRFTokenInvalid
	}
	return nil
}

// SetLastNarration mirrors the newest narration for an adventure. The
// cache carries no TTL guarantees for readers; turn_sessions remains
// the source of truth.
func (r *redisStateRepository) SetLastNarration(ctx context.Context, adventureID int64, narration string) error {
	key := narrationKey(adventureID)
	if err := r.client.Set(ctx, key, narration, 24*time.Hour).Err(); err != nil {
		r.logger.Error("Failed to set last narration in redis", zap.Error(err), zap.Int64("adventureID", adventureID))
		return fmt.Errorf("failed to set last narration in redis: %w", err)
	}
	return nil
}

// GetLastNarration returns the mirrored narration, or models.ErrNotFound
// on a cache miss.
func (r *redisStateRepository) GetLastNarration(ctx context.Context, adventureID int64) (string, error) {
	key := narrationKey(adventureID)
	narration, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", models.ErrNotFound
		}
		r.logger.Error("Failed to get last narration from redis", zap.Error(err), zap.Int64("adventureID", adventureID))
		return "", fmt.Errorf("failed to get last narration from redis: %w", err)
	}
	return narration, nil
}

// InvalidateLastNarration drops the mirrored narration.
func (r *redisStateRepository) InvalidateLastNarration(ctx context.Context, adventureID int64) error {
	key := narrationKey(adventureID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete last narration from redis", zap.Error(err), zap.Int64("adventureID", adventureID))
		return fmt.Errorf("failed to delete last narration from redis: %w", err)
	}
	return nil
}
