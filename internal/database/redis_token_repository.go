package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"adventure-server/internal/interfaces"
	"adventure-server/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Compile-time check to ensure redisTokenRepository implements TokenRepository
var _ interfaces.TokenRepository = (*redisTokenRepository)(nil)

type redisTokenRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisTokenRepository creates a new Redis-backed TokenRepository.
func NewRedisTokenRepository(client *redis.Client, logger *zap.Logger) interfaces.TokenRepository {
	return &redisTokenRepository{
		client: client,
		logger: logger.Named("RedisTokenRepo"),
	}
}

func tokenKey(tokenUUID string) string {
	return fmt.Sprintf("token_uuid:%s", tokenUUID)
}

// SaveTokens stores both token identifiers with TTLs matching their
// expiry, so a lookup miss means revoked or expired.
func (r *redisTokenRepository) SaveTokens(ctx context.Context, userID int64, td *models.TokenDetails) error {
	now := time.Now()
	accessTTL := time.Unix(td.AtExpires, 0).Sub(now)
	refreshTTL := time.Unix(td.RtExpires, 0).Sub(now)
	userIDStr := strconv.FormatInt(userID, 10)

	pipe := r.client.Pipeline()
	pipe.Set(ctx, tokenKey(td.AccessUUID), userIDStr, accessTTL)
	pipe.Set(ctx, tokenKey(td.RefreshUUID), userIDStr, refreshTTL)

	r.logger.Debug("Setting tokens in Redis",
		zap.Int64("userID", userID),
		zap.String("accessUUID", td.AccessUUID),
		zap.String("refreshUUID", td.RefreshUUID),
		zap.Duration("accessTTL", accessTTL),
		zap.Duration("refreshTTL", refreshTTL),
	)

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to set token details in redis", zap.Error(err), zap.Int64("userID", userID))
		return fmt.Errorf("failed to set token details in redis: %w", err)
	}
	return nil
}

// FetchAuth returns the user id bound to a token identifier.
func (r *redisTokenRepository) FetchAuth(ctx context.Context, tokenUUID string) (int64, error) {
	key := tokenKey(tokenUUID)
	r.logger.Debug("Getting token from Redis", zap.String("key", key))
	userIDStr, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			r.logger.Debug("Token not found in Redis", zap.String("tokenUUID", tokenUUID))
			return 0, models.ErrTokenNotFound
		}
		r.logger.Error("Failed to get token from redis", zap.Error(err), zap.String("key", key))
		return 0, fmt.Errorf("failed to get token from redis: %w", err)
	}

	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		r.logger.Error("Failed to parse userID from redis data",
			zap.Error(err), zap.String("tokenUUID", tokenUUID), zap.String("value", userIDStr))
		return 0, fmt.Errorf("corrupted userID data in redis for token %s: %w", tokenUUID, err)
	}
	return userID, nil
}

// DeleteAuth revokes a single token identifier. Deleting an already
// absent key is not an error.
func (r *redisTokenRepository) DeleteAuth(ctx context.Context, tokenUUID string) error {
	key := tokenKey(tokenUUID)
	deleted, err := r.client.Del(ctx, key).Result()
	if err != nil {
		r.logger.Error("Failed to delete token from redis", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("failed to delete token from redis: %w", err)
	}
	if deleted == 0 {
		r.logger.Warn("Attempted to delete non-existent token key", zap.String("key", key))
	}
	return nil
}
