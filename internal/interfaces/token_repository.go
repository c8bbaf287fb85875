package interfaces

import (
	"context"

	"adventure-server/internal/models"
)

// TokenRepository stores issued JWT identifiers so that logout can
// revoke them before expiry.
type TokenRepository interface {
	// SaveTokens records the access and refresh token identifiers with
	// TTLs matching their expiry.
	SaveTokens(ctx context.Context, userID int64, details *models.TokenDetails) error

	// FetchAuth returns the user id bound to a token identifier, or
	// models.ErrTokenNotFound when revoked or expired.
	FetchAuth(ctx context.Context, tokenUUID string) (int64, error)

	// DeleteAuth revokes a single token identifier.
	DeleteAuth(ctx context.Context, tokenUUID string) error
}
