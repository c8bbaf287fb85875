package interfaces

import (
	"context"
	"time"
)

// ResetTokenRepository stores single-use password reset tokens.
type ResetTokenRepository interface {
	// SaveResetToken binds a reset token to a user id for the given TTL.
	SaveResetToken(ctx context.Context, token string, userID int64, ttl time.Duration) error

	// ConsumeResetToken returns the bound user id and deletes the token.
	// Returns models.ErrResetTokenInvalid when absent.
	ConsumeResetToken(ctx context.Context, token string) (int64, error)
}

// CSRFTokenRepository stores per-user CSRF tokens for form submissions.
type CSRFTokenRepository interface {
	SaveCSRFToken(ctx context.Context, userID int64, token string, ttl time.Duration) error

	// ValidateCSRFToken returns models.ErrCSRFTokenInvalid on mismatch
	// or absence.
	ValidateCSRFToken(ctx context.Context, userID int64, token string) error
}

// NarrationCache mirrors the latest narration per adventure. It is a
// best-effort projection; the turn log remains authoritative.
type NarrationCache interface {
	SetLastNarration(ctx context.Context, adventureID int64, narration string) error

	// GetLastNarration returns models.ErrNotFound on a cache miss.
	GetLastNarration(ctx context.Context, adventureID int64) (string, error)

	InvalidateLastNarration(ctx context.Context, adventureID int64) error
}
