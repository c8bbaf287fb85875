package interfaces

import (
	"context"

	"adventure-server/internal/models"
)

// UserRepository defines user persistence.
type UserRepository interface {
	// CreateUser inserts a new user. Returns models.ErrUserAlreadyExists
	// or models.ErrEmailAlreadyExists on unique-constraint violations.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername returns models.ErrUserNotFound when absent.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByEmail returns models.ErrUserNotFound when absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns models.ErrUserNotFound when absent.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// UpdatePasswordHash replaces the user's credential hash.
	UpdatePasswordHash(ctx context.Context, userID int64, newHash string) error
}
