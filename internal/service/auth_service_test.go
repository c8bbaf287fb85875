package service_test

import (
	"context"
	"testing"
	"time"

	"adventure-server/internal/config"
	"adventure-server/internal/interfaces/mocks"
	"adventure-server/internal/models"
	"adventure-server/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type authFixture struct {
	userRepo  *mocks.UserRepository
	tokenRepo *mocks.TokenRepository
	resetRepo *mocks.ResetTokenRepository
	csrfRepo  *mocks.CSRFTokenRepository
	mailer    *mocks.Mailer
	svc       service.AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		userRepo:  new(mocks.UserRepository),
		tokenRepo: new(mocks.TokenRepository),
		resetRepo: new(mocks.ResetTokenRepository),
		csrfRepo:  new(mocks.CSRFTokenRepository),
		mailer:    new(mocks.Mailer),
	}
	cfg := &config.Config{
		JWTSecret:       "test-secret",
		PasswordPepper:  "test-pepper",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		ResetTokenTTL:   time.Hour,
		CSRFTokenTTL:    12 * time.Hour,
		PublicBaseURL:   "http://localhost:8080",
	}
	f.svc = service.NewAuthService(f.userRepo, f.tokenRepo, f.resetRepo, f.csrfRepo, f.mailer, cfg, zap.NewNop())
	return f
}

func TestRegister_PasswordRules(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "too short", password: "ab1", wantErr: models.ErrWeakPassword},
		{name: "all digits", password: "83645102", wantErr: models.ErrWeakPassword},
		{name: "common password", password: "password1", wantErr: models.ErrWeakPassword},
		{name: "acceptable", password: "correct horse battery", wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			if tt.wantErr == nil {
				f.userRepo.On("CreateUser", ctx, mock.MatchedBy(func(u *models.User) bool {
					u.ID = 1
					// The stored hash never equals the plain password.
					return u.PasswordHash != tt.password && u.PasswordHash != ""
				})).Return(nil).Once()
			}

			_, err := f.svc.Register(ctx, "aria", "aria@example.com", tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				f.userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegister_NormalizesEmail(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	f.userRepo.On("CreateUser", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "aria@example.com"
	})).Return(nil).Once()

	_, err := f.svc.Register(ctx, "aria", "  ARIA@Example.COM ", "correct horse battery")
	require.NoError(t, err)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown user maps to invalid credentials", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("GetUserByUsername", ctx, "ghost").Return(nil, models.ErrUserNotFound).Once()

		_, err := f.svc.Login(ctx, "ghost", "whatever")
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		f := newAuthFixture()
		// Register through the service so the stored hash is real.
		var storedHash string
		f.userRepo.On("CreateUser", ctx, mock.MatchedBy(func(u *models.User) bool {
			u.ID = 1
			storedHash = u.PasswordHash
			return true
		})).Return(nil).Once()
		_, err := f.svc.Register(ctx, "aria", "aria@example.com", "correct horse battery")
		require.NoError(t, err)

		f.userRepo.On("GetUserByUsername", ctx, "aria").Return(&models.User{
			ID: 1, Username: "aria", PasswordHash: storedHash, IsActive: true,
		}, nil).Once()

		_, err = f.svc.Login(ctx, "aria", "wrong password")
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})

	t.Run("successful login issues stored token pair", func(t *testing.T) {
		f := newAuthFixture()
		var storedHash string
		f.userRepo.On("CreateUser", ctx, mock.MatchedBy(func(u *models.User) bool {
			u.ID = 1
			storedHash = u.PasswordHash
			return true
		})).Return(nil).Once()
		_, err := f.svc.Register(ctx, "aria", "aria@example.com", "correct horse battery")
		require.NoError(t, err)

		f.userRepo.On("GetUserByUsername", ctx, "aria").Return(&models.User{
			ID: 1, Username: "aria", PasswordHash: storedHash, IsActive: true,
		}, nil).Once()
		f.tokenRepo.On("SaveTokens", ctx, int64(1), mock.MatchedBy(func(td *models.TokenDetails) bool {
			return td.AccessToken != "" && td.RefreshToken != "" && td.AccessUUID != td.RefreshUUID
		})).Return(nil).Once()

		td, err := f.svc.Login(ctx, "aria", "correct horse battery")
		require.NoError(t, err)
		assert.NotEmpty(t, td.AccessToken)

		// The issued access token verifies while its jti is stored.
		f.tokenRepo.On("FetchAuth", ctx, td.AccessUUID).Return(int64(1), nil).Once()
		claims, err := f.svc.VerifyToken(ctx, td.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, int64(1), claims.UserID)

		// A revoked jti invalidates the same token.
		f.tokenRepo.On("FetchAuth", ctx, td.AccessUUID).Return(int64(0), models.ErrTokenNotFound).Once()
		_, err = f.svc.VerifyToken(ctx, td.AccessToken)
		assert.ErrorIs(t, err, models.ErrTokenInvalid)
	})
}

func TestRefresh_RotatesTokens(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	var storedHash string
	f.userRepo.On("CreateUser", ctx, mock.MatchedBy(func(u *models.User) bool {
		u.ID = 1
		storedHash = u.PasswordHash
		return true
	})).Return(nil).Once()
	_, err := f.svc.Register(ctx, "aria", "aria@example.com", "correct horse battery")
	require.NoError(t, err)

	f.userRepo.On("GetUserByUsername", ctx, "aria").Return(&models.User{
		ID: 1, Username: "aria", PasswordHash: storedHash, IsActive: true,
	}, nil).Once()
	f.tokenRepo.On("SaveTokens", ctx, int64(1), mock.Anything).Return(nil)

	td, err := f.svc.Login(ctx, "aria", "correct horse battery")
	require.NoError(t, err)

	f.tokenRepo.On("FetchAuth", ctx, td.RefreshUUID).Return(int64(1), nil).Once()
	f.tokenRepo.On("DeleteAuth", ctx, td.RefreshUUID).Return(nil).Once()

	rotated, err := f.svc.Refresh(ctx, td.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, td.RefreshUUID, rotated.RefreshUUID)
	f.tokenRepo.AssertCalled(t, "DeleteAuth", ctx, td.RefreshUUID)
}

func TestRefresh_GarbageTokenRejected(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	_, err := f.svc.Refresh(ctx, "not.a.jwt")
	assert.ErrorIs(t, err, models.ErrTokenMalformed)
}

func TestPasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email reports success without mail", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("GetUserByEmail", ctx, "ghost@example.com").Return(nil, models.ErrUserNotFound).Once()

		err := f.svc.RequestPasswordReset(ctx, "ghost@example.com")
		assert.NoError(t, err)
		f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("known email stores token and mails link", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("GetUserByEmail", ctx, "aria@example.com").
			Return(&models.User{ID: 1, Email: "aria@example.com"}, nil).Once()

		var issued string
		f.resetRepo.On("SaveResetToken", ctx, mock.MatchedBy(func(token string) bool {
			issued = token
			return len(token) == 64
		}), int64(1), time.Hour).Return(nil).Once()
		f.mailer.On("Send", "aria@example.com", "Password reset", mock.MatchedBy(func(body string) bool {
			return assert.Contains(t, body, issued)
		})).Return(nil).Once()

		err := f.svc.RequestPasswordReset(ctx, "aria@example.com")
		require.NoError(t, err)
	})

	t.Run("confirm consumes token and updates hash", func(t *testing.T) {
		f := newAuthFixture()
		f.resetRepo.On("ConsumeResetToken", ctx, "tok").Return(int64(1), nil).Once()
		f.userRepo.On("UpdatePasswordHash", ctx, int64(1), mock.MatchedBy(func(hash string) bool {
			return hash != "" && hash != "fresh new password"
		})).Return(nil).Once()

		err := f.svc.ConfirmPasswordReset(ctx, "tok", "fresh new password")
		require.NoError(t, err)
	})

	t.Run("confirm rejects weak replacement", func(t *testing.T) {
		f := newAuthFixture()
		err := f.svc.ConfirmPasswordReset(ctx, "tok", "123")
		assert.ErrorIs(t, err, models.ErrWeakPassword)
		f.resetRepo.AssertNotCalled(t, "ConsumeResetToken", mock.Anything, mock.Anything)
	})
}

func TestCSRFTokens(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	f.csrfRepo.On("SaveCSRFToken", ctx, int64(1), mock.Anything, 12*time.Hour).Return(nil).Once()
	token, err := f.svc.IssueCSRFToken(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, token, 64)

	assert.ErrorIs(t, f.svc.ValidateCSRFToken(ctx, 1, ""), models.ErrCSRFTokenInvalid)

	f.csrfRepo.On("ValidateCSRFToken", ctx, int64(1), token).Return(nil).Once()
	assert.NoError(t, f.svc.ValidateCSRFToken(ctx, 1, token))
}
