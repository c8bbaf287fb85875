package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"adventure-server/internal/config"
	"adventure-server/internal/interfaces"
	"adventure-server/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService handles registration, login, token lifecycle and the
// password reset flow.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.TokenDetails, error)
	Logout(ctx context.Context, accessUUID, refreshUUID string) error
	Refresh(ctx context.Context, refreshToken string) (*models.TokenDetails, error)
	// VerifyToken accepts either half of the pair; both jtis live in the
	// same token store.
	VerifyToken(ctx context.Context, tokenString string) (*models.Claims, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
	IssueCSRFToken(ctx context.Context, userID int64) (string, error)
	ValidateCSRFToken(ctx context.Context, userID int64, token string) error
}

type authServiceImpl struct {
	userRepo  interfaces.UserRepository
	tokenRepo interfaces.TokenRepository
	resetRepo interfaces.ResetTokenRepository
	csrfRepo  interfaces.CSRFTokenRepository
	mailer    interfaces.Mailer
	cfg       *config.Config
	logger    *zap.Logger
}

// NewAuthService creates the auth service.
func NewAuthService(
	userRepo interfaces.UserRepository,
	tokenRepo interfaces.TokenRepository,
	resetRepo interfaces.ResetTokenRepository,
	csrfRepo interfaces.CSRFTokenRepository,
	mailer interfaces.Mailer,
	cfg *config.Config,
	logger *zap.Logger,
) AuthService {
	return &authServiceImpl{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		resetRepo: resetRepo,
		csrfRepo:  csrfRepo,
		mailer:    mailer,
		cfg:       cfg,
		logger:    logger.Named("AuthService"),
	}
}

// Register creates a new user.
func (s *authServiceImpl) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" || len(username) > maxUsernameLength {
		return nil, models.ErrInvalidInput
	}
	if email == "" || len(email) > maxEmailLength || !strings.Contains(email, "@") {
		return nil, models.ErrInvalidInput
	}
	if err := validatePassword(password); err != nil {
		s.logger.Warn("Registration rejected: weak password", zap.String("username", username))
		return nil, err
	}

	passwordHash, err := hashPassword(password, s.cfg.PasswordPepper)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		// Duplicate errors pass through as sentinels.
		return nil, err
	}

	s.logger.Info("User registered", zap.Int64("userID", user.ID), zap.String("username", username))
	return user, nil
}

// Login authenticates a user and returns token details.
func (s *authServiceImpl) Login(ctx context.Context, username, password string) (*models.TokenDetails, error) {
	s.logger.Info("Login attempt", zap.String("username", username))
	user, err := s.userRepo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			s.logger.Warn("Login failed: user not found", zap.String("username", username))
			return nil, models.ErrInvalidCredentials
		}
		s.logger.Error("Login failed: error getting user from repository", zap.Error(err), zap.String("username", username))
		return nil, err
	}

	if !user.IsActive {
		s.logger.Warn("Login failed: user inactive", zap.Int64("userID", user.ID))
		return nil, models.ErrInvalidCredentials
	}
	if !checkPasswordHash(password, user.PasswordHash, s.cfg.PasswordPepper) {
		s.logger.Warn("Login failed: wrong password", zap.Int64("userID", user.ID))
		return nil, models.ErrInvalidCredentials
	}

	td, err := s.createTokens(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.tokenRepo.SaveTokens(ctx, user.ID, td); err != nil {
		s.logger.Error("Failed to save tokens", zap.Error(err), zap.Int64("userID", user.ID))
		return nil, fmt.Errorf("failed to save tokens: %w", err)
	}

	s.logger.Info("Login successful", zap.Int64("userID", user.ID))
	return td, nil
}

// Logout revokes the access and refresh token identifiers. Revoking a
// token that is already gone is not an error.
func (s *authServiceImpl) Logout(ctx context.Context, accessUUID, refreshUUID string) error {
	log := s.logger.With(zap.String("accessUUID", accessUUID), zap.String("refreshUUID", refreshUUID))
	log.Debug("Attempting to logout user by deleting tokens")

	if accessUUID != "" {
		if err := s.tokenRepo.DeleteAuth(ctx, accessUUID); err != nil {
			log.Error("Failed to delete access token during logout", zap.Error(err))
		}
	}
	if refreshUUID != "" {
		if err := s.tokenRepo.DeleteAuth(ctx, refreshUUID); err != nil {
			log.Error("Failed to delete refresh token during logout", zap.Error(err))
		}
	}
	log.Info("User logged out")
	return nil
}

// Refresh rotates the token pair given a valid, unrevoked refresh token.
func (s *authServiceImpl) Refresh(ctx context.Context, refreshToken string) (*models.TokenDetails, error) {
	s.logger.Info("Token refresh attempt")
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return nil, err
	}

	userID, err := s.tokenRepo.FetchAuth(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, models.ErrTokenNotFound) {
			s.logger.Warn("Refresh failed: token not found in store", zap.Int64("claimUserID", claims.UserID))
			return nil, models.ErrTokenInvalid
		}
		return nil, err
	}
	if userID != claims.UserID {
		s.logger.Warn("Refresh failed: token user mismatch", zap.Int64("claimUserID", claims.UserID), zap.Int64("storedUserID", userID))
		return nil, models.ErrTokenInvalid
	}

	// Rotation: the used refresh token is revoked before the new pair
	// is issued.
	if err := s.tokenRepo.DeleteAuth(ctx, claims.ID); err != nil {
		s.logger.Error("Failed to revoke used refresh token", zap.Error(err))
	}

	td, err := s.createTokens(userID)
	if err != nil {
		return nil, err
	}
	if err := s.tokenRepo.SaveTokens(ctx, userID, td); err != nil {
		return nil, fmt.Errorf("failed to save tokens: %w", err)
	}

	s.logger.Info("Tokens refreshed", zap.Int64("userID", userID))
	return td, nil
}

// VerifyToken validates the signature and confirms the token has not
// been revoked.
func (s *authServiceImpl) VerifyToken(ctx context.Context, tokenString string) (*models.Claims, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, err
	}

	userID, err := s.tokenRepo.FetchAuth(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, models.ErrTokenNotFound) {
			return nil, models.ErrTokenInvalid
		}
		return nil, err
	}
	if userID != claims.UserID {
		return nil, models.ErrTokenInvalid
	}
	return claims, nil
}

// RequestPasswordReset issues a single-use reset token and mails the
// reset link. An unknown email is reported as success to the caller so
// the endpoint does not leak which addresses exist.
func (s *authServiceImpl) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			s.logger.Info("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := randomToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	if err := s.resetRepo.SaveResetToken(ctx, token, user.ID, s.cfg.ResetTokenTTL); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.PublicBaseURL, token)
	body := fmt.Sprintf("A password reset was requested for your account.\n\nFollow this link to choose a new password:\n%s\n\nThe link expires in %s. If you did not request this, ignore this message.", link, s.cfg.ResetTokenTTL)
	if err := s.mailer.Send(user.Email, "Password reset", body); err != nil {
		s.logger.Error("Failed to send reset mail", zap.Error(err), zap.Int64("userID", user.ID))
		return fmt.Errorf("failed to send reset mail: %w", err)
	}

	s.logger.Info("Password reset mail sent", zap.Int64("userID", user.ID))
	return nil
}

// ConfirmPasswordReset consumes a reset token and sets the new password.
func (s *authServiceImpl) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	userID, err := s.resetRepo.ConsumeResetToken(ctx, token)
	if err != nil {
		return err
	}

	newHash, err := hashPassword(newPassword, s.cfg.PasswordPepper)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePasswordHash(ctx, userID, newHash); err != nil {
		return err
	}

	s.logger.Info("Password reset completed", zap.Int64("userID", userID))
	return nil
}

// IssueCSRFToken mints and stores a CSRF token for form submissions.
func (s *authServiceImpl) IssueCSRFToken(ctx context.Context, userID int64) (string, error) {
	token, err := randomToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate CSRF token: %w", err)
	}
	if err := s.csrfRepo.SaveCSRFToken(ctx, userID, token, s.cfg.CSRFTokenTTL); err != nil {
		return "", err
	}
	return token, nil
}

// ValidateCSRFToken checks a submitted form token.
func (s *authServiceImpl) ValidateCSRFToken(ctx context.Context, userID int64, token string) error {
	if token == "" {
		return models.ErrCSRFTokenInvalid
	}
	return s.csrfRepo.ValidateCSRFToken(ctx, userID, token)
}

// createTokens generates a new signed access/refresh pair.
func (s *authServiceImpl) createTokens(userID int64) (*models.TokenDetails, error) {
	s.logger.Debug("Creating new token pair", zap.Int64("userID", userID))
	now := time.Now()

	td := &models.TokenDetails{
		AccessUUID:  uuid.New().String(),
		RefreshUUID: uuid.New().String(),
		AtExpires:   now.Add(s.cfg.AccessTokenTTL).Unix(),
		RtExpires:   now.Add(s.cfg.RefreshTokenTTL).Unix(),
	}

	acClaims := &models.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        td.AccessUUID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(time.Unix(td.AtExpires, 0)),
		},
	}
	acToken := jwt.NewWithClaims(jwt.SigningMethodHS256, acClaims)
	var err error
	td.AccessToken, err = acToken.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		s.logger.Error("Failed to sign access token", zap.Error(err), zap.Int64("userID", userID))
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	rcClaims := &models.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        td.RefreshUUID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(time.Unix(td.RtExpires, 0)),
		},
	}
	rtToken := jwt.NewWithClaims(jwt.SigningMethodHS256, rcClaims)
	td.RefreshToken, err = rtToken.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		s.logger.Error("Failed to sign refresh token", zap.Error(err), zap.Int64("userID", userID))
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return td, nil
}

// parseToken validates a JWT's signature and expiry and returns the claims.
func (s *authServiceImpl) parseToken(tokenString string) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, models.ErrTokenExpired
		}
		s.logger.Warn("Token parse failed", zap.Error(err))
		return nil, models.ErrTokenMalformed
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, models.ErrTokenInvalid
	}
	return claims, nil
}

// randomToken returns a 256-bit hex token from crypto/rand.
func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
