package handler

import (
	"strings"

	"adventure-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by the auth middleware.
const (
	ctxUserID     = "user_id"
	ctxAccessUUID = "access_uuid"
)

// AuthMiddleware verifies the Bearer token signature and its presence
// in the revocation store, then exposes the caller identity on the
// context.
func (h *AuthHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			zap.L().Warn("Authorization header missing")
			tokenVerificationsTotal.WithLabelValues("failure").Inc()
			handleServiceError(c, models.ErrTokenInvalid)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			zap.L().Warn("Invalid Authorization header format")
			tokenVerificationsTotal.WithLabelValues("failure").Inc()
			handleServiceError(c, models.ErrTokenInvalid)
			return
		}

		claims, err := h.authService.VerifyToken(c.Request.Context(), parts[1])
		if err != nil {
			zap.L().Warn("Access token verification failed", zap.Error(err))
			tokenVerificationsTotal.WithLabelValues("failure").Inc()
			handleServiceError(c, err)
			return
		}

		tokenVerificationsTotal.WithLabelValues("success").Inc()
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxAccessUUID, claims.ID)
		c.Next()
	}
}

// currentUserID reads the authenticated user id set by AuthMiddleware.
func currentUserID(c *gin.Context) int64 {
	id, _ := c.Get(ctxUserID)
	userID, _ := id.(int64)
	return userID
}
