package handler

import (
	"net/http"

	"adventure-server/internal/models"
	"adventure-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler exposes registration, login and the token/password
// lifecycle endpoints.
type AuthHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger.Named("AuthHandler"),
	}
}

// RegisterRoutes attaches the auth endpoints to the router group.
func (h *AuthHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/register", h.Register)
	public.POST("/login", h.Login)
	public.POST("/refresh", h.Refresh)
	public.POST("/forgot-password", h.ForgotPassword)
	public.POST("/reset-password", h.ResetPassword)

	protected.POST("/logout", h.Logout)
	protected.GET("/csrf", h.CSRFToken)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		handleServiceError(c, models.ErrInvalidInput)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	registrationsTotal.Inc()
	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		handleServiceError(c, models.ErrInvalidInput)
		return
	}

	td, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{AccessToken: td.AccessToken, RefreshToken: td.RefreshToken})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req logoutRequest
	_ = c.ShouldBindJSON(&req) // the refresh token is optional

	accessUUID := c.GetString(ctxAccessUUID)
	refreshUUID := ""
	if req.RefreshToken != "" {
		// Resolve the refresh jti so both halves of the pair revoke.
		if claims, err := h.authService.VerifyToken(c.Request.Context(), req.RefreshToken); err == nil {
			refreshUUID = claims.ID
		}
	}

	if err := h.authService.Logout(c.Request.Context(), accessUUID, refreshUUID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleServiceError(c, models.ErrInvalidInput)
		return
	}

	td, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{AccessToken: td.AccessToken, RefreshToken: td.RefreshToken})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		handleServiceError(c, models.ErrInvalidInput)
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		handleServiceError(c, err)
		return
	}
	// Always the same answer, whether or not the email exists.
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		handleServiceError(c, models.ErrInvalidInput)
		return
	}

	if err := h.authService.ConfirmPasswordReset(c.Request.Context(), req.Token, req.Password); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CSRFToken mints the token form clients must echo on state-changing
// submissions.
func (h *AuthHandler) CSRFToken(c *gin.Context) {
	token, err := h.authService.IssueCSRFToken(c.Request.Context(), currentUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"csrf_token": token})
}
