package handler

import (
	"errors"
	"net/http"

	"adventure-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// serviceErrorResponse maps a service error to a status code and the
// standard error payload.
func serviceErrorResponse(err error) (int, models.ErrorResponse) {
	switch {
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized, models.ErrorResponse{Code: models.ErrCodeWrongCredentials, Message: "Invalid username or password"}
	case errors.Is(err, models.ErrWeakPassword):
		return http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeWeakPassword, Message: "Password does not meet the password rules"}
	case errors.Is(err, models.ErrUserAlreadyExists):
		return http.StatusConflict, models.ErrorResponse{Code: models.ErrCodeDuplicateUser, Message: "Username already exists"}
	case errors.Is(err, models.ErrEmailAlreadyExists):
		return http.StatusConflict, models.ErrorResponse{Code: models.ErrCodeDuplicateEmail, Message: "Email already exists"}
	case errors.Is(err, models.ErrUserNotFound):
		return http.StatusNotFound, models.ErrorResponse{Code: models.ErrCodeUserNotFound, Message: "User not found"}
	case errors.Is(err, models.ErrTokenInvalid), errors.Is(err, models.ErrTokenMalformed), errors.Is(err, models.ErrTokenNotFound):
		return http.StatusUnauthorized, models.ErrorResponse{Code: models.ErrCodeTokenInvalid, Message: "Token is invalid or malformed"}
	case errors.Is(err, models.ErrTokenExpired):
		return http.StatusUnauthorized, models.ErrorResponse{Code: models.ErrCodeTokenExpired, Message: "Token has expired"}
	case errors.Is(err, models.ErrResetTokenInvalid):
		return http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeTokenInvalid, Message: "Password reset token is invalid or expired"}
	case errors.Is(err, models.ErrCSRFTokenInvalid):
		return http.StatusForbidden, models.ErrorResponse{Code: models.ErrCodeCSRFInvalid, Message: "CSRF token is missing or invalid"}
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, models.ErrorResponse{Code: models.ErrCodeForbidden, Message: "You do not have access to this resource"}
	case errors.Is(err, models.ErrAdventureNotFound), errors.Is(err, models.ErrCharacterNotFound),
		errors.Is(err, models.ErrParticipationNotFound), errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, models.ErrorResponse{Code: models.ErrCodeNotFound, Message: "Resource not found"}
	case errors.Is(err, models.ErrNoActiveAdventure):
		return http.StatusConflict, models.ErrorResponse{Code: models.ErrCodeStateConflict, Message: "No active adventure selected"}
	case errors.Is(err, models.ErrNotParticipant):
		return http.StatusForbidden, models.ErrorResponse{Code: models.ErrCodeForbidden, Message: "You do not participate in this adventure"}
	case errors.Is(err, models.ErrNoCharacterSelected):
		return http.StatusConflict, models.ErrorResponse{Code: models.ErrCodeStateConflict, Message: "No character selected for this adventure"}
	case errors.Is(err, models.ErrAdventureConcluded):
		return http.StatusConflict, models.ErrorResponse{Code: models.ErrCodeStateConflict, Message: "Adventure is concluded"}
	case errors.Is(err, models.ErrAttributeBudget):
		return http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: "Attribute points exceed the allowed budget"}
	case errors.Is(err, models.ErrPromptTooLarge):
		return http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: "Turn content is too large"}
	case errors.Is(err, models.ErrNarrationFailed):
		return http.StatusBadGateway, models.ErrorResponse{Code: models.ErrCodeNarrationFailed, Message: "Could not process the turn, try again"}
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrBadRequest):
		return http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid input data"}
	default:
		zap.L().Error("Unhandled internal error in serviceErrorResponse", zap.Error(err))
		return http.StatusInternalServerError, models.ErrorResponse{Code: models.ErrCodeInternal, Message: "An unexpected internal error occurred"}
	}
}

func handleServiceError(c *gin.Context, err error) {
	statusCode, errResp := serviceErrorResponse(err)
	c.AbortWithStatusJSON(statusCode, errResp)
}
