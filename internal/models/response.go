package models

// ErrorResponse is the standard JSON error payload.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Machine-readable error codes used in ErrorResponse.Code.
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeWrongCredentials = "WRONG_CREDENTIALS"
	ErrCodeWeakPassword     = "WEAK_PASSWORD"
	ErrCodeDuplicateUser    = "DUPLICATE_USER"
	ErrCodeDuplicateEmail   = "DUPLICATE_EMAIL"
	ErrCodeUserNotFound     = "USER_NOT_FOUND"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeTokenInvalid     = "TOKEN_INVALID"
	ErrCodeTokenExpired     = "TOKEN_EXPIRED"
	ErrCodeCSRFInvalid      = "CSRF_INVALID"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeStateConflict    = "STATE_CONFLICT"
	ErrCodeNarrationFailed  = "NARRATION_FAILED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)
