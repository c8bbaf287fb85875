package models

import "errors"

// Application-wide standard errors. Services return these (possibly
// wrapped); the HTTP boundary maps them to status codes.
var (
	ErrNotFound = errors.New("resource not found")

	// User & authentication
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user with this username already exists")
	ErrEmailAlreadyExists = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWeakPassword       = errors.New("password does not meet the password rules")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")

	// Tokens
	ErrTokenInvalid      = errors.New("token is invalid")
	ErrTokenMalformed    = errors.New("token is malformed")
	ErrTokenExpired      = errors.New("token has expired")
	ErrTokenNotFound     = errors.New("token not found in storage")
	ErrResetTokenInvalid = errors.New("password reset token is invalid or expired")
	ErrCSRFTokenInvalid  = errors.New("csrf token is missing or invalid")

	// Adventures & participation
	ErrAdventureNotFound     = errors.New("adventure not found")
	ErrAdventureConcluded    = errors.New("adventure is concluded")
	ErrCharacterNotFound     = errors.New("character not found")
	ErrNoActiveAdventure     = errors.New("no active adventure selected")
	ErrNotParticipant        = errors.New("user does not participate in this adventure")
	ErrNoCharacterSelected   = errors.New("participation has no character bound")
	ErrAttributeBudget       = errors.New("attribute points exceed the allowed budget")
	ErrParticipationNotFound = errors.New("participation not found")

	// Turn processing
	ErrPromptTooLarge  = errors.New("assembled prompt exceeds the token budget")
	ErrNarrationFailed = errors.New("could not process the turn: narration service failed")

	// General request/server
	ErrInternalServer = errors.New("internal server error")
	ErrBadRequest     = errors.New("bad request")
	ErrInvalidInput   = errors.New("invalid input data")
)
