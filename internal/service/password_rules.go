package service

import (
	"strings"
	"unicode"

	"adventure-server/internal/models"
)

const (
	minPasswordLength = 6
	maxPasswordLength = 128
	maxUsernameLength = 64
	maxEmailLength    = 255
)

// commonPasswords rejects the passwords every brute-force list tries
// first.
var commonPasswords = map[string]struct{}{
	"123456":    {},
	"12345678":  {},
	"123456789": {},
	"password":  {},
	"password1": {},
	"qwerty":    {},
	"qwerty123": {},
	"abc123":    {},
	"senha123":  {},
	"111111":    {},
	"letmein":   {},
	"iloveyou":  {},
}

// validatePassword enforces the signup password rules: bounded length,
// not entirely numeric, not on the common-password list.
func validatePassword(password string) error {
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return models.ErrWeakPassword
	}
	if _, found := commonPasswords[strings.ToLower(password)]; found {
		return models.ErrWeakPassword
	}
	allDigits := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			allDigits = false
			break
		}
	}
	if allDigits {
		return models.ErrWeakPassword
	}
	return nil
}
