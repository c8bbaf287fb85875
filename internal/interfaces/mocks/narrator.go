package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Mock Narrator
type Narrator struct {
	mock.Mock
}

func (m *Narrator) Narrate(ctx context.Context, persona, prompt string) (string, string, error) {
	args := m.Called(ctx, persona, prompt)
	return args.String(0), args.String(1), args.Error(2)
}

// Mock Mailer
type Mailer struct {
	mock.Mock
}

func (m *Mailer) Send(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

// Mock TokenCounter
type TokenCounter struct {
	mock.Mock
}

func (m *TokenCounter) Count(text string) int {
	args := m.Called(text)
	return args.Int(0)
}
