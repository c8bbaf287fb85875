package mocks

import (
	"context"

	"adventure-server/internal/interfaces"

	"github.com/stretchr/testify/mock"
)

// Mock TxManager. Runs the callback with a nil querier so that service
// tests exercise the transactional body without a database.
type TxManager struct {
	mock.Mock
}

func (m *TxManager) WithTx(ctx context.Context, fn func(tx interfaces.DBTX) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(nil)
}
