package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"lenflow/internal/domain"
)

// MockDebtServiceAPI is a mock implementation of port.DebtServiceAPI.
type MockDebtServiceAPI struct {
	mock.Mock
}

func (m *MockDebtServiceAPI) LatestBySubject(ctx context.Context, subjectID uuid.UUID) (*domain.DebtServiceRecord, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebtServiceRecord), args.Error(1)
}
