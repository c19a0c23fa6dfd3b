package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"lenflow/internal/domain"
)

// MockCovenantAPI is a mock implementation of port.CovenantAPI.
type MockCovenantAPI struct {
	mock.Mock
}

func (m *MockCovenantAPI) ListBySubject(ctx context.Context, subjectID uuid.UUID) ([]domain.LoanCovenant, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LoanCovenant), args.Error(1)
}
