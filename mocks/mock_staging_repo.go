package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"lenflow/internal/domain"
)

// MockStagingRepo is a mock implementation of port.StagingRepository.
type MockStagingRepo struct {
	mock.Mock
}

func (m *MockStagingRepo) CreateStagedDocument(ctx context.Context, doc *domain.StagedDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockStagingRepo) DeleteStagedDocument(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStagingRepo) CreatePendingUpload(ctx context.Context, pu *domain.PendingUpload) error {
	args := m.Called(ctx, pu)
	return args.Error(0)
}

func (m *MockStagingRepo) UpdatePendingState(ctx context.Context, id uuid.UUID, state domain.PendingState) error {
	args := m.Called(ctx, id, state)
	return args.Error(0)
}

func (m *MockStagingRepo) ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]domain.PendingUpload, error) {
	args := m.Called(ctx, olderThan, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingUpload), args.Error(1)
}
