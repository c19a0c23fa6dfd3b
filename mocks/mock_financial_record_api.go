package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"lenflow/internal/domain"
	"lenflow/internal/port"
)

// MockFinancialRecordAPI is a mock implementation of port.FinancialRecordAPI.
type MockFinancialRecordAPI struct {
	mock.Mock
}

func (m *MockFinancialRecordAPI) Create(ctx context.Context, record *domain.FinancialRecord) (*domain.SubmitResult, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubmitResult), args.Error(1)
}

func (m *MockFinancialRecordAPI) Update(ctx context.Context, id uuid.UUID, record *domain.FinancialRecord) (*domain.SubmitResult, error) {
	args := m.Called(ctx, id, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubmitResult), args.Error(1)
}

func (m *MockFinancialRecordAPI) GetByID(ctx context.Context, id uuid.UUID) (*domain.FinancialRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialRecord), args.Error(1)
}

func (m *MockFinancialRecordAPI) LatestBySubject(ctx context.Context, subjectID uuid.UUID) (*domain.FinancialRecord, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialRecord), args.Error(1)
}

func (m *MockFinancialRecordAPI) ListBySubject(ctx context.Context, subjectID uuid.UUID, limit int) ([]domain.FinancialRecord, error) {
	args := m.Called(ctx, subjectID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FinancialRecord), args.Error(1)
}

func (m *MockFinancialRecordAPI) GetAttachments(ctx context.Context, recordID uuid.UUID) ([]domain.Attachment, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Attachment), args.Error(1)
}

func (m *MockFinancialRecordAPI) CreateAttachment(ctx context.Context, input port.CreateAttachmentInput) (*domain.Attachment, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attachment), args.Error(1)
}
