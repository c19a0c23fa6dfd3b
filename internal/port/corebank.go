package port

import (
	"context"

	"github.com/google/uuid"

	"lenflow/internal/domain"
)

// CreateAttachmentInput is the payload for attaching a stored document
// to a persisted financial record.
type CreateAttachmentInput struct {
	RecordID     uuid.UUID
	DocumentType domain.DocumentType
	FileName     string
	FileSize     int64
	ContentType  string
	StorageURL   string
	UploadedBy   uuid.UUID
}

// FinancialRecordAPI is the core-banking backend's financial-record
// resource. This service is only a client of it; the backend owns
// persistence and any server-side recalculation.
type FinancialRecordAPI interface {
	Create(ctx context.Context, record *domain.FinancialRecord) (*domain.SubmitResult, error)
	Update(ctx context.Context, id uuid.UUID, record *domain.FinancialRecord) (*domain.SubmitResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FinancialRecord, error)
	LatestBySubject(ctx context.Context, subjectID uuid.UUID) (*domain.FinancialRecord, error)
	ListBySubject(ctx context.Context, subjectID uuid.UUID, limit int) ([]domain.FinancialRecord, error)
	GetAttachments(ctx context.Context, recordID uuid.UUID) ([]domain.Attachment, error)
	CreateAttachment(ctx context.Context, input CreateAttachmentInput) (*domain.Attachment, error)
}

// DebtServiceAPI exposes the subject's latest debt-service figures.
type DebtServiceAPI interface {
	LatestBySubject(ctx context.Context, subjectID uuid.UUID) (*domain.DebtServiceRecord, error)
}

// CovenantAPI lists the DSCR covenants across a subject's loans.
type CovenantAPI interface {
	ListBySubject(ctx context.Context, subjectID uuid.UUID) ([]domain.LoanCovenant, error)
}
