package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"lenflow/internal/domain"
)

// StagingRepository is the intake ledger: a durable mirror of staged
// documents and pending upload reservations, so orphaned storage
// objects can be swept even after a crash.
type StagingRepository interface {
	CreateStagedDocument(ctx context.Context, doc *domain.StagedDocument) error
	DeleteStagedDocument(ctx context.Context, id uuid.UUID) error

	CreatePendingUpload(ctx context.Context, pu *domain.PendingUpload) error
	UpdatePendingState(ctx context.Context, id uuid.UUID, state domain.PendingState) error
	ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]domain.PendingUpload, error)
}
