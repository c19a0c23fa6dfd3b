package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"lenflow/internal/domain"
	"lenflow/internal/port"
)

type stagingRepo struct {
	db *sqlx.DB
}

// NewStagingRepo creates a PostgreSQL-backed StagingRepository.
func NewStagingRepo(db *sqlx.DB) port.StagingRepository {
	return &stagingRepo{db: db}
}

func (r *stagingRepo) CreateStagedDocument(ctx context.Context, doc *domain.StagedDocument) error {
	doc.UploadedAt = time.Now().UTC()

	query := `INSERT INTO staged_documents
		(id, session_id, subject_id, document_type, file_name, file_size,
		 content_type, storage_bucket, storage_key, stored, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.SessionID, doc.SubjectID, doc.DocumentType, doc.FileName,
		doc.FileSize, doc.ContentType, doc.StorageBucket, doc.StorageKey,
		doc.Stored, doc.UploadedBy, doc.UploadedAt)
	if err != nil {
		return fmt.Errorf("stagingRepo.CreateStagedDocument: %w", err)
	}
	return nil
}

func (r *stagingRepo) DeleteStagedDocument(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM staged_documents WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("stagingRepo.DeleteStagedDocument: %w", err)
	}
	return nil
}

func (r *stagingRepo) CreatePendingUpload(ctx context.Context, pu *domain.PendingUpload) error {
	pu.CreatedAt = time.Now().UTC()

	query := `INSERT INTO pending_uploads
		(id, session_id, document_id, storage_bucket, storage_key, state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		pu.ID, pu.SessionID, pu.DocumentID, pu.StorageBucket, pu.StorageKey,
		pu.State, pu.CreatedAt)
	if err != nil {
		return fmt.Errorf("stagingRepo.CreatePendingUpload: %w", err)
	}
	return nil
}

func (r *stagingRepo) UpdatePendingState(ctx context.Context, id uuid.UUID, state domain.PendingState) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE pending_uploads SET state = $1 WHERE id = $2", state, id)
	if err != nil {
		return fmt.Errorf("stagingRepo.UpdatePendingState: %w", err)
	}
	return nil
}

func (r *stagingRepo) ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]domain.PendingUpload, error) {
	var pending []domain.PendingUpload
	err := r.db.SelectContext(ctx, &pending,
		`SELECT * FROM pending_uploads
		 WHERE state IN ($1, $2) AND created_at < $3
		 ORDER BY created_at ASC LIMIT $4`,
		domain.PendingReserved, domain.PendingTransferred, olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("stagingRepo.ListStalePending: %w", err)
	}
	return pending, nil
}
