package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"lenflow/internal/config"
	"lenflow/internal/domain"
	"lenflow/internal/extraction"
	"lenflow/internal/normalize"
	"lenflow/internal/port"
	"lenflow/internal/session"
)

// OpenSessionInput is the DTO for opening an intake session.
type OpenSessionInput struct {
	SubjectID      uuid.UUID
	SubjectType    domain.SubjectType
	OrganizationID uuid.UUID
	OpenedBy       uuid.UUID
}

// UploadDocumentInput is the DTO for attaching one file to a session.
type UploadDocumentInput struct {
	SessionID    uuid.UUID
	DocumentType domain.DocumentType
	UploadedBy   uuid.UUID
	File         multipart.File
	Header       *multipart.FileHeader
}

// UploadDocumentResult reports the staged document plus whatever the
// extraction pass contributed.
type UploadDocumentResult struct {
	Document          domain.StagedDocument    `json:"document"`
	ExtractionApplied bool                     `json:"extraction_applied"`
	Fields            *domain.FinancialFields  `json:"fields,omitempty"`
}

// SessionState is the snapshot handed to the UI.
type SessionState struct {
	ID             uuid.UUID                                `json:"id"`
	SubjectID      uuid.UUID                                `json:"subject_id"`
	SubjectType    domain.SubjectType                       `json:"subject_type"`
	OrganizationID uuid.UUID                                `json:"organization_id"`
	Collection     map[domain.DocumentType]session.TypeState `json:"collection"`
	Draft          domain.FinancialRecordDraft              `json:"draft"`
	ActiveType     domain.DocumentType                      `json:"active_type,omitempty"`
	PendingUploads int                                      `json:"pending_uploads"`
}

// IntakeService owns the intake session lifecycle and the upload
// orchestration: stage, reserve, transfer, extract, and the
// compensating cleanup when any of those steps fails.
type IntakeService interface {
	OpenSession(ctx context.Context, input OpenSessionInput) (*SessionState, error)
	GetSession(ctx context.Context, id uuid.UUID) (*SessionState, error)
	CloseSession(ctx context.Context, id uuid.UUID) error
	UploadDocument(ctx context.Context, input UploadDocumentInput) (*UploadDocumentResult, error)
	RemoveDocument(ctx context.Context, sessionID uuid.UUID, docType domain.DocumentType, docID uuid.UUID) error
	SwitchActive(ctx context.Context, sessionID uuid.UUID, docType domain.DocumentType, index int) error
	EditDraft(ctx context.Context, sessionID uuid.UUID, fields *domain.FinancialFields, notes *string) (*SessionState, error)
}

type intakeService struct {
	sessions  *session.Manager
	staging   port.StagingRepository
	storage   port.ObjectStorage
	extractor port.Extractor
	cfg       *config.S3Config
	now       func() time.Time
}

// NewIntakeService creates a new IntakeService implementation.
func NewIntakeService(
	sessions *session.Manager,
	staging port.StagingRepository,
	storage port.ObjectStorage,
	extractor port.Extractor,
	cfg *config.S3Config,
) IntakeService {
	return &intakeService{
		sessions:  sessions,
		staging:   staging,
		storage:   storage,
		extractor: extractor,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *intakeService) OpenSession(ctx context.Context, input OpenSessionInput) (*SessionState, error) {
	if !input.SubjectType.Valid() {
		return nil, fmt.Errorf("invalid subject type %q", input.SubjectType)
	}
	sess := s.sessions.Open(input.SubjectID, input.SubjectType, input.OrganizationID, input.OpenedBy)
	log.Printf("intakeService.OpenSession: opened session %s for %s %s",
		sess.ID, input.SubjectType, input.SubjectID)
	return snapshot(sess), nil
}

func (s *intakeService) GetSession(ctx context.Context, id uuid.UUID) (*SessionState, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	return snapshot(sess), nil
}

// CloseSession tears the session down: every reserved-but-unconfirmed
// storage object gets a best-effort compensating delete, so a canceled
// dialog leaves no orphans behind. Deletes are idempotent; a close that
// races an in-flight upload at worst deletes an object twice.
func (s *intakeService) CloseSession(ctx context.Context, id uuid.UUID) error {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return err
	}

	for _, pu := range sess.PendingUploads() {
		if err := s.storage.Delete(ctx, pu.StorageBucket, pu.StorageKey); err != nil {
			log.Printf("intakeService.CloseSession: delete of %s failed (sweeper will retry): %v", pu.StorageKey, err)
			continue
		}
		if err := s.staging.UpdatePendingState(ctx, pu.ID, domain.PendingResolved); err != nil {
			log.Printf("intakeService.CloseSession: failed to resolve pending %s: %v", pu.ID, err)
		}
	}

	sess.Collection(func(c *session.DocumentCollection) {
		for _, doc := range c.LocalDocuments() {
			if err := s.staging.DeleteStagedDocument(ctx, doc.ID); err != nil {
				log.Printf("intakeService.CloseSession: failed to delete staged row %s: %v", doc.ID, err)
			}
		}
	})

	s.sessions.Remove(id)
	log.Printf("intakeService.CloseSession: closed session %s", id)
	return nil
}

// UploadDocument runs the full orchestration for one file. Steps are
// strictly sequential; a failure before the transfer leaves nothing
// behind, and a failure after it deletes the stored object before the
// error surfaces.
func (s *intakeService) UploadDocument(ctx context.Context, input UploadDocumentInput) (*UploadDocumentResult, error) {
	sess, err := s.sessions.Get(input.SessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.TryAcquire(); err != nil {
		return nil, err
	}
	defer sess.Release()

	if !input.DocumentType.Valid() {
		return nil, domain.ErrInvalidDocumentType
	}

	contentType, err := s.validateFile(input.File, input.Header)
	if err != nil {
		return nil, err
	}

	// Stage. The document is fully keyed before it is shared with the
	// session; any later mutation goes through a locked session method.
	docID := uuid.New()
	doc := &domain.StagedDocument{
		ID:           docID,
		SessionID:    sess.ID,
		SubjectID:    sess.SubjectID,
		DocumentType: input.DocumentType,
		FileName:     input.Header.Filename,
		FileSize:     input.Header.Size,
		ContentType:  contentType,
		UploadedBy:   input.UploadedBy,

		StorageBucket: s.cfg.Bucket,
		StorageKey: fmt.Sprintf("subjects/%s/%s/%s/%s",
			sess.SubjectID, input.DocumentType, docID, input.Header.Filename),
	}
	sess.AddDocument(doc)

	// Reserve
	pending := &domain.PendingUpload{
		ID:            uuid.New(),
		SessionID:     sess.ID,
		DocumentID:    doc.ID,
		StorageBucket: doc.StorageBucket,
		StorageKey:    doc.StorageKey,
		State:         domain.PendingReserved,
	}
	if err := s.staging.CreateStagedDocument(ctx, doc); err != nil {
		sess.RemoveDocument(input.DocumentType, doc.ID)
		return nil, &domain.ReservationError{Err: err}
	}
	if err := s.staging.CreatePendingUpload(ctx, pending); err != nil {
		sess.RemoveDocument(input.DocumentType, doc.ID)
		s.dropStagedRow(ctx, doc.ID)
		return nil, &domain.ReservationError{Err: err}
	}
	sess.TrackPending(pending)

	// Transfer
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      doc.StorageBucket,
		Key:         doc.StorageKey,
		Body:        input.File,
		ContentType: contentType,
		Size:        input.Header.Size,
	}); err != nil {
		s.abandonDocument(ctx, sess, doc, domain.PendingResolved)
		return nil, &domain.TransferError{Key: doc.StorageKey, Err: err}
	}
	if err := s.staging.UpdatePendingState(ctx, pending.ID, domain.PendingTransferred); err != nil {
		log.Printf("intakeService.UploadDocument: failed to mark pending %s transferred: %v", pending.ID, err)
	}
	sess.MarkPendingTransferred(doc.ID)

	url, err := s.storage.GetPresignedURL(ctx, doc.StorageBucket, doc.StorageKey, s.cfg.PresignExpiry)
	if err != nil {
		s.compensate(ctx, sess, doc, pending)
		return nil, &domain.TransferError{Key: doc.StorageKey, Err: err}
	}
	sess.SetPreviewURL(input.DocumentType, doc.ID, url)

	result := &UploadDocumentResult{Document: *doc}

	// Extract (only for kinds the vendor has a configuration for)
	if input.DocumentType.Extractable() {
		fields, err := s.extract(ctx, sess, doc)
		if err != nil {
			s.compensate(ctx, sess, doc, pending)
			return nil, &domain.ExtractionError{DocumentType: input.DocumentType, Err: err}
		}
		if fields != nil {
			sess.MergeFields(input.DocumentType, fields)
			result.ExtractionApplied = true
			result.Fields = fields
		}
	}

	sess.AppendDocumentID(doc.ID)
	log.Printf("intakeService.UploadDocument: staged %s (%s, %d bytes) as %s in session %s",
		doc.FileName, contentType, doc.FileSize, input.DocumentType, sess.ID)
	return result, nil
}

// extract calls the vendor and normalizes the payload. A re-run for a
// document type whose extraction already merged fields is allowed and
// reports success again; the merge semantics live in the session.
func (s *intakeService) extract(ctx context.Context, sess *session.Session, doc *domain.StagedDocument) (*domain.FinancialFields, error) {
	payload, err := s.extractor.Extract(ctx, extraction.ExtractInput{
		URL:               doc.PreviewURL,
		DocumentKind:      string(doc.DocumentType),
		ConfigurationName: domain.ExtractionConfigurations[doc.DocumentType],
		DocumentName:      doc.FileName,
	})
	if err != nil {
		return nil, err
	}
	fields, err := normalize.Fields(doc.DocumentType, payload, s.now())
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// compensate deletes the stored object and clears the document slot
// after a post-transfer failure, so the UI is never left pointing at an
// orphaned, un-extracted file.
func (s *intakeService) compensate(ctx context.Context, sess *session.Session, doc *domain.StagedDocument, pending *domain.PendingUpload) {
	if err := s.storage.Delete(ctx, doc.StorageBucket, doc.StorageKey); err != nil {
		log.Printf("intakeService.compensate: delete of %s failed (sweeper will retry): %v", doc.StorageKey, err)
		s.abandonDocument(ctx, sess, doc, "")
		return
	}
	s.abandonDocument(ctx, sess, doc, domain.PendingResolved)
}

// abandonDocument removes a staged document from the session and the
// ledger. When state is non-empty the pending reservation is moved to
// that terminal state; otherwise it is left for the sweeper.
func (s *intakeService) abandonDocument(ctx context.Context, sess *session.Session, doc *domain.StagedDocument, state domain.PendingState) {
	_, pu := sess.RemoveDocument(doc.DocumentType, doc.ID)
	if pu != nil && state != "" {
		if err := s.staging.UpdatePendingState(ctx, pu.ID, state); err != nil {
			log.Printf("intakeService.abandonDocument: failed to update pending %s: %v", pu.ID, err)
		}
	}
	s.dropStagedRow(ctx, doc.ID)
}

func (s *intakeService) dropStagedRow(ctx context.Context, id uuid.UUID) {
	if err := s.staging.DeleteStagedDocument(ctx, id); err != nil {
		log.Printf("intakeService.dropStagedRow: failed to delete staged row %s: %v", id, err)
	}
}

// RemoveDocument drops a staged document from the collection and
// releases its storage object. Removing an id that is not staged is a
// no-op: the UI may race itself.
func (s *intakeService) RemoveDocument(ctx context.Context, sessionID uuid.UUID, docType domain.DocumentType, docID uuid.UUID) error {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	doc, pu := sess.RemoveDocument(docType, docID)
	if doc == nil {
		return nil
	}
	if !doc.Stored {
		if pu != nil {
			if err := s.storage.Delete(ctx, pu.StorageBucket, pu.StorageKey); err != nil {
				log.Printf("intakeService.RemoveDocument: delete of %s failed (sweeper will retry): %v", pu.StorageKey, err)
			} else if err := s.staging.UpdatePendingState(ctx, pu.ID, domain.PendingResolved); err != nil {
				log.Printf("intakeService.RemoveDocument: failed to resolve pending %s: %v", pu.ID, err)
			}
		}
		s.dropStagedRow(ctx, doc.ID)
	}
	return nil
}

func (s *intakeService) SwitchActive(ctx context.Context, sessionID uuid.UUID, docType domain.DocumentType, index int) error {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	sess.SwitchActive(docType, index)
	return nil
}

func (s *intakeService) EditDraft(ctx context.Context, sessionID uuid.UUID, fields *domain.FinancialFields, notes *string) (*SessionState, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	sess.EditFields(fields, notes)
	return snapshot(sess), nil
}

// validateFile checks extension, size, and magic bytes, returning the
// canonical content type.
func (s *intakeService) validateFile(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return "", domain.ErrUnsupportedFileType
	}

	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if header.Size > maxBytes {
		return "", domain.ErrFileTooLarge
	}

	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading file header: %w", err)
	}
	if _, ok := domain.AllowedContentTypes[http.DetectContentType(buf[:n])]; !ok {
		return "", domain.ErrUnsupportedFileType
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("seeking file: %w", err)
	}

	return domain.AllowedFileTypes[fileType], nil
}

// snapshot builds the serializable session view.
func snapshot(sess *session.Session) *SessionState {
	state := &SessionState{
		ID:             sess.ID,
		SubjectID:      sess.SubjectID,
		SubjectType:    sess.SubjectType,
		OrganizationID: sess.OrganizationID,
		Draft:          sess.Draft(),
		PendingUploads: len(sess.PendingUploads()),
	}
	sess.Collection(func(c *session.DocumentCollection) {
		state.Collection = c.Snapshot()
		if t, ok := c.FirstNonEmptyType(); ok {
			state.ActiveType = t
		}
	})
	return state
}
