package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"lenflow/internal/domain"
	"lenflow/internal/normalize"
	"lenflow/internal/port"
	"lenflow/internal/session"
)

// EnterEditModeInput identifies the record to rehydrate into a session.
type EnterEditModeInput struct {
	RecordID       uuid.UUID
	OrganizationID uuid.UUID
	OpenedBy       uuid.UUID
}

// RecordService owns the financial-record lifecycle on top of an intake
// session: draft validation, submission to the core-banking backend,
// and rehydrating a persisted record back into a session for editing.
type RecordService interface {
	Validate(draft *domain.FinancialRecordDraft) error
	Submit(ctx context.Context, sessionID uuid.UUID) (*domain.SubmitResult, error)
	EnterEditMode(ctx context.Context, input EnterEditModeInput) (*SessionState, error)
}

type recordService struct {
	sessions *session.Manager
	records  port.FinancialRecordAPI
	staging  port.StagingRepository
}

// NewRecordService creates a new RecordService implementation.
func NewRecordService(
	sessions *session.Manager,
	records port.FinancialRecordAPI,
	staging port.StagingRepository,
) RecordService {
	return &recordService{
		sessions: sessions,
		records:  records,
		staging:  staging,
	}
}

// amountFields maps the draft's decimal-string fields to the names used
// in validation errors and in the persisted record.
func amountFields(f *domain.FinancialFields) map[string]string {
	return map[string]string{
		"gross_revenue":             f.GrossRevenue,
		"net_income":                f.NetIncome,
		"ebitda":                    f.EBITDA,
		"profit_margin":             f.ProfitMargin,
		"rental_expenses":           f.RentalExpenses,
		"total_current_assets":      f.TotalCurrentAssets,
		"total_current_liabilities": f.TotalCurrentLiabilities,
		"equity":                    f.Equity,
		"cash":                      f.Cash,
		"accounts_receivable":       f.AccountsReceivable,
		"accounts_payable":          f.AccountsPayable,
		"inventory":                 f.Inventory,
		"total_assets":              f.TotalAssets,
		"total_liabilities":         f.TotalLiabilities,
		"net_worth":                 f.NetWorth,
		"liquidity":                 f.Liquidity,
	}
}

// Validate checks a draft locally. It never touches the network: a
// draft that fails here must not produce a backend call.
func (s *recordService) Validate(draft *domain.FinancialRecordDraft) error {
	var fields []domain.FieldError

	if draft.SubjectID == uuid.Nil {
		fields = append(fields, domain.FieldError{Field: "subject_id", Message: "is required"})
	}
	if draft.OrganizationID == uuid.Nil {
		fields = append(fields, domain.FieldError{Field: "organization_id", Message: "is required"})
	}
	if !draft.SubjectType.Valid() {
		fields = append(fields, domain.FieldError{Field: "subject_type", Message: "is invalid"})
	}

	if draft.Fields.AsOfDate == "" {
		fields = append(fields, domain.FieldError{Field: "as_of_date", Message: "is required"})
	} else if _, err := time.Parse("2006-01-02", draft.Fields.AsOfDate); err != nil {
		fields = append(fields, domain.FieldError{Field: "as_of_date", Message: "must be a YYYY-MM-DD date"})
	}

	for name, raw := range amountFields(&draft.Fields) {
		if raw == "" {
			continue
		}
		if _, ok := normalize.ParseAmount(raw); !ok {
			fields = append(fields, domain.FieldError{Field: name, Message: "is not a valid amount"})
		}
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// Submit validates the session's draft, persists it to the core-banking
// backend, flushes staged documents as attachments, and tears the
// session down. On a persistence failure the session and its draft
// survive so the user can retry.
func (s *recordService) Submit(ctx context.Context, sessionID uuid.UUID) (*domain.SubmitResult, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.TryAcquire(); err != nil {
		return nil, err
	}
	defer sess.Release()

	draft := sess.Draft()
	if err := s.Validate(&draft); err != nil {
		return nil, err
	}

	record := buildRecord(&draft)

	var result *domain.SubmitResult
	if draft.RecordID != nil {
		result, err = s.records.Update(ctx, *draft.RecordID, record)
	} else {
		result, err = s.records.Create(ctx, record)
	}
	if err != nil {
		return nil, &domain.PersistenceError{Err: err}
	}

	s.flushAttachments(ctx, sess, result.Record.ID)
	s.resolvePendings(ctx, sess)

	s.sessions.Remove(sessionID)
	log.Printf("recordService.Submit: persisted record %s for subject %s, closed session %s",
		result.Record.ID, draft.SubjectID, sessionID)
	return result, nil
}

// flushAttachments registers every locally staged document on the
// persisted record. Individual failures are logged, not fatal: the
// record is already saved, and a missing attachment can be re-uploaded.
func (s *recordService) flushAttachments(ctx context.Context, sess *session.Session, recordID uuid.UUID) {
	var local []*domain.StagedDocument
	sess.Collection(func(c *session.DocumentCollection) {
		local = c.LocalDocuments()
	})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, doc := range local {
		doc := doc
		g.Go(func() error {
			_, err := s.records.CreateAttachment(gctx, port.CreateAttachmentInput{
				RecordID:     recordID,
				DocumentType: doc.DocumentType,
				FileName:     doc.FileName,
				FileSize:     doc.FileSize,
				ContentType:  doc.ContentType,
				StorageURL:   "s3://" + doc.StorageBucket + "/" + doc.StorageKey,
				UploadedBy:   doc.UploadedBy,
			})
			if err != nil {
				log.Printf("recordService.flushAttachments: attach %s to record %s failed: %v",
					doc.FileName, recordID, err)
				return nil
			}
			if err := s.staging.DeleteStagedDocument(gctx, doc.ID); err != nil {
				log.Printf("recordService.flushAttachments: failed to delete staged row %s: %v", doc.ID, err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// resolvePendings marks every reservation resolved: the objects now
// belong to the persisted record and must not be swept.
func (s *recordService) resolvePendings(ctx context.Context, sess *session.Session) {
	for _, pu := range sess.PendingUploads() {
		if err := s.staging.UpdatePendingState(ctx, pu.ID, domain.PendingResolved); err != nil {
			log.Printf("recordService.resolvePendings: failed to resolve pending %s: %v", pu.ID, err)
		}
	}
}

// EnterEditMode loads a persisted record and its attachments into a
// fresh session so the user can amend it. The rebuilt draft carries the
// record id; Submit will update rather than create.
func (s *recordService) EnterEditMode(ctx context.Context, input EnterEditModeInput) (*SessionState, error) {
	record, err := s.records.GetByID(ctx, input.RecordID)
	if err != nil {
		return nil, err
	}

	attachments, err := s.records.GetAttachments(ctx, input.RecordID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	sess := s.sessions.Open(record.SubjectID, record.SubjectType, input.OrganizationID, input.OpenedBy)

	recordID := record.ID
	sess.SetDraft(domain.FinancialRecordDraft{
		RecordID:       &recordID,
		SubjectID:      record.SubjectID,
		SubjectType:    record.SubjectType,
		OrganizationID: input.OrganizationID,
		Fields:         hydrateFields(record),
		Notes:          record.Notes,
		DocumentIDs:    append([]uuid.UUID(nil), record.DocumentIDs...),
	})

	collection := session.NewDocumentCollection()
	for i := range attachments {
		a := &attachments[i]
		if !a.DocumentType.Valid() {
			log.Printf("recordService.EnterEditMode: skipping attachment %s with unknown type %q", a.ID, a.DocumentType)
			continue
		}
		collection.Add(&domain.StagedDocument{
			ID:           a.ID,
			SessionID:    sess.ID,
			SubjectID:    record.SubjectID,
			DocumentType: a.DocumentType,
			FileName:     a.FileName,
			FileSize:     a.FileSize,
			ContentType:  a.ContentType,
			PreviewURL:   a.StorageURL,
			Stored:       true,
			UploadedBy:   a.UploadedBy,
			UploadedAt:   a.CreatedAt,
		})
	}
	sess.ReplaceCollection(collection)

	log.Printf("recordService.EnterEditMode: opened session %s for record %s (%d attachments)",
		sess.ID, record.ID, len(attachments))
	return snapshot(sess), nil
}

// buildRecord converts the draft's decimal strings into the persisted
// record's numeric fields. Blank stays nil, never zero.
func buildRecord(draft *domain.FinancialRecordDraft) *domain.FinancialRecord {
	record := &domain.FinancialRecord{
		SubjectID:      draft.SubjectID,
		SubjectType:    draft.SubjectType,
		OrganizationID: draft.OrganizationID,
		AsOfDate:       draft.Fields.AsOfDate,
		Notes:          draft.Notes,
		DocumentIDs:    append([]uuid.UUID(nil), draft.DocumentIDs...),
	}
	if draft.RecordID != nil {
		record.ID = *draft.RecordID
	}

	f := &draft.Fields
	record.GrossRevenue = amount(f.GrossRevenue)
	record.NetIncome = amount(f.NetIncome)
	record.EBITDA = amount(f.EBITDA)
	record.ProfitMargin = amount(f.ProfitMargin)
	record.RentalExpenses = amount(f.RentalExpenses)
	record.TotalCurrentAssets = amount(f.TotalCurrentAssets)
	record.TotalCurrentLiabilities = amount(f.TotalCurrentLiabilities)
	record.Equity = amount(f.Equity)
	record.Cash = amount(f.Cash)
	record.AccountsReceivable = amount(f.AccountsReceivable)
	record.AccountsPayable = amount(f.AccountsPayable)
	record.Inventory = amount(f.Inventory)
	record.TotalAssets = amount(f.TotalAssets)
	record.TotalLiabilities = amount(f.TotalLiabilities)
	record.NetWorth = amount(f.NetWorth)
	record.Liquidity = amount(f.Liquidity)
	return record
}

func amount(raw string) *float64 {
	f, ok := normalize.ParseAmount(raw)
	if !ok {
		return nil
	}
	return &f
}

// hydrateFields renders a persisted record back into the draft's
// decimal-string form.
func hydrateFields(r *domain.FinancialRecord) domain.FinancialFields {
	return domain.FinancialFields{
		GrossRevenue:            str(r.GrossRevenue),
		NetIncome:               str(r.NetIncome),
		EBITDA:                  str(r.EBITDA),
		ProfitMargin:            str(r.ProfitMargin),
		RentalExpenses:          str(r.RentalExpenses),
		TotalCurrentAssets:      str(r.TotalCurrentAssets),
		TotalCurrentLiabilities: str(r.TotalCurrentLiabilities),
		Equity:                  str(r.Equity),
		Cash:                    str(r.Cash),
		AccountsReceivable:      str(r.AccountsReceivable),
		AccountsPayable:         str(r.AccountsPayable),
		Inventory:               str(r.Inventory),
		TotalAssets:             str(r.TotalAssets),
		TotalLiabilities:        str(r.TotalLiabilities),
		NetWorth:                str(r.NetWorth),
		Liquidity:               str(r.Liquidity),
		AsOfDate:                r.AsOfDate,
	}
}

func str(f *float64) string {
	if f == nil {
		return ""
	}
	return normalize.FormatAmount(*f)
}
