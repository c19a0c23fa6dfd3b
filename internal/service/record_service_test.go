package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lenflow/internal/domain"
	"lenflow/internal/service"
	"lenflow/internal/session"
	"lenflow/mocks"
)

type recordFixture struct {
	svc      service.RecordService
	sessions *session.Manager
	records  *mocks.MockFinancialRecordAPI
	staging  *mocks.MockStagingRepo
	sess     *session.Session
}

func newRecordFixture(t *testing.T) *recordFixture {
	t.Helper()
	f := &recordFixture{
		sessions: session.NewManager(),
		records:  new(mocks.MockFinancialRecordAPI),
		staging:  new(mocks.MockStagingRepo),
	}
	f.svc = service.NewRecordService(f.sessions, f.records, f.staging)
	f.sess = f.sessions.Open(uuid.New(), domain.SubjectBorrower, uuid.New(), uuid.New())
	return f
}

func validDraft(sess *session.Session) {
	sess.EditFields(&domain.FinancialFields{
		GrossRevenue: "2143691.98",
		NetIncome:    "1545862.15",
		EBITDA:       "240000",
		AsOfDate:     "2025-03-31",
	}, nil)
}

func TestValidate_MissingMandatoryFields(t *testing.T) {
	f := newRecordFixture(t)

	err := f.svc.Validate(&domain.FinancialRecordDraft{})

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)

	got := make(map[string]bool)
	for _, fe := range vErr.Fields {
		got[fe.Field] = true
	}
	assert.True(t, got["subject_id"])
	assert.True(t, got["organization_id"])
	assert.True(t, got["subject_type"])
	assert.True(t, got["as_of_date"])
}

func TestValidate_BadDateAndAmount(t *testing.T) {
	f := newRecordFixture(t)

	err := f.svc.Validate(&domain.FinancialRecordDraft{
		SubjectID:      uuid.New(),
		SubjectType:    domain.SubjectBorrower,
		OrganizationID: uuid.New(),
		Fields: domain.FinancialFields{
			AsOfDate:     "March 2025",
			GrossRevenue: "lots",
		},
	})

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	got := make(map[string]string)
	for _, fe := range vErr.Fields {
		got[fe.Field] = fe.Message
	}
	assert.Contains(t, got["as_of_date"], "YYYY-MM-DD")
	assert.Contains(t, got["gross_revenue"], "valid amount")
}

func TestValidate_OKDraft(t *testing.T) {
	f := newRecordFixture(t)

	assert.NoError(t, f.svc.Validate(&domain.FinancialRecordDraft{
		SubjectID:      uuid.New(),
		SubjectType:    domain.SubjectGuarantor,
		OrganizationID: uuid.New(),
		Fields: domain.FinancialFields{
			AsOfDate:     "2025-03-31",
			GrossRevenue: "$2,143,691.98",
		},
	}))
}

func TestSubmit_ValidationFailureNeverReachesBackend(t *testing.T) {
	f := newRecordFixture(t)
	// Draft has no as_of_date.

	_, err := f.svc.Submit(context.Background(), f.sess.ID)

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	f.records.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.records.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)

	// The session survives for the user to fix the draft.
	_, getErr := f.sessions.Get(f.sess.ID)
	assert.NoError(t, getErr)
}

func TestSubmit_CreatesRecordAndFlushesAttachments(t *testing.T) {
	f := newRecordFixture(t)
	validDraft(f.sess)

	d := &domain.StagedDocument{
		ID:            uuid.New(),
		DocumentType:  domain.DocTypeIncomeStatement,
		FileName:      "is.pdf",
		StorageBucket: "intake",
		StorageKey:    "subjects/x/is.pdf",
	}
	f.sess.AddDocument(d)
	pu := &domain.PendingUpload{ID: uuid.New(), DocumentID: d.ID}
	f.sess.TrackPending(pu)

	persisted := &domain.FinancialRecord{ID: uuid.New(), SubjectID: f.sess.SubjectID}
	f.records.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.FinancialRecord) bool {
		return r.GrossRevenue != nil && *r.GrossRevenue == 2143691.98 &&
			r.AsOfDate == "2025-03-31" && r.NetIncome != nil
	})).Return(&domain.SubmitResult{Record: persisted}, nil)
	f.records.On("CreateAttachment", mock.Anything, mock.Anything).
		Return(&domain.Attachment{ID: uuid.New()}, nil)
	f.staging.On("DeleteStagedDocument", mock.Anything, d.ID).Return(nil)
	f.staging.On("UpdatePendingState", mock.Anything, pu.ID, domain.PendingResolved).Return(nil)

	result, err := f.svc.Submit(context.Background(), f.sess.ID)
	require.NoError(t, err)
	assert.Equal(t, persisted.ID, result.Record.ID)

	// Session is destroyed on success.
	_, getErr := f.sessions.Get(f.sess.ID)
	assert.ErrorIs(t, getErr, domain.ErrSessionNotFound)
	f.records.AssertExpectations(t)
	f.staging.AssertExpectations(t)
}

func TestSubmit_AttachmentFailureIsNotFatal(t *testing.T) {
	f := newRecordFixture(t)
	validDraft(f.sess)

	d := &domain.StagedDocument{ID: uuid.New(), DocumentType: domain.DocTypeBalanceSheet, FileName: "bs.pdf"}
	f.sess.AddDocument(d)

	persisted := &domain.FinancialRecord{ID: uuid.New()}
	f.records.On("Create", mock.Anything, mock.Anything).Return(&domain.SubmitResult{Record: persisted}, nil)
	f.records.On("CreateAttachment", mock.Anything, mock.Anything).Return(nil, errors.New("backend hiccup"))

	result, err := f.svc.Submit(context.Background(), f.sess.ID)
	require.NoError(t, err, "record is saved; a failed attachment flush must not fail the submit")
	assert.Equal(t, persisted.ID, result.Record.ID)
}

func TestSubmit_PersistenceFailurePreservesSession(t *testing.T) {
	f := newRecordFixture(t)
	validDraft(f.sess)

	f.records.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := f.svc.Submit(context.Background(), f.sess.ID)

	var pErr *domain.PersistenceError
	require.ErrorAs(t, err, &pErr)

	_, getErr := f.sessions.Get(f.sess.ID)
	assert.NoError(t, getErr, "draft must survive a failed persist for retry")

	// Retry works once the backend recovers.
	f.records.ExpectedCalls = nil
	persisted := &domain.FinancialRecord{ID: uuid.New()}
	f.records.On("Create", mock.Anything, mock.Anything).Return(&domain.SubmitResult{Record: persisted}, nil)

	result, err := f.svc.Submit(context.Background(), f.sess.ID)
	require.NoError(t, err)
	assert.Equal(t, persisted.ID, result.Record.ID)
}

func TestSubmit_EditModeUpdatesExistingRecord(t *testing.T) {
	f := newRecordFixture(t)

	recordID := uuid.New()
	attachment := domain.Attachment{
		ID:           uuid.New(),
		RecordID:     recordID,
		DocumentType: domain.DocTypeBalanceSheet,
		FileName:     "bs.pdf",
		StorageURL:   "https://bank.example.com/docs/bs.pdf",
	}
	stored := &domain.FinancialRecord{
		ID:          recordID,
		SubjectID:   uuid.New(),
		SubjectType: domain.SubjectBorrower,
		AsOfDate:    "2025-03-31",
		EBITDA:      f64(240000),
		Notes:       "original notes",
	}
	f.records.On("GetByID", mock.Anything, recordID).Return(stored, nil)
	f.records.On("GetAttachments", mock.Anything, recordID).Return([]domain.Attachment{attachment}, nil)

	state, err := f.svc.EnterEditMode(context.Background(), service.EnterEditModeInput{
		RecordID:       recordID,
		OrganizationID: uuid.New(),
		OpenedBy:       uuid.New(),
	})
	require.NoError(t, err)

	// The draft is rehydrated with decimal strings and the record id.
	assert.Equal(t, "240000", state.Draft.Fields.EBITDA)
	assert.Equal(t, "2025-03-31", state.Draft.Fields.AsOfDate)
	require.NotNil(t, state.Draft.RecordID)
	assert.Equal(t, recordID, *state.Draft.RecordID)
	assert.Equal(t, "original notes", state.Draft.Notes)

	// The attachment shows up as a stored document, active on its tab.
	bs := state.Collection[domain.DocTypeBalanceSheet]
	require.Len(t, bs.Documents, 1)
	assert.True(t, bs.Documents[0].Stored)
	assert.Equal(t, 0, bs.ActiveIndex)
	assert.Equal(t, domain.DocTypeBalanceSheet, state.ActiveType)

	// Submitting from edit mode updates, never creates.
	f.records.On("Update", mock.Anything, recordID, mock.Anything).
		Return(&domain.SubmitResult{Record: stored}, nil)

	_, err = f.svc.Submit(context.Background(), state.ID)
	require.NoError(t, err)
	f.records.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEnterEditMode_RecordNotFound(t *testing.T) {
	f := newRecordFixture(t)
	id := uuid.New()
	f.records.On("GetByID", mock.Anything, id).Return(nil, domain.ErrNotFound)

	_, err := f.svc.EnterEditMode(context.Background(), service.EnterEditModeInput{RecordID: id})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func f64(v float64) *float64 { return &v }
