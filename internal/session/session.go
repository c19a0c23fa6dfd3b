package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"lenflow/internal/domain"
)

// Session is the server-side stand-in for one open intake dialog: it
// owns the document collection, the in-progress draft, and the pending
// upload reservations for its lifetime. Sessions are created explicitly
// and torn down on close or submit, so no state leaks across dialogs.
type Session struct {
	ID             uuid.UUID
	SubjectID      uuid.UUID
	SubjectType    domain.SubjectType
	OrganizationID uuid.UUID
	OpenedBy       uuid.UUID
	CreatedAt      time.Time

	mu         sync.Mutex
	collection *DocumentCollection
	draft      domain.FinancialRecordDraft
	pending    map[uuid.UUID]*domain.PendingUpload // keyed by document id
	extracted  map[domain.DocumentType]bool
	busy       bool
	closed     bool
}

func newSession(subjectID uuid.UUID, subjectType domain.SubjectType, orgID, openedBy uuid.UUID) *Session {
	return &Session{
		ID:             uuid.New(),
		SubjectID:      subjectID,
		SubjectType:    subjectType,
		OrganizationID: orgID,
		OpenedBy:       openedBy,
		CreatedAt:      time.Now().UTC(),
		collection:     NewDocumentCollection(),
		draft: domain.FinancialRecordDraft{
			SubjectID:      subjectID,
			SubjectType:    subjectType,
			OrganizationID: orgID,
		},
		pending:   make(map[uuid.UUID]*domain.PendingUpload),
		extracted: make(map[domain.DocumentType]bool),
	}
}

// TryAcquire marks the session busy for the duration of one upload or
// submit. It returns ErrSessionBusy when another operation is in
// flight; handlers use this the way the UI disables its buttons.
func (s *Session) TryAcquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrSessionNotFound
	}
	if s.busy {
		return domain.ErrSessionBusy
	}
	s.busy = true
	return nil
}

// Release clears the busy flag.
func (s *Session) Release() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// AddDocument stages a document in the collection.
func (s *Session) AddDocument(doc *domain.StagedDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collection.Add(doc)
}

// RemoveDocument removes a staged document and returns it together with
// any pending upload reservation it held, so the caller can release the
// storage object.
func (s *Session) RemoveDocument(t domain.DocumentType, id uuid.UUID) (*domain.StagedDocument, *domain.PendingUpload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.collection.Remove(t, id)
	if doc == nil {
		return nil, nil
	}
	pu := s.pending[id]
	delete(s.pending, id)
	return doc, pu
}

// SwitchActive sets the active document index for a type.
func (s *Session) SwitchActive(t domain.DocumentType, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collection.SwitchActive(t, index)
}

// Collection runs fn with the collection under the session lock. The
// collection must not escape fn.
func (s *Session) Collection(fn func(*DocumentCollection)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.collection)
}

// ReplaceCollection swaps in a collection rebuilt from the backend
// (edit mode).
func (s *Session) ReplaceCollection(c *DocumentCollection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collection = c
}

// SetPreviewURL records the presigned preview URL on a staged
// document. Documents handed to the session are only mutated through
// locked methods like this one, so snapshots never observe a
// half-written struct.
func (s *Session) SetPreviewURL(t domain.DocumentType, id uuid.UUID, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collection.SetPreviewURL(t, id, url)
}

// TrackPending records a reservation for a staged document.
func (s *Session) TrackPending(pu *domain.PendingUpload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[pu.DocumentID] = pu
}

// MarkPendingTransferred flips a reservation to transferred once its
// object is in storage. Unknown document ids are ignored.
func (s *Session) MarkPendingTransferred(documentID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pu, ok := s.pending[documentID]; ok {
		pu.State = domain.PendingTransferred
	}
}

// UntrackPending drops the reservation for a document, returning it if
// it existed.
func (s *Session) UntrackPending(documentID uuid.UUID) *domain.PendingUpload {
	s.mu.Lock()
	defer s.mu.Unlock()
	pu := s.pending[documentID]
	delete(s.pending, documentID)
	return pu
}

// PendingUploads returns a copy of the outstanding reservations.
func (s *Session) PendingUploads() []domain.PendingUpload {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.PendingUpload, 0, len(s.pending))
	for _, pu := range s.pending {
		out = append(out, *pu)
	}
	return out
}

// Draft returns a copy of the current draft.
func (s *Session) Draft() domain.FinancialRecordDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draft
	d.DocumentIDs = append([]uuid.UUID(nil), s.draft.DocumentIDs...)
	return d
}

// SetDraft replaces the draft wholesale (edit-mode rehydration).
func (s *Session) SetDraft(d domain.FinancialRecordDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = d
}

// MergeFields merges normalized extraction output into the draft.
// Overwrite is true when extraction for this document type has run
// before in this session: an explicit re-run replaces earlier values,
// a first run only fills blanks.
func (s *Session) MergeFields(t domain.DocumentType, fields *domain.FinancialFields) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Fields.Merge(fields, s.extracted[t])
	s.extracted[t] = true
}

// EditFields applies manual user edits to the draft; user input always
// wins.
func (s *Session) EditFields(fields *domain.FinancialFields, notes *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Fields.Merge(fields, true)
	if notes != nil {
		s.draft.Notes = *notes
	}
}

// ExtractionApplied reports whether extraction output has been merged
// for a document type in this session.
func (s *Session) ExtractionApplied(t domain.DocumentType) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.extracted[t]
}

// AppendDocumentID records a staged document id on the draft.
func (s *Session) AppendDocumentID(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.DocumentIDs = append(s.draft.DocumentIDs, id)
}

// markClosed flags the session so late callers get ErrSessionNotFound.
func (s *Session) markClosed() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Manager tracks open intake sessions in memory.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[uuid.UUID]*Session)}
}

// Open creates and registers a new session.
func (m *Manager) Open(subjectID uuid.UUID, subjectType domain.SubjectType, orgID, openedBy uuid.UUID) *Session {
	s := newSession(subjectID, subjectType, orgID, openedBy)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get looks up an open session.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

// Remove unregisters a session and marks it closed. The caller is
// responsible for releasing the session's storage objects first.
func (m *Manager) Remove(id uuid.UUID) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.markClosed()
	}
}
