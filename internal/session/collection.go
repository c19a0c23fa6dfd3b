package session

import (
	"github.com/google/uuid"

	"lenflow/internal/domain"
)

// DocumentCollection holds the staged documents of one intake session,
// grouped by document type, each group with its own ordered list and
// active index. The backing maps are never handed out; all mutation
// goes through the accessors so the index invariant holds:
// 0 <= activeIndex < len(docs) whenever a group is non-empty.
type DocumentCollection struct {
	groups map[domain.DocumentType]*typeGroup
}

type typeGroup struct {
	docs        []*domain.StagedDocument
	activeIndex int
}

// TypeState is the read-only snapshot of one document-type group.
type TypeState struct {
	Documents   []domain.StagedDocument `json:"documents"`
	ActiveIndex int                     `json:"active_index"`
}

// NewDocumentCollection creates an empty collection covering every
// document type.
func NewDocumentCollection() *DocumentCollection {
	groups := make(map[domain.DocumentType]*typeGroup, len(domain.AllDocumentTypes))
	for _, t := range domain.AllDocumentTypes {
		groups[t] = &typeGroup{}
	}
	return &DocumentCollection{groups: groups}
}

// Add appends doc to its type group and makes it the active document.
// Newest-uploaded-is-active.
func (c *DocumentCollection) Add(doc *domain.StagedDocument) {
	g := c.groups[doc.DocumentType]
	if g == nil {
		g = &typeGroup{}
		c.groups[doc.DocumentType] = g
	}
	g.docs = append(g.docs, doc)
	g.activeIndex = len(g.docs) - 1
}

// Remove deletes the document with the given id from the type group and
// re-clamps the active index. When the group empties, no document is
// active for that type; the selection does not jump to another type.
// Returns the removed document, or nil if the id is not present.
func (c *DocumentCollection) Remove(t domain.DocumentType, id uuid.UUID) *domain.StagedDocument {
	g := c.groups[t]
	if g == nil {
		return nil
	}
	for i, d := range g.docs {
		if d.ID != id {
			continue
		}
		g.docs = append(g.docs[:i], g.docs[i+1:]...)
		if g.activeIndex > len(g.docs)-1 {
			g.activeIndex = len(g.docs) - 1
		}
		if g.activeIndex < 0 {
			g.activeIndex = 0
		}
		return d
	}
	return nil
}

// SwitchActive sets the active index for a type. Out-of-range requests
// are ignored: the UI may race a removal, and losing that race is not
// an error.
func (c *DocumentCollection) SwitchActive(t domain.DocumentType, index int) {
	g := c.groups[t]
	if g == nil || index < 0 || index >= len(g.docs) {
		return
	}
	g.activeIndex = index
}

// Active returns the active document for a type, or nil when the group
// is empty.
func (c *DocumentCollection) Active(t domain.DocumentType) *domain.StagedDocument {
	g := c.groups[t]
	if g == nil || len(g.docs) == 0 {
		return nil
	}
	return g.docs[g.activeIndex]
}

// ActiveIndex returns the active index for a type, or -1 when the
// group is empty.
func (c *DocumentCollection) ActiveIndex(t domain.DocumentType) int {
	g := c.groups[t]
	if g == nil || len(g.docs) == 0 {
		return -1
	}
	return g.activeIndex
}

// Documents returns a copy of the ordered documents for a type.
func (c *DocumentCollection) Documents(t domain.DocumentType) []domain.StagedDocument {
	g := c.groups[t]
	if g == nil {
		return nil
	}
	out := make([]domain.StagedDocument, len(g.docs))
	for i, d := range g.docs {
		out[i] = *d
	}
	return out
}

// SetPreviewURL sets the presigned preview URL on the document with
// the given id. Unknown ids are ignored.
func (c *DocumentCollection) SetPreviewURL(t domain.DocumentType, id uuid.UUID, url string) {
	g := c.groups[t]
	if g == nil {
		return
	}
	for _, d := range g.docs {
		if d.ID == id {
			d.PreviewURL = url
			return
		}
	}
}

// Len returns the number of documents staged for a type.
func (c *DocumentCollection) Len(t domain.DocumentType) int {
	g := c.groups[t]
	if g == nil {
		return 0
	}
	return len(g.docs)
}

// LocalDocuments returns the documents that still carry a locally
// uploaded payload (not loaded from the backend). These are the ones
// flushed as attachments after a successful submit.
func (c *DocumentCollection) LocalDocuments() []*domain.StagedDocument {
	var out []*domain.StagedDocument
	for _, t := range domain.AllDocumentTypes {
		g := c.groups[t]
		if g == nil {
			continue
		}
		for _, d := range g.docs {
			if !d.Stored {
				out = append(out, d)
			}
		}
	}
	return out
}

// FirstNonEmptyType returns the first document type (in tab order) with
// at least one staged document. ok is false when the collection is
// entirely empty.
func (c *DocumentCollection) FirstNonEmptyType() (t domain.DocumentType, ok bool) {
	for _, dt := range domain.AllDocumentTypes {
		if c.Len(dt) > 0 {
			return dt, true
		}
	}
	return "", false
}

// Snapshot returns a serializable view of every type group.
func (c *DocumentCollection) Snapshot() map[domain.DocumentType]TypeState {
	out := make(map[domain.DocumentType]TypeState, len(c.groups))
	for _, t := range domain.AllDocumentTypes {
		out[t] = TypeState{
			Documents:   c.Documents(t),
			ActiveIndex: c.ActiveIndex(t),
		}
	}
	return out
}
