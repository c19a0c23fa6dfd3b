package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lenflow/internal/domain"
	"lenflow/internal/service"
)

// SessionHandler handles the intake session endpoints.
type SessionHandler struct {
	intake  service.IntakeService
	records service.RecordService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(intake service.IntakeService, records service.RecordService) *SessionHandler {
	return &SessionHandler{intake: intake, records: records}
}

type openSessionRequest struct {
	SubjectID   uuid.UUID          `json:"subject_id" binding:"required"`
	SubjectType domain.SubjectType `json:"subject_type" binding:"required"`
}

// Open handles POST /api/v1/sessions
func (h *SessionHandler) Open(c *gin.Context) {
	orgID, userID, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req openSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	state, err := h.intake.OpenSession(c.Request.Context(), service.OpenSessionInput{
		SubjectID:      req.SubjectID,
		SubjectType:    req.SubjectType,
		OrganizationID: orgID,
		OpenedBy:       userID,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, state)
}

// Get handles GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	state, err := h.intake.GetSession(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, state)
}

// Close handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) Close(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.intake.CloseSession(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadDocument handles POST /api/v1/sessions/:id/documents
func (h *SessionHandler) UploadDocument(c *gin.Context) {
	_, userID, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	docType := domain.DocumentType(c.PostForm("document_type"))
	if !docType.Valid() {
		RespondError(c, http.StatusBadRequest, "INVALID_DOCUMENT_TYPE", "unknown document type")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	result, err := h.intake.UploadDocument(c.Request.Context(), service.UploadDocumentInput{
		SessionID:    id,
		DocumentType: docType,
		UploadedBy:   userID,
		File:         file,
		Header:       header,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, result)
}

// RemoveDocument handles DELETE /api/v1/sessions/:id/documents/:docID
func (h *SessionHandler) RemoveDocument(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	docID, ok := parseIDParam(c, "docID")
	if !ok {
		return
	}
	docType := domain.DocumentType(c.Query("document_type"))
	if !docType.Valid() {
		RespondError(c, http.StatusBadRequest, "INVALID_DOCUMENT_TYPE", "document_type query parameter is required")
		return
	}

	if err := h.intake.RemoveDocument(c.Request.Context(), id, docType, docID); err != nil {
		HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type switchActiveRequest struct {
	DocumentType domain.DocumentType `json:"document_type" binding:"required"`
	Index        int                 `json:"index"`
}

// SwitchActive handles PUT /api/v1/sessions/:id/active
func (h *SessionHandler) SwitchActive(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req switchActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := h.intake.SwitchActive(c.Request.Context(), id, req.DocumentType, req.Index); err != nil {
		HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type editDraftRequest struct {
	Fields *domain.FinancialFields `json:"fields"`
	Notes  *string                 `json:"notes"`
}

// EditDraft handles PATCH /api/v1/sessions/:id/draft
func (h *SessionHandler) EditDraft(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req editDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	state, err := h.intake.EditDraft(c.Request.Context(), id, req.Fields, req.Notes)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, state)
}

// Submit handles POST /api/v1/sessions/:id/submit
func (h *SessionHandler) Submit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	result, err := h.records.Submit(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// EnterEditMode handles POST /api/v1/records/:id/edit-session
func (h *SessionHandler) EnterEditMode(c *gin.Context) {
	orgID, userID, ok := extractAuthContext(c)
	if !ok {
		return
	}
	recordID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	state, err := h.records.EnterEditMode(c.Request.Context(), service.EnterEditModeInput{
		RecordID:       recordID,
		OrganizationID: orgID,
		OpenedBy:       userID,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, state)
}
