package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"lenflow/internal/service"
)

// SubjectHandler handles subject-scoped read endpoints.
type SubjectHandler struct {
	covenants service.CovenantService
	exports   service.ExportService
}

// NewSubjectHandler creates a new SubjectHandler.
func NewSubjectHandler(covenants service.CovenantService, exports service.ExportService) *SubjectHandler {
	return &SubjectHandler{covenants: covenants, exports: exports}
}

// DSCR handles GET /api/v1/subjects/:id/dscr
func (h *SubjectHandler) DSCR(c *gin.Context) {
	subjectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	derivation, err := h.covenants.DeriveForSubject(c.Request.Context(), subjectID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, derivation)
}

// ExportFinancials handles GET /api/v1/subjects/:id/financials/export
func (h *SubjectHandler) ExportFinancials(c *gin.Context) {
	subjectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	filename := fmt.Sprintf("financials-%s.xlsx", subjectID)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := h.exports.ExportFinancials(c.Request.Context(), subjectID, c.Writer); err != nil {
		// Headers may already be out; log and drop the connection.
		HandleError(c, err)
		return
	}
}
