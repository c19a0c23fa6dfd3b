package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lenflow/internal/client/corebank"
	"lenflow/internal/domain"
	"lenflow/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var (
		reservation *domain.ReservationError
		transfer    *domain.TransferError
		extraction  *domain.ExtractionError
		persistence *domain.PersistenceError
	)

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "SESSION_NOT_FOUND", "intake session not found"
	case errors.Is(err, domain.ErrSessionBusy):
		return http.StatusConflict, "SESSION_BUSY", "another operation is in flight for this session"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, jpg, png"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrInvalidDocumentType):
		return http.StatusBadRequest, "INVALID_DOCUMENT_TYPE", "unknown document type"
	case errors.Is(err, domain.ErrUnrecognizedPayload):
		return http.StatusBadGateway, "UNRECOGNIZED_PAYLOAD", "extraction returned an unrecognized payload"
	case errors.As(err, &reservation):
		return http.StatusInternalServerError, "RESERVATION_FAILED", "could not reserve a storage path for the upload"
	case errors.As(err, &transfer):
		return http.StatusBadGateway, "TRANSFER_FAILED", "could not transfer the file to storage"
	case errors.As(err, &extraction):
		return http.StatusBadGateway, "EXTRACTION_FAILED", "document extraction failed; the upload was rolled back"
	case errors.As(err, &persistence):
		return persistenceStatus(err)
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// persistenceStatus distinguishes a core-banking rejection (the backend
// answered and said no) from an unreachable backend.
func persistenceStatus(err error) (int, string, string) {
	var apiErr *corebank.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		return status, "CORE_BANKING_REJECTED", apiErr.Message
	}
	return http.StatusBadGateway, "CORE_BANKING_UNREACHABLE", "core banking backend is unreachable; the draft is preserved"
}

// HandleError maps an error and sends the appropriate response. Field
// validation failures carry their field list so the UI can mark inputs.
func HandleError(c *gin.Context, err error) {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusUnprocessableEntity, APIResponse{
			Success: false,
			Error: &APIError{
				Code:    "VALIDATION_FAILED",
				Message: "draft failed validation",
				Fields:  validation.Fields,
			},
		})
		return
	}

	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}

// extractAuthContext extracts organization and user IDs from the
// request context. Returns false if auth context is missing (error
// response already written).
func extractAuthContext(c *gin.Context) (orgID, userID uuid.UUID, ok bool) {
	var err error
	orgID, err = middleware.GetOrganizationID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing organization context")
		return uuid.Nil, uuid.Nil, false
	}
	userID, err = middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return uuid.Nil, uuid.Nil, false
	}
	return orgID, userID, true
}

// parseIDParam parses a uuid path parameter, writing a 400 on failure.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
