package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrSessionNotFound     = errors.New("intake session not found")
	ErrSessionBusy         = errors.New("intake session has an operation in flight")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrInvalidDocumentType = errors.New("unknown document type")
	ErrUnrecognizedPayload = errors.New("unrecognized extraction payload")
)

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError blocks submission until the user corrects the draft.
// It never reaches the network.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ReservationError means the storage path could not be reserved; the
// upload aborts before anything is written.
type ReservationError struct {
	Err error
}

func (e *ReservationError) Error() string { return fmt.Sprintf("reserving storage path: %v", e.Err) }
func (e *ReservationError) Unwrap() error { return e.Err }

// TransferError means the file could not be written to object storage;
// the upload aborts and nothing is left behind.
type TransferError struct {
	Key string
	Err error
}

func (e *TransferError) Error() string { return fmt.Sprintf("transferring %s: %v", e.Key, e.Err) }
func (e *TransferError) Unwrap() error { return e.Err }

// ExtractionError means the file reached storage but the extraction
// call or parse failed. The stored object has been deleted by the time
// this error surfaces, so the caller sees a clean slot.
type ExtractionError struct {
	DocumentType DocumentType
	Err          error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s: %v", e.DocumentType, e.Err)
}
func (e *ExtractionError) Unwrap() error { return e.Err }

// PersistenceError means the core-banking backend rejected or failed a
// create/update. The draft is preserved so the user can retry.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("persisting record: %v", e.Err) }
func (e *PersistenceError) Unwrap() error { return e.Err }
