package domain

// DocumentType identifies the kind of financial statement a staged
// document represents. It drives which normalizer and which extraction
// configuration is used.
type DocumentType string

const (
	DocTypeBalanceSheet          DocumentType = "balance_sheet"
	DocTypeIncomeStatement       DocumentType = "income_statement"
	DocTypeDebtServiceWorksheet  DocumentType = "debt_service_worksheet"
	DocTypePersonalFinancialStmt DocumentType = "personal_financial_statement"
)

// AllDocumentTypes lists every document type in tab order.
var AllDocumentTypes = []DocumentType{
	DocTypeBalanceSheet,
	DocTypeIncomeStatement,
	DocTypeDebtServiceWorksheet,
	DocTypePersonalFinancialStmt,
}

// Valid reports whether t is a known document type.
func (t DocumentType) Valid() bool {
	for _, dt := range AllDocumentTypes {
		if t == dt {
			return true
		}
	}
	return false
}

// ExtractionConfigurations maps document types to the extraction
// vendor's configuration name. Types without an entry (debt service
// worksheets) are stored but never sent for extraction.
var ExtractionConfigurations = map[DocumentType]string{
	DocTypeBalanceSheet:          "financial-balance-sheet",
	DocTypeIncomeStatement:       "financial-income-statement",
	DocTypePersonalFinancialStmt: "personal-financial-statement",
}

// Extractable reports whether documents of this type are sent to the
// extraction service after upload.
func (t DocumentType) Extractable() bool {
	_, ok := ExtractionConfigurations[t]
	return ok
}

// SubjectType distinguishes who a financial record belongs to.
type SubjectType string

const (
	SubjectBorrower  SubjectType = "borrower"
	SubjectGuarantor SubjectType = "guarantor"
)

// Valid reports whether s is a known subject type.
func (s SubjectType) Valid() bool {
	return s == SubjectBorrower || s == SubjectGuarantor
}

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// PendingState tracks the lifecycle of a reserved storage object.
type PendingState string

const (
	PendingReserved    PendingState = "reserved"
	PendingTransferred PendingState = "transferred"
	PendingResolved    PendingState = "resolved"
	PendingSwept       PendingState = "swept"
)

// CovenantStanding classifies a derived DSCR against the most
// restrictive covenant for the subject.
type CovenantStanding string

const (
	StandingMeeting CovenantStanding = "meeting"
	StandingBelow   CovenantStanding = "below"
	StandingUnknown CovenantStanding = "unknown"
)
