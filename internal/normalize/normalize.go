// Package normalize converts the extraction vendor's heterogeneous
// payloads into the canonical financial field set. Every normalizer is
// a pure function: same payload in, same fields out, and a payload with
// no recognizable signal yields nil rather than a struct of empty
// strings.
package normalize

import (
	"time"

	"lenflow/internal/domain"
	"lenflow/internal/extraction"
)

// Fields dispatches to the normalizer for the document type. The
// payload's kind tag must match the configuration the document was
// extracted with; a mismatched or unknown tag is an unrecognized
// payload, surfaced as an error instead of a silent partial result.
func Fields(t domain.DocumentType, p *extraction.Payload, now time.Time) (*domain.FinancialFields, error) {
	expected, ok := domain.ExtractionConfigurations[t]
	if !ok {
		return nil, domain.ErrInvalidDocumentType
	}
	if p == nil || (p.DocumentKind != "" && p.DocumentKind != expected) {
		return nil, domain.ErrUnrecognizedPayload
	}

	switch t {
	case domain.DocTypeIncomeStatement:
		return IncomeStatement(p, now), nil
	case domain.DocTypeBalanceSheet:
		return BalanceSheet(p), nil
	case domain.DocTypePersonalFinancialStmt:
		return PersonalFinancialStatement(p), nil
	}
	return nil, domain.ErrInvalidDocumentType
}
