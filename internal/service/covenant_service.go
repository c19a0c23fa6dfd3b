package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"lenflow/internal/covenant"
	"lenflow/internal/domain"
	"lenflow/internal/port"
)

// CovenantService assembles the inputs for DSCR derivation from the
// core-banking backend and runs the pure computation.
type CovenantService interface {
	DeriveForSubject(ctx context.Context, subjectID uuid.UUID) (*covenant.Derivation, error)
}

type covenantService struct {
	records   port.FinancialRecordAPI
	debt      port.DebtServiceAPI
	covenants port.CovenantAPI
}

// NewCovenantService creates a new CovenantService implementation.
func NewCovenantService(
	records port.FinancialRecordAPI,
	debt port.DebtServiceAPI,
	covenants port.CovenantAPI,
) CovenantService {
	return &covenantService{
		records:   records,
		debt:      debt,
		covenants: covenants,
	}
}

// DeriveForSubject fetches the subject's latest financial record,
// debt-service figures, and loan covenants, then derives the DSCR. A
// subject with no history yet is not an error: missing inputs produce
// an undefined ratio, not a failure.
func (s *covenantService) DeriveForSubject(ctx context.Context, subjectID uuid.UUID) (*covenant.Derivation, error) {
	record, err := s.records.LatestBySubject(ctx, subjectID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		record = nil
	}

	debt, err := s.debt.LatestBySubject(ctx, subjectID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		debt = nil
	}

	covenants, err := s.covenants.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	d := covenant.Derive(record, debt, covenants)
	log.Printf("covenantService.DeriveForSubject: subject %s dscr=%s standing=%s",
		subjectID, d.DisplayDSCR(), d.Standing)
	return &d, nil
}
