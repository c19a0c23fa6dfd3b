package service

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"

	"lenflow/internal/export"
	"lenflow/internal/port"
)

const exportHistoryLimit = 24

// ExportService streams a subject's financial history workbook.
type ExportService interface {
	ExportFinancials(ctx context.Context, subjectID uuid.UUID, out io.Writer) error
}

type exportService struct {
	records   port.FinancialRecordAPI
	covenants CovenantService
}

// NewExportService creates a new ExportService implementation.
func NewExportService(records port.FinancialRecordAPI, covenants CovenantService) ExportService {
	return &exportService{records: records, covenants: covenants}
}

// ExportFinancials fetches up to two years of quarterly records plus
// the current DSCR derivation and writes the workbook to out.
func (s *exportService) ExportFinancials(ctx context.Context, subjectID uuid.UUID, out io.Writer) error {
	records, err := s.records.ListBySubject(ctx, subjectID, exportHistoryLimit)
	if err != nil {
		return fmt.Errorf("listing financial records: %w", err)
	}

	derivation, err := s.covenants.DeriveForSubject(ctx, subjectID)
	if err != nil {
		return fmt.Errorf("deriving coverage: %w", err)
	}

	wb, err := export.NewWorkbook()
	if err != nil {
		return err
	}
	if err := wb.WriteHistory(records); err != nil {
		return fmt.Errorf("writing history sheet: %w", err)
	}
	if err := wb.WriteCoverage(derivation); err != nil {
		return fmt.Errorf("writing coverage sheet: %w", err)
	}
	if err := wb.WriteTo(out); err != nil {
		return fmt.Errorf("serializing workbook: %w", err)
	}

	log.Printf("exportService.ExportFinancials: exported %d records for subject %s", len(records), subjectID)
	return nil
}
