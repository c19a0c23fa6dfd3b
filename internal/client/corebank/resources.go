package corebank

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"lenflow/internal/domain"
	"lenflow/internal/port"
)

// RecordsClient implements port.FinancialRecordAPI.
type RecordsClient struct {
	c *Client
}

// Records returns the financial-record resource client.
func (c *Client) Records() *RecordsClient {
	return &RecordsClient{c: c}
}

func (r *RecordsClient) Create(ctx context.Context, record *domain.FinancialRecord) (*domain.SubmitResult, error) {
	var result domain.SubmitResult
	if err := r.c.do(ctx, http.MethodPost, "/v1/financial-records", record, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *RecordsClient) Update(ctx context.Context, id uuid.UUID, record *domain.FinancialRecord) (*domain.SubmitResult, error) {
	var result domain.SubmitResult
	if err := r.c.do(ctx, http.MethodPut, "/v1/financial-records/"+id.String(), record, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *RecordsClient) GetByID(ctx context.Context, id uuid.UUID) (*domain.FinancialRecord, error) {
	var record domain.FinancialRecord
	if err := r.c.do(ctx, http.MethodGet, "/v1/financial-records/"+id.String(), nil, &record); err != nil {
		return nil, mapNotFound(err)
	}
	return &record, nil
}

func (r *RecordsClient) LatestBySubject(ctx context.Context, subjectID uuid.UUID) (*domain.FinancialRecord, error) {
	var record domain.FinancialRecord
	if err := r.c.do(ctx, http.MethodGet, "/v1/subjects/"+subjectID.String()+"/financial-records/latest", nil, &record); err != nil {
		return nil, mapNotFound(err)
	}
	return &record, nil
}

func (r *RecordsClient) ListBySubject(ctx context.Context, subjectID uuid.UUID, limit int) ([]domain.FinancialRecord, error) {
	var records []domain.FinancialRecord
	path := fmt.Sprintf("/v1/subjects/%s/financial-records?limit=%d", subjectID, limit)
	if err := r.c.do(ctx, http.MethodGet, path, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *RecordsClient) GetAttachments(ctx context.Context, recordID uuid.UUID) ([]domain.Attachment, error) {
	var attachments []domain.Attachment
	if err := r.c.do(ctx, http.MethodGet, "/v1/financial-records/"+recordID.String()+"/attachments", nil, &attachments); err != nil {
		return nil, mapNotFound(err)
	}
	return attachments, nil
}

func (r *RecordsClient) CreateAttachment(ctx context.Context, input port.CreateAttachmentInput) (*domain.Attachment, error) {
	body := map[string]interface{}{
		"document_type": input.DocumentType,
		"file_name":     input.FileName,
		"file_size":     input.FileSize,
		"content_type":  input.ContentType,
		"storage_url":   input.StorageURL,
		"uploaded_by":   input.UploadedBy,
	}
	var attachment domain.Attachment
	path := "/v1/financial-records/" + input.RecordID.String() + "/attachments"
	if err := r.c.do(ctx, http.MethodPost, path, body, &attachment); err != nil {
		return nil, err
	}
	return &attachment, nil
}

// DebtServiceClient implements port.DebtServiceAPI.
type DebtServiceClient struct {
	c *Client
}

// DebtService returns the debt-service resource client.
func (c *Client) DebtService() *DebtServiceClient {
	return &DebtServiceClient{c: c}
}

func (d *DebtServiceClient) LatestBySubject(ctx context.Context, subjectID uuid.UUID) (*domain.DebtServiceRecord, error) {
	var record domain.DebtServiceRecord
	if err := d.c.do(ctx, http.MethodGet, "/v1/subjects/"+subjectID.String()+"/debt-service/latest", nil, &record); err != nil {
		return nil, mapNotFound(err)
	}
	return &record, nil
}

// CovenantsClient implements port.CovenantAPI.
type CovenantsClient struct {
	c *Client
}

// Covenants returns the loan-covenant resource client.
func (c *Client) Covenants() *CovenantsClient {
	return &CovenantsClient{c: c}
}

func (l *CovenantsClient) ListBySubject(ctx context.Context, subjectID uuid.UUID) ([]domain.LoanCovenant, error) {
	var covenants []domain.LoanCovenant
	if err := l.c.do(ctx, http.MethodGet, "/v1/subjects/"+subjectID.String()+"/covenants", nil, &covenants); err != nil {
		return nil, err
	}
	return covenants, nil
}

// mapNotFound translates a backend 404 into the domain sentinel.
func mapNotFound(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return domain.ErrNotFound
	}
	return err
}
