package corebank_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lenflow/internal/client/corebank"
	"lenflow/internal/config"
	"lenflow/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*corebank.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := corebank.NewClientWithBaseURL(&config.CoreBankConfig{APIToken: "test-token"}, srv.URL)
	return c, srv
}

func TestRecords_CreateSendsBearerToken(t *testing.T) {
	var gotAuth, gotPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"record": map[string]interface{}{"id": uuid.New().String()},
			},
		})
	})

	result, err := c.Records().Create(context.Background(), &domain.FinancialRecord{})
	require.NoError(t, err)
	require.NotNil(t, result.Record)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "/v1/financial-records", gotPath)
}

func TestRecords_RejectionBecomesAPIError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   map[string]string{"code": "DUPLICATE_PERIOD", "message": "record for this period exists"},
		})
	})

	_, err := c.Records().Create(context.Background(), &domain.FinancialRecord{})
	require.Error(t, err)

	var apiErr *corebank.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "DUPLICATE_PERIOD", apiErr.Code)
}

func TestClient_UnreachableIsNotAPIError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on
	c := corebank.NewClientWithBaseURL(&config.CoreBankConfig{}, srv.URL)

	_, err := c.Records().Create(context.Background(), &domain.FinancialRecord{})
	require.Error(t, err)

	var apiErr *corebank.APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.Contains(t, err.Error(), "core banking unreachable")
}

func TestRecords_NotFoundMapsToSentinel(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   map[string]string{"code": "NOT_FOUND", "message": "no such record"},
		})
	})

	_, err := c.Records().GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = c.Records().LatestBySubject(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = c.DebtService().LatestBySubject(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCovenants_ListDecodesData(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": []map[string]interface{}{
				{"loan_number": "L-100", "min_dscr": 1.25},
				{"loan_number": "L-200"},
			},
		})
	})

	covenants, err := c.Covenants().ListBySubject(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, covenants, 2)
	require.NotNil(t, covenants[0].MinDSCR)
	assert.Equal(t, 1.25, *covenants[0].MinDSCR)
	assert.Nil(t, covenants[1].MinDSCR)
}
