package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lenflow/internal/domain"
	"lenflow/internal/service"
	"lenflow/mocks"
)

type covenantFixture struct {
	svc       service.CovenantService
	records   *mocks.MockFinancialRecordAPI
	debt      *mocks.MockDebtServiceAPI
	covenants *mocks.MockCovenantAPI
}

func newCovenantFixture(t *testing.T) *covenantFixture {
	t.Helper()
	f := &covenantFixture{
		records:   new(mocks.MockFinancialRecordAPI),
		debt:      new(mocks.MockDebtServiceAPI),
		covenants: new(mocks.MockCovenantAPI),
	}
	f.svc = service.NewCovenantService(f.records, f.debt, f.covenants)
	return f
}

func TestDeriveForSubject_AssemblesInputs(t *testing.T) {
	f := newCovenantFixture(t)
	subjectID := uuid.New()

	f.records.On("LatestBySubject", mock.Anything, subjectID).
		Return(&domain.FinancialRecord{EBITDA: f64(240000)}, nil)
	f.debt.On("LatestBySubject", mock.Anything, subjectID).
		Return(&domain.DebtServiceRecord{MonthlyTotalPayment: f64(10000)}, nil)
	f.covenants.On("ListBySubject", mock.Anything, subjectID).
		Return([]domain.LoanCovenant{{LoanNumber: "L-100", MinDSCR: f64(1.25)}}, nil)

	d, err := f.svc.DeriveForSubject(context.Background(), subjectID)
	require.NoError(t, err)
	require.NotNil(t, d.DSCR)
	assert.InDelta(t, 2.0, *d.DSCR, 1e-9)
	assert.Equal(t, domain.StandingMeeting, d.Standing)
}

func TestDeriveForSubject_NoHistoryIsNotAnError(t *testing.T) {
	f := newCovenantFixture(t)
	subjectID := uuid.New()

	f.records.On("LatestBySubject", mock.Anything, subjectID).Return(nil, domain.ErrNotFound)
	f.debt.On("LatestBySubject", mock.Anything, subjectID).Return(nil, domain.ErrNotFound)
	f.covenants.On("ListBySubject", mock.Anything, subjectID).Return([]domain.LoanCovenant{}, nil)

	d, err := f.svc.DeriveForSubject(context.Background(), subjectID)
	require.NoError(t, err)
	assert.Nil(t, d.DSCR)
	assert.Equal(t, domain.StandingUnknown, d.Standing)
	assert.Equal(t, "—", d.DisplayDSCR())
}

func TestDeriveForSubject_TransportErrorSurfaces(t *testing.T) {
	f := newCovenantFixture(t)
	subjectID := uuid.New()

	f.records.On("LatestBySubject", mock.Anything, subjectID).
		Return(nil, errors.New("core banking unreachable: connection refused"))

	_, err := f.svc.DeriveForSubject(context.Background(), subjectID)
	assert.Error(t, err)
	f.covenants.AssertNotCalled(t, "ListBySubject", mock.Anything, mock.Anything)
}
