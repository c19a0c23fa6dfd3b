package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lenflow/internal/domain"
)

func draftFields() domain.FinancialRecordDraft {
	return domain.FinancialRecordDraft{Fields: domain.FinancialFields{Cash: "100"}}
}

func TestFinancialFields_IsEmpty(t *testing.T) {
	// Callable on an rvalue, not only through an addressable variable.
	assert.True(t, domain.FinancialFields{}.IsEmpty())
	assert.False(t, draftFields().Fields.IsEmpty())
}
