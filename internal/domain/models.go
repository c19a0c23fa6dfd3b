package domain

import (
	"time"

	"github.com/google/uuid"
)

// StagedDocument is a file attached during an intake session. Until the
// parent financial record is submitted it is owned by the session; once
// submitted, ownership passes to the core-banking backend as an
// attachment. Documents loaded back from the backend carry Stored=true
// and have no local payload, only a durable URL.
type StagedDocument struct {
	ID            uuid.UUID    `db:"id" json:"id"`
	SessionID     uuid.UUID    `db:"session_id" json:"session_id"`
	SubjectID     uuid.UUID    `db:"subject_id" json:"subject_id"`
	DocumentType  DocumentType `db:"document_type" json:"document_type"`
	FileName      string       `db:"file_name" json:"file_name"`
	FileSize      int64        `db:"file_size" json:"file_size"`
	ContentType   string       `db:"content_type" json:"content_type"`
	StorageBucket string       `db:"storage_bucket" json:"-"`
	StorageKey    string       `db:"storage_key" json:"-"`
	PreviewURL    string       `db:"-" json:"preview_url,omitempty"`
	Stored        bool         `db:"stored" json:"stored"`
	UploadedBy    uuid.UUID    `db:"uploaded_by" json:"uploaded_by"`
	UploadedAt    time.Time    `db:"created_at" json:"uploaded_at"`
}

// PendingUpload correlates a staged document with a reserved storage
// object until the parent record is submitted or the session closes.
// Objects still pending when a session ends are deleted, best effort.
type PendingUpload struct {
	ID            uuid.UUID    `db:"id" json:"id"`
	SessionID     uuid.UUID    `db:"session_id" json:"session_id"`
	DocumentID    uuid.UUID    `db:"document_id" json:"document_id"`
	StorageBucket string       `db:"storage_bucket" json:"-"`
	StorageKey    string       `db:"storage_key" json:"-"`
	State         PendingState `db:"state" json:"state"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
}

// FinancialFields holds the normalized figure set of a financial
// statement. Values are kept as decimal strings until submission so
// that blank ("not provided") and zero stay distinguishable; Submit
// converts them to numbers.
type FinancialFields struct {
	GrossRevenue            string `json:"gross_revenue,omitempty"`
	NetIncome               string `json:"net_income,omitempty"`
	EBITDA                  string `json:"ebitda,omitempty"`
	ProfitMargin            string `json:"profit_margin,omitempty"`
	RentalExpenses          string `json:"rental_expenses,omitempty"`
	TotalCurrentAssets      string `json:"total_current_assets,omitempty"`
	TotalCurrentLiabilities string `json:"total_current_liabilities,omitempty"`
	Equity                  string `json:"equity,omitempty"`
	Cash                    string `json:"cash,omitempty"`
	AccountsReceivable      string `json:"accounts_receivable,omitempty"`
	AccountsPayable         string `json:"accounts_payable,omitempty"`
	Inventory               string `json:"inventory,omitempty"`
	TotalAssets             string `json:"total_assets,omitempty"`
	TotalLiabilities        string `json:"total_liabilities,omitempty"`
	NetWorth                string `json:"net_worth,omitempty"`
	Liquidity               string `json:"liquidity,omitempty"`
	AsOfDate                string `json:"as_of_date,omitempty"`
}

// IsEmpty reports whether no field carries a value.
func (f FinancialFields) IsEmpty() bool {
	return f == FinancialFields{}
}

// Merge copies every non-empty field of src into f. When overwrite is
// false, fields already set on f are left alone, so extraction output
// never clobbers figures the user typed in the same session. Overwrite
// is used when extraction is explicitly re-run for a document type.
func (f *FinancialFields) Merge(src *FinancialFields, overwrite bool) {
	if src == nil {
		return
	}
	fill(&f.GrossRevenue, src.GrossRevenue, overwrite)
	fill(&f.NetIncome, src.NetIncome, overwrite)
	fill(&f.EBITDA, src.EBITDA, overwrite)
	fill(&f.ProfitMargin, src.ProfitMargin, overwrite)
	fill(&f.RentalExpenses, src.RentalExpenses, overwrite)
	fill(&f.TotalCurrentAssets, src.TotalCurrentAssets, overwrite)
	fill(&f.TotalCurrentLiabilities, src.TotalCurrentLiabilities, overwrite)
	fill(&f.Equity, src.Equity, overwrite)
	fill(&f.Cash, src.Cash, overwrite)
	fill(&f.AccountsReceivable, src.AccountsReceivable, overwrite)
	fill(&f.AccountsPayable, src.AccountsPayable, overwrite)
	fill(&f.Inventory, src.Inventory, overwrite)
	fill(&f.TotalAssets, src.TotalAssets, overwrite)
	fill(&f.TotalLiabilities, src.TotalLiabilities, overwrite)
	fill(&f.NetWorth, src.NetWorth, overwrite)
	fill(&f.Liquidity, src.Liquidity, overwrite)
	fill(&f.AsOfDate, src.AsOfDate, overwrite)
}

func fill(dst *string, src string, overwrite bool) {
	if src == "" {
		return
	}
	if *dst == "" || overwrite {
		*dst = src
	}
}

// FinancialRecordDraft is the in-progress form for one intake session.
// It is mutated by user edits and by normalizer merges, and destroyed
// on session close or successful submit.
type FinancialRecordDraft struct {
	RecordID       *uuid.UUID      `json:"record_id,omitempty"` // set in edit mode
	SubjectID      uuid.UUID       `json:"subject_id"`
	SubjectType    SubjectType     `json:"subject_type"`
	OrganizationID uuid.UUID       `json:"organization_id"`
	Fields         FinancialFields `json:"fields"`
	Notes          string          `json:"notes,omitempty"`
	DocumentIDs    []uuid.UUID     `json:"document_ids,omitempty"`
}

// FinancialRecord is the persisted resource owned by the core-banking
// backend. Numeric fields are nil when the figure was not provided.
type FinancialRecord struct {
	ID                      uuid.UUID   `json:"id"`
	SubjectID               uuid.UUID   `json:"subject_id"`
	SubjectType             SubjectType `json:"subject_type"`
	OrganizationID          uuid.UUID   `json:"organization_id"`
	AsOfDate                string      `json:"as_of_date"`
	GrossRevenue            *float64    `json:"gross_revenue"`
	NetIncome               *float64    `json:"net_income"`
	EBITDA                  *float64    `json:"ebitda"`
	ProfitMargin            *float64    `json:"profit_margin"`
	RentalExpenses          *float64    `json:"rental_expenses"`
	TotalCurrentAssets      *float64    `json:"total_current_assets"`
	TotalCurrentLiabilities *float64    `json:"total_current_liabilities"`
	Equity                  *float64    `json:"equity"`
	Cash                    *float64    `json:"cash"`
	AccountsReceivable      *float64    `json:"accounts_receivable"`
	AccountsPayable         *float64    `json:"accounts_payable"`
	Inventory               *float64    `json:"inventory"`
	TotalAssets             *float64    `json:"total_assets"`
	TotalLiabilities        *float64    `json:"total_liabilities"`
	NetWorth                *float64    `json:"net_worth"`
	Liquidity               *float64    `json:"liquidity"`
	Notes                   string      `json:"notes"`
	DocumentIDs             []uuid.UUID `json:"document_ids"`
	CreatedAt               time.Time   `json:"created_at"`
	UpdatedAt               time.Time   `json:"updated_at"`
}

// Attachment is a document attached to a persisted financial record.
type Attachment struct {
	ID           uuid.UUID    `json:"id"`
	RecordID     uuid.UUID    `json:"record_id"`
	DocumentType DocumentType `json:"document_type"`
	FileName     string       `json:"file_name"`
	FileSize     int64        `json:"file_size"`
	ContentType  string       `json:"content_type"`
	StorageURL   string       `json:"storage_url"`
	UploadedBy   uuid.UUID    `json:"uploaded_by"`
	CreatedAt    time.Time    `json:"created_at"`
}

// DebtServiceRecord is the latest debt-service worksheet figures for a
// subject, as reported by the core-banking backend.
type DebtServiceRecord struct {
	ID                  uuid.UUID `json:"id"`
	SubjectID           uuid.UUID `json:"subject_id"`
	MonthlyTotalPayment *float64  `json:"monthly_total_payment"`
	AsOfDate            string    `json:"as_of_date"`
}

// LoanCovenant is a contractual minimum DSCR on one of the subject's
// loans.
type LoanCovenant struct {
	LoanID     uuid.UUID `json:"loan_id"`
	LoanNumber string    `json:"loan_number"`
	MinDSCR    *float64  `json:"min_dscr"`
}

// LoanRating is a server-side recalculated rating returned as a side
// effect of submitting a financial record.
type LoanRating struct {
	LoanID uuid.UUID `json:"loan_id"`
	Rating string    `json:"rating"`
}

// SubmitResult carries the persisted record plus any server-computed
// side effects for the caller to display.
type SubmitResult struct {
	Record              *FinancialRecord `json:"record"`
	RecalculatedRatings []LoanRating     `json:"recalculated_ratings,omitempty"`
}
