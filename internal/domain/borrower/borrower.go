package borrower

import (
	"loan-engine/internal/pkg/apperrors"
	"net/mail"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const NationalIDLength = 12

// maxAnnualIncome is the first value a NUMERIC(14,2) column cannot hold.
var maxAnnualIncome = decimal.New(1, 12)

// Borrower is keyed by the 12-character national id. CreditScore is zero until
// the first scoring run completes, at which point ScoredAt is set.
type Borrower struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	AnnualIncome decimal.Decimal `json:"annual_income"`
	CreditScore  int             `json:"credit_score"`
	ScoredAt     *time.Time      `json:"scored_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (b *Borrower) IsScored() bool {
	return b.ScoredAt != nil
}

type RegisterInput struct {
	NationalID   string
	Name         string
	Email        string
	AnnualIncome decimal.Decimal
}

func NewBorrower(in RegisterInput) (*Borrower, error) {
	id := strings.TrimSpace(in.NationalID)
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)

	if len(id) != NationalIDLength {
		return nil, apperrors.NewValidationError("aadhar_id", "must be exactly 12 characters")
	}
	if name == "" {
		return nil, apperrors.NewValidationError("name", "cannot be empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.NewValidationError("email", "must be a valid email address")
	}
	if in.AnnualIncome.IsNegative() {
		return nil, apperrors.NewValidationError("annual_income", "cannot be negative")
	}
	if !in.AnnualIncome.Equal(in.AnnualIncome.Truncate(2)) {
		return nil, apperrors.NewValidationError("annual_income", "must have at most 2 decimal places")
	}
	if in.AnnualIncome.GreaterThanOrEqual(maxAnnualIncome) {
		return nil, apperrors.NewValidationError("annual_income", "must be less than "+maxAnnualIncome.String())
	}

	return &Borrower{
		ID:           id,
		Name:         name,
		Email:        email,
		AnnualIncome: in.AnnualIncome,
	}, nil
}
