package dto

import (
	"loan-engine/internal/domain/borrower"
	"time"

	"github.com/shopspring/decimal"
)

type RegisterBorrowerRequest struct {
	AadharID     string          `json:"aadhar_id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	AnnualIncome decimal.Decimal `json:"annual_income" swaggertype:"number"`
}

func (r *RegisterBorrowerRequest) ToInput() borrower.RegisterInput {
	return borrower.RegisterInput{
		NationalID:   r.AadharID,
		Name:         r.Name,
		Email:        r.Email,
		AnnualIncome: r.AnnualIncome,
	}
}

type RegisterBorrowerResponse struct {
	UniqueUserID string `json:"unique_user_id"`
}

type BorrowerResponse struct {
	UniqueUserID string     `json:"unique_user_id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	AnnualIncome string     `json:"annual_income"`
	CreditScore  *int       `json:"credit_score"`
	ScoredAt     *time.Time `json:"scored_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewBorrowerResponse reports credit_score as null until the borrower has been scored.
func NewBorrowerResponse(b *borrower.Borrower) BorrowerResponse {
	resp := BorrowerResponse{
		UniqueUserID: b.ID,
		Name:         b.Name,
		Email:        b.Email,
		AnnualIncome: b.AnnualIncome.StringFixed(2),
		ScoredAt:     b.ScoredAt,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
	if b.IsScored() {
		score := b.CreditScore
		resp.CreditScore = &score
	}
	return resp
}
