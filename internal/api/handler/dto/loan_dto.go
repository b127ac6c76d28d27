package dto

import (
	"loan-engine/internal/domain/loan"
	"loan-engine/internal/pkg/apperrors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ApplyLoanRequest struct {
	UniqueUserID     string          `json:"unique_user_id"`
	LoanType         string          `json:"loan_type"`
	LoanAmount       decimal.Decimal `json:"loan_amount" swaggertype:"number"`
	InterestRate     decimal.Decimal `json:"interest_rate" swaggertype:"number"`
	TermPeriod       int             `json:"term_period"`
	DisbursementDate string          `json:"disbursement_date"`
}

// ToInput parses the disbursement date; the remaining fields are checked by the loan service.
func (r *ApplyLoanRequest) ToInput() (loan.ApplyLoanInput, error) {
	disbursement, err := parseDate("disbursement_date", r.DisbursementDate)
	if err != nil {
		return loan.ApplyLoanInput{}, err
	}
	return loan.ApplyLoanInput{
		BorrowerID:       strings.TrimSpace(r.UniqueUserID),
		Type:             loan.LoanType(r.LoanType),
		Amount:           r.LoanAmount,
		InterestRate:     r.InterestRate,
		TermPeriod:       r.TermPeriod,
		DisbursementDate: disbursement,
	}, nil
}

type MakePaymentRequest struct {
	LoanID      string          `json:"loan_id"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"number"`
	PaymentDate string          `json:"payment_date"`
}

func (r *MakePaymentRequest) Validate() (time.Time, error) {
	if strings.TrimSpace(r.LoanID) == "" {
		return time.Time{}, apperrors.NewValidationError("loan_id", "cannot be empty")
	}
	if !r.Amount.IsPositive() {
		return time.Time{}, apperrors.NewValidationError("amount", "must be greater than zero")
	}
	return parseDate("payment_date", r.PaymentDate)
}

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, apperrors.NewValidationError(field, "is required")
	}
	t, err := loan.ParseDate(value)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(field, "must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

type DueDateResponse struct {
	Date      string `json:"date"`
	AmountDue string `json:"amount_due"`
}

type ApplyLoanResponse struct {
	LoanID   string            `json:"loan_id"`
	DueDates []DueDateResponse `json:"due_dates"`
}

func NewApplyLoanResponse(l *loan.Loan, schedule []loan.ScheduleEntry) ApplyLoanResponse {
	return ApplyLoanResponse{
		LoanID:   l.LoanID,
		DueDates: newDueDates(schedule),
	}
}

type PastTransactionResponse struct {
	Date       string `json:"date"`
	Principal  string `json:"principal"`
	Interest   string `json:"interest"`
	AmountPaid string `json:"amount_paid"`
}

type StatementResponse struct {
	LoanID               string                    `json:"loan_id"`
	PastTransactions     []PastTransactionResponse `json:"past_transactions"`
	UpcomingTransactions []DueDateResponse         `json:"upcoming_transactions"`
}

func NewStatementResponse(s *loan.Statement) StatementResponse {
	past := make([]PastTransactionResponse, len(s.Past))
	for i, p := range s.Past {
		past[i] = PastTransactionResponse{
			Date:       p.Date.Format(loan.DateLayout),
			Principal:  p.Principal.StringFixed(2),
			Interest:   p.Interest.StringFixed(2),
			AmountPaid: p.AmountPaid.StringFixed(2),
		}
	}
	return StatementResponse{
		LoanID:               s.LoanID,
		PastTransactions:     past,
		UpcomingTransactions: newDueDates(s.Upcoming),
	}
}

func newDueDates(schedule []loan.ScheduleEntry) []DueDateResponse {
	dates := make([]DueDateResponse, len(schedule))
	for i, e := range schedule {
		dates[i] = DueDateResponse{
			Date:      e.DueDate.Format(loan.DateLayout),
			AmountDue: e.AmountDue.StringFixed(2),
		}
	}
	return dates
}

type LoanResponse struct {
	LoanID               string    `json:"loan_id"`
	UniqueUserID         string    `json:"unique_user_id"`
	LoanType             string    `json:"loan_type"`
	LoanAmount           string    `json:"loan_amount"`
	OutstandingPrincipal string    `json:"outstanding_principal"`
	InterestRate         string    `json:"interest_rate"`
	TermPeriod           int       `json:"term_period"`
	DisbursementDate     string    `json:"disbursement_date"`
	EMIAmount            string    `json:"emi_amount"`
	PaidEMIs             int       `json:"paid_emis"`
	Status               string    `json:"status"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func NewLoanResponse(l *loan.Loan) LoanResponse {
	return LoanResponse{
		LoanID:               l.LoanID,
		UniqueUserID:         l.BorrowerID,
		LoanType:             string(l.Type),
		LoanAmount:           l.OriginalPrincipal.StringFixed(2),
		OutstandingPrincipal: l.OutstandingPrincipal.StringFixed(2),
		InterestRate:         l.InterestRate.String(),
		TermPeriod:           l.TermPeriod,
		DisbursementDate:     l.DisbursementDate.Format(loan.DateLayout),
		EMIAmount:            l.EMIAmount.StringFixed(2),
		PaidEMIs:             l.PaidEMIs,
		Status:               string(l.Status),
		CreatedAt:            l.CreatedAt,
		UpdatedAt:            l.UpdatedAt,
	}
}
