package loan

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LoanType string

const (
	TypeCar       LoanType = "Car"
	TypeHome      LoanType = "Home"
	TypeEducation LoanType = "Education"
	TypePersonal  LoanType = "Personal"
)

type LoanStatus string

const (
	StatusPending  LoanStatus = "Pending"
	StatusApproved LoanStatus = "Approved"
	StatusClosed   LoanStatus = "Closed"
)

type PaymentStatus string

const PaymentStatusPaid PaymentStatus = "PAID"

const DateLayout = "2006-01-02"

// Loan is the aggregate a payment mutates. ID is the storage key; LoanID is
// the external handle and the only identifier exposed to clients.
type Loan struct {
	ID                   int64
	LoanID               string
	BorrowerID           string
	Type                 LoanType
	OriginalPrincipal    decimal.Decimal
	OutstandingPrincipal decimal.Decimal
	InterestRate         decimal.Decimal
	TermPeriod           int
	DisbursementDate     time.Time
	EMIAmount            decimal.Decimal
	Status               LoanStatus
	PaidEMIs             int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Payment is append-only. PrincipalAmount is the outstanding principal at
// the moment the payment was applied.
type Payment struct {
	ID              int64
	LoanID          int64
	PaymentDate     time.Time
	PrincipalAmount decimal.Decimal
	Interest        decimal.Decimal
	AmountPaid      decimal.Decimal
	Status          PaymentStatus
	CreatedAt       time.Time
}

func newApprovedLoan(req Request, emi decimal.Decimal) *Loan {
	return &Loan{
		LoanID:               uuid.NewString(),
		BorrowerID:           req.Borrower.ID,
		Type:                 req.Type,
		OriginalPrincipal:    req.Amount,
		OutstandingPrincipal: req.Amount,
		InterestRate:         req.InterestRate,
		TermPeriod:           req.TermPeriod,
		DisbursementDate:     dateOnly(req.DisbursementDate),
		EMIAmount:            emi,
		Status:               StatusApproved,
	}
}

func (l *Loan) IsClosed() bool {
	return l.Status == StatusClosed
}

func (l *Loan) RemainingEMIs() int {
	return l.TermPeriod - l.PaidEMIs
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
