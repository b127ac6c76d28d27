package loan

import (
	"fmt"
	"loan-engine/internal/pkg/apperrors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	CodeLoanNotFound      = "LOAN_NOT_FOUND"
	CodeLoanAlreadyClosed = "LOAN_ALREADY_CLOSED"
	CodePreviousEMIsDue   = "PREVIOUS_EMIS_DUE"
	CodeDuplicatePayment  = "DUPLICATE_PAYMENT"
)

var (
	ErrLoanNotFound = apperrors.NewRejection(apperrors.ErrNotFound,
		CodeLoanNotFound, "Loan application not found")
	ErrLoanAlreadyClosed = apperrors.NewRejection(apperrors.ErrStateConflict,
		CodeLoanAlreadyClosed, "Loan is already closed")
	ErrDuplicatePayment = apperrors.NewRejection(apperrors.ErrStateConflict,
		CodeDuplicatePayment, "Payment for this date already exists.")
)

func previousEMIsDueError(due int) error {
	return apperrors.NewRejection(apperrors.ErrStateConflict,
		CodePreviousEMIsDue, fmt.Sprintf("%d previous EMIs are due", due)).
		WithDetail("due_emis", due)
}

// DueEMIs counts the calendar months between the period after the last paid
// installment and paymentDate. Exactly 1 means the payment covers the next
// installment.
func (l *Loan) DueEMIs(paymentDate time.Time) int {
	return monthIndex(paymentDate) - (monthIndex(l.DisbursementDate) + l.PaidEMIs)
}

// ApplyPayment validates a payment against the loan's state and, on success,
// advances the loan and returns the payment record to persist with it. The
// loan is left untouched when the payment is rejected.
func (l *Loan) ApplyPayment(amount decimal.Decimal, paymentDate time.Time) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, apperrors.NewValidationError("amount", "must be greater than zero")
	}
	if l.IsClosed() {
		return nil, ErrLoanAlreadyClosed
	}

	due := l.DueEMIs(paymentDate)
	if due > 1 {
		return nil, previousEMIsDueError(due)
	}
	if due <= 0 {
		return nil, ErrDuplicatePayment
	}

	interest := MonthlyInterest(l.OutstandingPrincipal, l.InterestRate)
	payment := &Payment{
		LoanID:          l.ID,
		PaymentDate:     dateOnly(paymentDate),
		PrincipalAmount: l.OutstandingPrincipal,
		Interest:        interest,
		AmountPaid:      amount,
		Status:          PaymentStatusPaid,
	}

	l.OutstandingPrincipal = l.OutstandingPrincipal.Sub(amount.Sub(interest)).Round(2)
	l.PaidEMIs++
	if l.PaidEMIs == l.TermPeriod {
		l.Status = StatusClosed
	}
	return payment, nil
}
