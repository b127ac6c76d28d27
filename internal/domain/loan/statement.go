package loan

import (
	"loan-engine/internal/pkg/apperrors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const CodeLoanClosed = "LOAN_CLOSED"

var ErrLoanClosed = apperrors.NewRejection(apperrors.ErrStateConflict, CodeLoanClosed, "Loan is closed")

type PastTransaction struct {
	Date       time.Time
	Principal  decimal.Decimal
	Interest   decimal.Decimal
	AmountPaid decimal.Decimal
}

type Statement struct {
	LoanID   string
	Past     []PastTransaction
	Upcoming []ScheduleEntry
}

// BuildStatement projects recorded payments and the remaining installments of
// an open loan. The remaining EMI is recomputed from the current outstanding
// principal over the unpaid months, so it can drift from the loan's original
// EMI. It never mutates l or payments.
func BuildStatement(l *Loan, payments []Payment) (*Statement, error) {
	if l.IsClosed() {
		return nil, ErrLoanClosed
	}

	ordered := make([]Payment, len(payments))
	copy(ordered, payments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PaymentDate.Before(ordered[j].PaymentDate)
	})

	past := make([]PastTransaction, 0, len(ordered))
	for _, p := range ordered {
		past = append(past, PastTransaction{
			Date:       p.PaymentDate,
			Principal:  p.PrincipalAmount,
			Interest:   p.Interest,
			AmountPaid: p.AmountPaid,
		})
	}

	emi := CalculateEMI(l.OutstandingPrincipal, l.InterestRate, l.RemainingEMIs())
	if emi.IsNegative() {
		emi = decimal.Zero
	}

	return &Statement{
		LoanID:   l.LoanID,
		Past:     past,
		Upcoming: scheduleFrom(emi, l.PaidEMIs+1, l.TermPeriod, l.DisbursementDate),
	}, nil
}
