package loan

import (
	"context"
	"errors"
	"fmt"
	"loan-engine/internal/domain/borrower"
	"loan-engine/internal/infrastructure/monitoring"
	"loan-engine/internal/pkg/apperrors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

type ApplyLoanInput struct {
	BorrowerID       string
	Type             LoanType
	Amount           decimal.Decimal
	InterestRate     decimal.Decimal
	TermPeriod       int
	DisbursementDate time.Time
}

type LoanService interface {
	ApplyLoan(ctx context.Context, in ApplyLoanInput) (*Loan, []ScheduleEntry, error)

	MakePayment(ctx context.Context, loanID string, amount decimal.Decimal, paymentDate time.Time) error

	GetStatement(ctx context.Context, loanID string) (*Statement, error)

	GetLoan(ctx context.Context, loanID string) (*Loan, error)
}

// BorrowerFinder is the slice of the borrower service loans depend on.
type BorrowerFinder interface {
	GetBorrower(ctx context.Context, id string) (*borrower.Borrower, error)
}

var _ LoanService = (*loanServiceImpl)(nil)

type loanServiceImpl struct {
	repo           Repository
	borrowers      BorrowerFinder
	evaluator      *EligibilityEvaluator
	paymentRetries int
	logger         *slog.Logger
}

func NewLoanService(r Repository, borrowers BorrowerFinder, paymentRetries int, logger *slog.Logger) LoanService {
	if r == nil {
		panic("loan repository cannot be nil")
	}
	if borrowers == nil {
		panic("borrower finder cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil for loan service")
	}
	if paymentRetries < 1 {
		paymentRetries = 1
	}
	return &loanServiceImpl{
		repo:           r,
		borrowers:      borrowers,
		evaluator:      NewEligibilityEvaluator(),
		paymentRetries: paymentRetries,
		logger:         logger.With("component", "loanService"),
	}
}

func (s *loanServiceImpl) ApplyLoan(ctx context.Context, in ApplyLoanInput) (*Loan, []ScheduleEntry, error) {
	if err := validateApplyLoanInput(in); err != nil {
		s.logger.WarnContext(ctx, "Loan application rejected by validation", "error", err)
		return nil, nil, err
	}
	logger := s.logger.With("borrower_id", in.BorrowerID, "loan_type", in.Type)

	b, err := s.borrowers.GetBorrower(ctx, in.BorrowerID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.ErrorContext(ctx, "Failed to look up borrower", "error", err)
		return nil, nil, fmt.Errorf("failed to look up borrower: %w", err)
	}

	req := Request{
		Borrower:         b,
		Type:             in.Type,
		Amount:           in.Amount,
		InterestRate:     in.InterestRate,
		TermPeriod:       in.TermPeriod,
		DisbursementDate: in.DisbursementDate,
	}
	quote, rule, err := s.evaluator.Evaluate(req)
	if err != nil {
		monitoring.RecordLoanApplication(apperrors.ReasonCode(err))
		logger.InfoContext(ctx, "Loan application rejected", "rule", rule, "reason", apperrors.ReasonCode(err))
		return nil, nil, err
	}

	created, err := s.repo.CreateLoan(ctx, newApprovedLoan(req, quote.EMI()))
	if err != nil {
		logger.ErrorContext(ctx, "Failed to save loan", "error", err)
		return nil, nil, fmt.Errorf("%w: failed to save loan: %v", apperrors.ErrInternalServer, err)
	}

	monitoring.RecordLoanApplication("approved")
	logger.InfoContext(ctx, "Loan approved",
		"loan_id", created.LoanID,
		"emi", quote.EMI().StringFixed(2),
		"term_period", created.TermPeriod,
	)
	return created, GenerateSchedule(created.EMIAmount, created.TermPeriod, created.DisbursementDate), nil
}

func validateApplyLoanInput(in ApplyLoanInput) error {
	switch {
	case in.BorrowerID == "":
		return apperrors.NewValidationError("unique_user_id", "cannot be empty")
	case !in.Amount.IsPositive():
		return apperrors.NewValidationError("loan_amount", "must be greater than zero")
	case in.InterestRate.IsNegative():
		return apperrors.NewValidationError("interest_rate", "cannot be negative")
	case in.TermPeriod <= 0:
		return apperrors.NewValidationError("term_period", "must be greater than zero")
	case in.DisbursementDate.IsZero():
		return apperrors.NewValidationError("disbursement_date", "is required")
	}
	if err := checkScale("loan_amount", in.Amount); err != nil {
		return err
	}
	if err := checkScale("interest_rate", in.InterestRate); err != nil {
		return err
	}
	return checkMagnitude("interest_rate", in.InterestRate, maxInterestRate)
}

func validatePaymentAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.NewValidationError("amount", "must be greater than zero")
	}
	if err := checkScale("amount", amount); err != nil {
		return err
	}
	return checkMagnitude("amount", amount, maxMoneyAmount)
}

// Limits of the NUMERIC(14,2) money and NUMERIC(5,2) rate columns.
const storedScale = 2

var (
	maxMoneyAmount  = decimal.New(1, 12)
	maxInterestRate = decimal.New(1, 3)
)

func checkScale(field string, v decimal.Decimal) error {
	if !v.Equal(v.Truncate(storedScale)) {
		return apperrors.NewValidationError(field, "must have at most 2 decimal places")
	}
	return nil
}

func checkMagnitude(field string, v, limit decimal.Decimal) error {
	if v.Abs().GreaterThanOrEqual(limit) {
		return apperrors.NewValidationError(field, "must be less than "+limit.String())
	}
	return nil
}

// MakePayment applies one payment under a row lock on the loan. Serialization
// failures and deadlocks restart the whole unit from a fresh read.
func (s *loanServiceImpl) MakePayment(ctx context.Context, loanID string, amount decimal.Decimal, paymentDate time.Time) error {
	logger := s.logger.With("loan_id", loanID)
	if err := validatePaymentAmount(amount); err != nil {
		monitoring.RecordPayment(paymentFailureStatus(err))
		logger.WarnContext(ctx, "Payment rejected by validation", "error", err)
		return err
	}
	logger.InfoContext(ctx, "Making payment", "amount", amount.StringFixed(2), "payment_date", paymentDate.Format(DateLayout))

	var err error
	for attempt := 1; attempt <= s.paymentRetries; attempt++ {
		err = s.applyPayment(ctx, loanID, amount, paymentDate)
		if !errors.Is(err, apperrors.ErrConflict) {
			break
		}
		logger.WarnContext(ctx, "Payment transaction conflicted, retrying", "attempt", attempt, "error", err)
	}

	status := "success"
	if err != nil {
		status = paymentFailureStatus(err)
	}
	monitoring.RecordPayment(status)

	if err != nil {
		logger.WarnContext(ctx, "Payment rejected", "status", status, "error", err)
		return err
	}
	logger.InfoContext(ctx, "Payment processed successfully")
	return nil
}

func paymentFailureStatus(err error) string {
	if code := apperrors.ReasonCode(err); code != "" && code != "DB_ERROR" {
		return code
	}
	if errors.Is(err, apperrors.ErrValidation) {
		return "failure_validation"
	}
	return "failure_internal"
}

func (s *loanServiceImpl) applyPayment(ctx context.Context, loanID string, amount decimal.Decimal, paymentDate time.Time) (err error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%w: could not begin transaction: %w", apperrors.ErrInternalServer, err)
	}

	defer func() {
		if p := recover(); p != nil {
			s.logger.ErrorContext(ctx, "Panic occurred during payment processing", "loan_id", loanID, "error", p)
			_ = s.repo.RollbackTx(ctx, tx)
			panic(p)
		} else if err != nil {
			_ = s.repo.RollbackTx(ctx, tx)
		}
	}()

	l, err := s.repo.GetLoanByLoanIDForUpdate(ctx, tx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrLoanNotFound
		}
		return fmt.Errorf("could not lock loan: %w", err)
	}

	payment, err := l.ApplyPayment(amount, paymentDate)
	if err != nil {
		return err
	}

	if err = s.repo.UpdateLoanInTx(ctx, tx, l); err != nil {
		return fmt.Errorf("could not update loan: %w", err)
	}
	if _, err = s.repo.InsertPaymentInTx(ctx, tx, payment); err != nil {
		return fmt.Errorf("could not record payment: %w", err)
	}
	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return fmt.Errorf("could not commit payment: %w", err)
	}

	if l.IsClosed() {
		s.logger.InfoContext(ctx, "Loan closed", "loan_id", loanID, "paid_emis", l.PaidEMIs)
	}
	return nil
}

func (s *loanServiceImpl) GetStatement(ctx context.Context, loanID string) (*Statement, error) {
	l, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if l.IsClosed() {
		s.logger.InfoContext(ctx, "Statement requested for closed loan", "loan_id", loanID)
		return nil, ErrLoanClosed
	}

	payments, err := s.repo.GetPaymentsByLoanID(ctx, l.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get payments", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf("%w: failed to get payments for loan %s: %v", apperrors.ErrInternalServer, loanID, err)
	}

	return BuildStatement(l, payments)
}

func (s *loanServiceImpl) GetLoan(ctx context.Context, loanID string) (*Loan, error) {
	l, err := s.repo.GetLoanByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Loan not found", "loan_id", loanID)
			return nil, ErrLoanNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to get loan", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf("%w: failed to get loan %s: %v", apperrors.ErrInternalServer, loanID, err)
	}
	return l, nil
}
