package loan

import (
	"loan-engine/internal/domain/borrower"
	"loan-engine/internal/pkg/apperrors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	CodeBorrowerNotFound        = "BORROWER_NOT_FOUND"
	CodeInsufficientCreditScore = "INSUFFICIENT_CREDIT_SCORE"
	CodeIncomeBelowMinimum      = "INCOME_BELOW_MINIMUM"
	CodeAmountExceedsBounds     = "LOAN_AMOUNT_EXCEEDS_BOUNDS"
	CodeEMIExceedsIncomeLimit   = "EMI_EXCEEDS_INCOME_LIMIT"
	CodeInsufficientInterest    = "INSUFFICIENT_INTEREST"
)

var (
	ErrBorrowerNotFound = apperrors.NewRejection(apperrors.ErrNotFound,
		CodeBorrowerNotFound, "User not found")
	ErrInsufficientCreditScore = apperrors.NewRejection(apperrors.ErrEligibilityRejected,
		CodeInsufficientCreditScore, "Insufficient credit score")
	ErrIncomeBelowMinimum = apperrors.NewRejection(apperrors.ErrEligibilityRejected,
		CodeIncomeBelowMinimum, "Income below minimum requirement")
	ErrAmountExceedsBounds = apperrors.NewRejection(apperrors.ErrEligibilityRejected,
		CodeAmountExceedsBounds, "Loan amount exceeds bounds")
	ErrEMIExceedsIncomeLimit = apperrors.NewRejection(apperrors.ErrEligibilityRejected,
		CodeEMIExceedsIncomeLimit, "EMI exceeds 60% of monthly income")
	ErrInsufficientInterest = apperrors.NewRejection(apperrors.ErrEligibilityRejected,
		CodeInsufficientInterest, "Invalid interest rate or insufficient total interest")
)

const MinCreditScore = 450

var (
	minAnnualIncome   = decimal.NewFromInt(150_000)
	maxEMIIncomeShare = decimal.RequireFromString("0.6")
	minInterestRate   = decimal.NewFromInt(14)
	minTotalInterest  = decimal.NewFromInt(10_000)
	monthsPerYear     = decimal.NewFromInt(12)
)

var amountBoundsByType = map[LoanType]decimal.Decimal{
	TypeCar:       decimal.NewFromInt(750_000),
	TypeHome:      decimal.NewFromInt(8_500_000),
	TypeEducation: decimal.NewFromInt(5_000_000),
	TypePersonal:  decimal.NewFromInt(1_000_000),
}

// MaxAmount is the largest principal allowed for t; unknown types get zero.
func MaxAmount(t LoanType) decimal.Decimal {
	if bound, ok := amountBoundsByType[t]; ok {
		return bound
	}
	return decimal.Zero
}

// Request is an immutable loan application. Borrower is nil when the
// applicant could not be found.
type Request struct {
	Borrower         *borrower.Borrower
	Type             LoanType
	Amount           decimal.Decimal
	InterestRate     decimal.Decimal
	TermPeriod       int
	DisbursementDate time.Time
}

// Quote holds values derived from a Request and shared by the rules. Each
// value is computed on first use, so rules ahead of it never pay for it.
type Quote struct {
	req     Request
	emi     decimal.Decimal
	emiDone bool
}

func (q *Quote) EMI() decimal.Decimal {
	if !q.emiDone {
		q.emi = CalculateEMI(q.req.Amount, q.req.InterestRate, q.req.TermPeriod)
		q.emiDone = true
	}
	return q.emi
}

type Rule struct {
	Name  string
	Check func(req Request, q *Quote) error
}

// DefaultRules returns the gate in evaluation order. The first failing rule
// decides the rejection.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "borrower_exists", Check: borrowerExists},
		{Name: "credit_score", Check: creditScoreAtLeastMinimum},
		{Name: "annual_income", Check: incomeAtLeastMinimum},
		{Name: "amount_within_bounds", Check: amountWithinBounds},
		{Name: "emi_within_income", Check: emiWithinIncome},
		{Name: "interest_floor", Check: interestAboveFloor},
	}
}

type EligibilityEvaluator struct {
	rules []Rule
}

func NewEligibilityEvaluator(rules ...Rule) *EligibilityEvaluator {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &EligibilityEvaluator{rules: rules}
}

// Evaluate runs the rules in order and returns the quote on approval, or the
// first rejection together with the name of the rule that produced it.
func (e *EligibilityEvaluator) Evaluate(req Request) (*Quote, string, error) {
	q := &Quote{req: req}
	for _, r := range e.rules {
		if err := r.Check(req, q); err != nil {
			return q, r.Name, err
		}
	}
	return q, "", nil
}

func borrowerExists(req Request, _ *Quote) error {
	if req.Borrower == nil {
		return ErrBorrowerNotFound
	}
	return nil
}

func creditScoreAtLeastMinimum(req Request, _ *Quote) error {
	if req.Borrower.CreditScore < MinCreditScore {
		return ErrInsufficientCreditScore
	}
	return nil
}

func incomeAtLeastMinimum(req Request, _ *Quote) error {
	if req.Borrower.AnnualIncome.LessThan(minAnnualIncome) {
		return ErrIncomeBelowMinimum
	}
	return nil
}

func amountWithinBounds(req Request, _ *Quote) error {
	if req.Amount.GreaterThan(MaxAmount(req.Type)) {
		return ErrAmountExceedsBounds
	}
	return nil
}

func emiWithinIncome(req Request, q *Quote) error {
	limit := req.Borrower.AnnualIncome.Mul(maxEMIIncomeShare).Div(monthsPerYear)
	if q.EMI().GreaterThan(limit) {
		return ErrEMIExceedsIncomeLimit
	}
	return nil
}

func interestAboveFloor(req Request, q *Quote) error {
	if req.InterestRate.LessThan(minInterestRate) {
		return ErrInsufficientInterest
	}
	if TotalInterest(q.EMI(), req.Amount, req.TermPeriod).LessThan(minTotalInterest) {
		return ErrInsufficientInterest
	}
	return nil
}
