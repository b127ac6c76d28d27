package borrower

import "github.com/shopspring/decimal"

const (
	MinCreditScore = 300
	MaxCreditScore = 900
)

var (
	topBalance     = decimal.NewFromInt(1_000_000)
	floorBalance   = decimal.NewFromInt(100_000)
	balancePerBand = decimal.NewFromInt(15_000)
	pointsPerBand  = decimal.NewFromInt(10)
)

// ScoreFromBalance maps a net ledger balance onto [300, 900]: 10 points per
// 15,000 above 100,000, truncated to a whole score.
func ScoreFromBalance(balance decimal.Decimal) int {
	if balance.GreaterThanOrEqual(topBalance) {
		return MaxCreditScore
	}
	if balance.LessThanOrEqual(floorBalance) {
		return MinCreditScore
	}

	score := balance.Sub(floorBalance).
		Div(balancePerBand).
		Mul(pointsPerBand).
		Add(decimal.NewFromInt(MinCreditScore))

	s := int(score.IntPart())
	if s < MinCreditScore {
		return MinCreditScore
	}
	if s > MaxCreditScore {
		return MaxCreditScore
	}
	return s
}
