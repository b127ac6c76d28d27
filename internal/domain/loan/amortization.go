package loan

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

type ScheduleEntry struct {
	Installment int
	DueDate     time.Time
	AmountDue   decimal.Decimal
}

var twelveHundred = decimal.NewFromInt(1200)

// MonthlyInterest is outstanding * R/1200, rounded to 2 places.
func MonthlyInterest(outstanding, annualRate decimal.Decimal) decimal.Decimal {
	return outstanding.Mul(annualRate).Div(twelveHundred).Round(2)
}

// CalculateEMI returns the fixed monthly installment that repays principal over
// months at annualRate percent, rounded to 2 places. A zero rate splits the
// principal evenly. Only the growth factor (1+i)^N/((1+i)^N-1) is taken in
// float64; when it overflows the installment tends to principal*i.
func CalculateEMI(principal, annualRate decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 {
		return decimal.Zero
	}
	n := decimal.NewFromInt(int64(months))
	if annualRate.IsZero() {
		return principal.Div(n).Round(2)
	}

	i := annualRate.Div(twelveHundred)
	f := math.Pow(1+i.InexactFloat64(), float64(months))
	factor := f / (f - 1)
	switch {
	case math.IsInf(f, 1):
		factor = 1
	case math.IsNaN(factor) || math.IsInf(factor, 0):
		return principal.Div(n).Round(2)
	}
	return principal.Mul(i).Mul(decimal.NewFromFloat(factor)).Round(2)
}

// DueDate is the first day of the k-th calendar month after disbursement.
func DueDate(disbursement time.Time, k int) time.Time {
	y, m, _ := disbursement.Date()
	return time.Date(y, m+time.Month(k), 1, 0, 0, 0, 0, time.UTC)
}

func GenerateSchedule(emi decimal.Decimal, months int, disbursement time.Time) []ScheduleEntry {
	return scheduleFrom(emi, 1, months, disbursement)
}

func scheduleFrom(emi decimal.Decimal, first, last int, disbursement time.Time) []ScheduleEntry {
	if last < first {
		return []ScheduleEntry{}
	}
	schedule := make([]ScheduleEntry, 0, last-first+1)
	for k := first; k <= last; k++ {
		schedule = append(schedule, ScheduleEntry{
			Installment: k,
			DueDate:     DueDate(disbursement, k),
			AmountDue:   emi,
		})
	}
	return schedule
}

// TotalInterest is what the borrower pays over principal across the full term.
func TotalInterest(emi, principal decimal.Decimal, months int) decimal.Decimal {
	return emi.Mul(decimal.NewFromInt(int64(months))).Sub(principal)
}

func monthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month())
}
