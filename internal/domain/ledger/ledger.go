package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionCredit TransactionType = "CREDIT"
	TransactionDebit  TransactionType = "DEBIT"
)

// Entry is one dated movement in a borrower's transaction feed.
type Entry struct {
	BorrowerID string
	Date       time.Time
	Type       TransactionType
	Amount     decimal.Decimal
}

// Source streams the entries recorded for a borrower. Implementations call fn
// once per entry and stop at the first error fn returns.
type Source interface {
	ForEach(ctx context.Context, borrowerID string, fn func(Entry) error) error
}
