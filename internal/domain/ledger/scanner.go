package ledger

import (
	"context"
	"errors"
	"fmt"
	"loan-engine/internal/pkg/apperrors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

type Scanner struct {
	source  Source
	timeout time.Duration
	logger  *slog.Logger
}

func NewScanner(source Source, timeout time.Duration, logger *slog.Logger) *Scanner {
	if source == nil {
		panic("ledger source cannot be nil for Scanner")
	}
	if logger == nil {
		panic("logger cannot be nil for Scanner")
	}
	return &Scanner{
		source:  source,
		timeout: timeout,
		logger:  logger.With("component", "LedgerScanner"),
	}
}

// NetBalance sums CREDIT amounts minus DEBIT amounts for the borrower. Other
// transaction types are skipped. Any failure to read the feed, including the
// scan running past its timeout, is reported as ErrSourceUnavailable.
func (s *Scanner) NetBalance(ctx context.Context, borrowerID string) (decimal.Decimal, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	balance := decimal.Zero
	var entries, skipped int

	err := s.source.ForEach(ctx, borrowerID, func(e Entry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		entries++
		switch e.Type {
		case TransactionCredit:
			balance = balance.Add(e.Amount)
		case TransactionDebit:
			balance = balance.Sub(e.Amount)
		default:
			skipped++
		}
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "Ledger scan failed", "borrower_id", borrowerID, "error", err)
		if errors.Is(err, apperrors.ErrSourceUnavailable) {
			return decimal.Zero, err
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return decimal.Zero, fmt.Errorf("%w: ledger scan timed out after %s", apperrors.ErrSourceUnavailable, s.timeout)
		}
		return decimal.Zero, fmt.Errorf("%w: %w", apperrors.ErrSourceUnavailable, err)
	}

	s.logger.DebugContext(ctx, "Ledger scanned",
		"borrower_id", borrowerID,
		"entries", entries,
		"skipped", skipped,
		"net_balance", balance.StringFixed(2),
	)
	return balance, nil
}
