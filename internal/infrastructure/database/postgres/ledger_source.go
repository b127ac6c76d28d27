package postgres

import (
	"context"
	"fmt"
	"loan-engine/internal/domain/ledger"
	"loan-engine/internal/pkg/apperrors"
	"log/slog"
	"time"
)

// LedgerSource reads transaction history from the ledger_transactions table.
type LedgerSource struct {
	db     DBPool
	logger *slog.Logger
}

var _ ledger.Source = (*LedgerSource)(nil)

func NewLedgerSource(db DBPool, logger *slog.Logger) *LedgerSource {
	if db == nil {
		panic("DBPool cannot be nil for LedgerSource")
	}
	return &LedgerSource{db: db, logger: logger.With("component", "LedgerSource")}
}

func (s *LedgerSource) ForEach(ctx context.Context, borrowerID string, fn func(ledger.Entry) error) error {
	query := `
        SELECT borrower_id, date, transaction_type, amount
        FROM ledger_transactions
        WHERE borrower_id = $1
        ORDER BY date, id`

	startTime := time.Now()
	rows, err := s.db.Query(ctx, query, borrowerID)
	if err != nil {
		observe("LedgerForEach", startTime, err)
		return fmt.Errorf("%w: query ledger: %w", apperrors.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	for rows.Next() {
		var e ledger.Entry
		if err := rows.Scan(&e.BorrowerID, &e.Date, &e.Type, &e.Amount); err != nil {
			observe("LedgerForEach", startTime, err)
			return fmt.Errorf("%w: scan ledger row: %w", apperrors.ErrSourceUnavailable, err)
		}
		if err := fn(e); err != nil {
			observe("LedgerForEach", startTime, nil)
			return err
		}
	}
	err = rows.Err()
	observe("LedgerForEach", startTime, err)
	if err != nil {
		return fmt.Errorf("%w: read ledger: %w", apperrors.ErrSourceUnavailable, err)
	}
	return nil
}
