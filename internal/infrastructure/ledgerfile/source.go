package ledgerfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"loan-engine/internal/domain/ledger"
	"loan-engine/internal/pkg/apperrors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	columnUser   = "user"
	columnDate   = "date"
	columnType   = "transaction_type"
	columnAmount = "amount"

	dateLayout = "2006-01-02"
)

// Source reads the transaction feed from a CSV file with a header row. The
// transaction_type and amount columns are required. When a user column is
// present only that borrower's rows are yielded; otherwise every row is.
type Source struct {
	path   string
	logger *slog.Logger
}

var _ ledger.Source = (*Source)(nil)

func NewSource(path string, logger *slog.Logger) *Source {
	if logger == nil {
		panic("logger cannot be nil for ledgerfile.Source")
	}
	return &Source{
		path:   path,
		logger: logger.With("component", "LedgerFileSource"),
	}
}

func (s *Source) ForEach(ctx context.Context, borrowerID string, fn func(ledger.Entry) error) error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("%w: open ledger file %q: %w", apperrors.ErrSourceUnavailable, s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.ReuseRecord = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: read ledger header: %w", apperrors.ErrSourceUnavailable, err)
	}

	cols := indexColumns(header)
	typeIdx, okType := cols[columnType]
	amountIdx, okAmount := cols[columnAmount]
	if !okType || !okAmount {
		return fmt.Errorf("%w: ledger file %q is missing %s or %s column",
			apperrors.ErrSourceUnavailable, s.path, columnType, columnAmount)
	}
	userIdx, filterByUser := cols[columnUser]
	dateIdx, hasDate := cols[columnDate]

	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: read ledger file: %w", apperrors.ErrSourceUnavailable, err)
		}
		line++

		if filterByUser && strings.TrimSpace(record[userIdx]) != borrowerID {
			continue
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(record[amountIdx]))
		if err != nil {
			return fmt.Errorf("%w: malformed amount %q on line %d: %w",
				apperrors.ErrSourceUnavailable, record[amountIdx], line, err)
		}

		e := ledger.Entry{
			BorrowerID: borrowerID,
			Type:       ledger.TransactionType(strings.TrimSpace(record[typeIdx])),
			Amount:     amount,
		}
		if hasDate {
			if d, err := time.Parse(dateLayout, strings.TrimSpace(record[dateIdx])); err == nil {
				e.Date = d
			} else {
				s.logger.DebugContext(ctx, "Unparseable ledger date", "line", line, "value", record[dateIdx])
			}
		}

		if err := fn(e); err != nil {
			return err
		}
	}
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}
