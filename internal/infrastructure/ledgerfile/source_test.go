package ledgerfile

import (
	"bytes"
	"context"
	"errors"
	"loan-engine/internal/domain/ledger"
	"loan-engine/internal/pkg/apperrors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLedger(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transactions.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func collect(t *testing.T, src *Source, borrowerID string) ([]ledger.Entry, error) {
	t.Helper()
	var out []ledger.Entry
	err := src.ForEach(context.Background(), borrowerID, func(e ledger.Entry) error {
		out = append(out, e)
		return nil
	})
	return out, err
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestSource_ForEach(t *testing.T) {
	t.Run("filters rows by user column", func(t *testing.T) {
		path := writeLedger(t, "user,date,transaction_type,amount\n"+
			"123456789012,2024-01-05,CREDIT,5000.50\n"+
			"999999999999,2024-01-06,CREDIT,700\n"+
			"123456789012,2024-02-01,DEBIT,1200\n")

		entries, err := collect(t, NewSource(path, newTestLogger()), "123456789012")
		require.NoError(t, err)
		require.Len(t, entries, 2)

		assert.Equal(t, ledger.TransactionCredit, entries[0].Type)
		assert.True(t, entries[0].Amount.Equal(decimal.RequireFromString("5000.50")))
		assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), entries[0].Date)
		assert.Equal(t, ledger.TransactionDebit, entries[1].Type)
	})

	t.Run("file without user column belongs to the scanned borrower", func(t *testing.T) {
		path := writeLedger(t, "transaction_type,amount\nCREDIT,100\nDEBIT,40\n")

		entries, err := collect(t, NewSource(path, newTestLogger()), "123456789012")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "123456789012", entries[1].BorrowerID)
	})

	t.Run("header only yields nothing", func(t *testing.T) {
		path := writeLedger(t, "user,date,transaction_type,amount\n")

		entries, err := collect(t, NewSource(path, newTestLogger()), "123456789012")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("missing file is unavailable", func(t *testing.T) {
		src := NewSource(filepath.Join(t.TempDir(), "absent.csv"), newTestLogger())

		_, err := collect(t, src, "123456789012")
		assert.ErrorIs(t, err, apperrors.ErrSourceUnavailable)
	})

	t.Run("missing amount column is unavailable", func(t *testing.T) {
		path := writeLedger(t, "user,transaction_type\n123456789012,CREDIT\n")

		_, err := collect(t, NewSource(path, newTestLogger()), "123456789012")
		assert.ErrorIs(t, err, apperrors.ErrSourceUnavailable)
	})

	t.Run("malformed amount is unavailable", func(t *testing.T) {
		path := writeLedger(t, "transaction_type,amount\nCREDIT,12x\n")

		_, err := collect(t, NewSource(path, newTestLogger()), "123456789012")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrSourceUnavailable)
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("callback error stops the scan", func(t *testing.T) {
		path := writeLedger(t, "transaction_type,amount\nCREDIT,1\nCREDIT,2\n")
		stop := errors.New("stop")

		calls := 0
		err := NewSource(path, newTestLogger()).ForEach(context.Background(), "123456789012", func(ledger.Entry) error {
			calls++
			return stop
		})
		assert.ErrorIs(t, err, stop)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancelled context stops the scan", func(t *testing.T) {
		path := writeLedger(t, "transaction_type,amount\nCREDIT,1\n")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := NewSource(path, newTestLogger()).ForEach(ctx, "123456789012", func(ledger.Entry) error { return nil })
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSource_WithScanner(t *testing.T) {
	path := writeLedger(t, "user,date,transaction_type,amount\n"+
		"123456789012,2024-01-05,CREDIT,400000\n"+
		"123456789012,2024-01-09,DEBIT,150000\n"+
		"123456789012,2024-01-10,TRANSFER,99999\n")

	scanner := ledger.NewScanner(NewSource(path, newTestLogger()), time.Second, newTestLogger())
	balance, err := scanner.NetBalance(context.Background(), "123456789012")
	require.NoError(t, err)
	assert.Equal(t, "250000.00", balance.StringFixed(2))
}
