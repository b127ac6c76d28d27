package borrower

import (
	"context"
	"errors"
	"fmt"
	"loan-engine/internal/infrastructure/monitoring"
	"loan-engine/internal/pkg/apperrors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

// BalanceScanner reduces a borrower's ledger to a signed net balance.
type BalanceScanner interface {
	NetBalance(ctx context.Context, borrowerID string) (decimal.Decimal, error)
}

type Scorer interface {
	ScoreBorrower(ctx context.Context, borrowerID string) (int, error)
}

var _ Scorer = (*creditScorer)(nil)

type creditScorer struct {
	scanner BalanceScanner
	repo    Repository
	logger  *slog.Logger
	now     func() time.Time
}

func NewScorer(scanner BalanceScanner, repo Repository, logger *slog.Logger) Scorer {
	if scanner == nil {
		panic("balance scanner cannot be nil for Scorer")
	}
	if repo == nil {
		panic("borrower repository cannot be nil for Scorer")
	}
	if logger == nil {
		panic("logger cannot be nil for Scorer")
	}
	return &creditScorer{
		scanner: scanner,
		repo:    repo,
		logger:  logger.With("component", "CreditScorer"),
		now:     time.Now,
	}
}

// ScoreBorrower scans the borrower's ledger and writes the derived score in a
// single update. When the ledger is unavailable nothing is written and the
// ErrSourceUnavailable error is returned for the caller to log and drop.
func (s *creditScorer) ScoreBorrower(ctx context.Context, borrowerID string) (int, error) {
	logger := s.logger.With("borrower_id", borrowerID)

	if _, err := s.repo.FindByID(ctx, borrowerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.WarnContext(ctx, "Borrower not found, skipping scoring")
			monitoring.RecordScoringTask("borrower_not_found")
			return 0, err
		}
		logger.ErrorContext(ctx, "Failed to load borrower for scoring", "error", err)
		monitoring.RecordScoringTask("failure_internal")
		return 0, fmt.Errorf("failed to load borrower %s: %w", borrowerID, err)
	}

	balance, err := s.scanner.NetBalance(ctx, borrowerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrSourceUnavailable) {
			logger.WarnContext(ctx, "Ledger unavailable, credit score left unset", "error", err)
			monitoring.RecordScoringTask("source_unavailable")
			return 0, err
		}
		logger.ErrorContext(ctx, "Ledger scan failed", "error", err)
		monitoring.RecordScoringTask("failure_internal")
		return 0, err
	}

	score := ScoreFromBalance(balance)
	if err := s.repo.UpdateCreditScore(ctx, borrowerID, score, s.now().UTC()); err != nil {
		logger.ErrorContext(ctx, "Failed to persist credit score", "score", score, "error", err)
		monitoring.RecordScoringTask("failure_internal")
		return 0, fmt.Errorf("failed to persist credit score for %s: %w", borrowerID, err)
	}

	monitoring.RecordScoringTask("success")
	monitoring.RecordCreditScore(score)
	logger.InfoContext(ctx, "Credit score updated", "score", score, "net_balance", balance.StringFixed(2))
	return score, nil
}
