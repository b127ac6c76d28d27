package batch

import (
	"context"
	"fmt"
	"loan-engine/internal/domain/borrower"
	"log/slog"
	"time"
)

// UnscoredFinder lists borrowers whose credit score has never been written.
type UnscoredFinder interface {
	FindUnscored(ctx context.Context, limit int) ([]string, error)
}

// ScoreBackfillJob re-enqueues scoring for borrowers left without a score,
// either because the enqueue at registration failed or the task was dropped.
type ScoreBackfillJob struct {
	finder UnscoredFinder
	queue  borrower.ScoringQueue
	limit  int
	logger *slog.Logger
}

func NewScoreBackfillJob(finder UnscoredFinder, queue borrower.ScoringQueue, limit int, logger *slog.Logger) *ScoreBackfillJob {
	if finder == nil || queue == nil || logger == nil {
		panic("ScoreBackfillJob dependencies cannot be nil")
	}
	if limit <= 0 {
		limit = 500
	}
	return &ScoreBackfillJob{
		finder: finder,
		queue:  queue,
		limit:  limit,
		logger: logger.With("job", "ScoreBackfill"),
	}
}

func (j *ScoreBackfillJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting credit score backfill job.")

	ids, err := j.finder.FindUnscored(ctx, j.limit)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to list unscored borrowers, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to list unscored borrowers: %w", err)
	}
	j.logger.InfoContext(ctx, "Fetched unscored borrowers.", slog.Int("count", len(ids)))

	var enqueued, errorCount int
	for _, id := range ids {
		if ctx.Err() != nil {
			j.logger.WarnContext(ctx, "Job context done, stopping early.", slog.Any("error", ctx.Err()))
			break
		}
		if err := j.queue.EnqueueScoring(ctx, id); err != nil {
			j.logger.ErrorContext(ctx, "Failed to enqueue scoring", slog.String("borrower_id", id), slog.Any("error", err))
			errorCount++
			continue
		}
		enqueued++
	}

	summaryLog := j.logger.With(
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("unscored_borrowers", len(ids)),
		slog.Int("enqueued", enqueued),
		slog.Int("errors_encountered", errorCount),
	)
	if errorCount > 0 {
		summaryLog.WarnContext(ctx, "Credit score backfill job finished with errors.")
		return fmt.Errorf("job completed with %d errors", errorCount)
	}
	summaryLog.InfoContext(ctx, "Credit score backfill job finished successfully.")
	return ctx.Err()
}
