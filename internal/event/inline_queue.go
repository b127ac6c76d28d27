package event

import (
	"context"
	"fmt"
	"loan-engine/internal/domain/borrower"
	"loan-engine/internal/pkg/apperrors"
	"log/slog"
	"sync"
)

var _ borrower.ScoringQueue = (*InlineQueue)(nil)

// InlineQueue is an in-process ScoringQueue backed by a bounded channel and a
// fixed pool of workers. Tasks still pending at Stop are discarded.
type InlineQueue struct {
	scorer  borrower.Scorer
	tasks   chan string
	workers int
	logger  *slog.Logger
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

func NewInlineQueue(scorer borrower.Scorer, workers, capacity int, logger *slog.Logger) *InlineQueue {
	if scorer == nil {
		panic("scorer cannot be nil for InlineQueue")
	}
	if logger == nil {
		panic("logger cannot be nil for InlineQueue")
	}
	if workers <= 0 {
		workers = 1
	}
	if capacity <= 0 {
		capacity = workers * 64
	}
	return &InlineQueue{
		scorer:  scorer,
		tasks:   make(chan string, capacity),
		workers: workers,
		logger:  logger.With("component", "InlineQueue"),
	}
}

// EnqueueScoring never blocks the caller; a full queue is reported as an error.
func (q *InlineQueue) EnqueueScoring(ctx context.Context, borrowerID string) error {
	select {
	case q.tasks <- borrowerID:
		return nil
	default:
		return fmt.Errorf("%w: scoring queue is full", apperrors.ErrInternalServer)
	}
}

func (q *InlineQueue) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	q.cancel = cancel

	q.logger.Info("Starting scoring workers", "workers", q.workers)
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go func(id int) {
			defer q.wg.Done()
			q.work(workerCtx, id)
		}(i)
	}
}

func (q *InlineQueue) work(ctx context.Context, id int) {
	logger := q.logger.With("worker", id)
	for {
		select {
		case <-ctx.Done():
			return
		case borrowerID := <-q.tasks:
			q.score(ctx, logger, borrowerID)
		}
	}
}

func (q *InlineQueue) score(ctx context.Context, logger *slog.Logger, borrowerID string) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "Panic while scoring borrower", "borrower_id", borrowerID, "panic", r)
		}
	}()
	if _, err := q.scorer.ScoreBorrower(ctx, borrowerID); err != nil {
		logger.WarnContext(ctx, "Scoring task finished without a score", "borrower_id", borrowerID, "error", err)
	}
}

func (q *InlineQueue) Stop() {
	if q.cancel == nil {
		return
	}
	q.logger.Info("Stopping scoring workers...")
	q.cancel()
	q.wg.Wait()
	q.logger.Info("Scoring workers stopped.")
}
