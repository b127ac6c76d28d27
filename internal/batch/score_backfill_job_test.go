package batch_test

import (
	"context"
	"errors"
	"io"
	"loan-engine/internal/batch"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUnscoredFinder struct {
	mock.Mock
}

func (m *MockUnscoredFinder) FindUnscored(ctx context.Context, limit int) ([]string, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockScoringQueue struct {
	mock.Mock
}

func (m *MockScoringQueue) EnqueueScoring(ctx context.Context, borrowerID string) error {
	args := m.Called(ctx, borrowerID)
	return args.Error(0)
}

func TestScoreBackfillJobRun(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	t.Run("enqueues every unscored borrower", func(t *testing.T) {
		finder := new(MockUnscoredFinder)
		queue := new(MockScoringQueue)
		finder.On("FindUnscored", ctx, 100).Return([]string{"111111111111", "222222222222"}, nil).Once()
		queue.On("EnqueueScoring", ctx, "111111111111").Return(nil).Once()
		queue.On("EnqueueScoring", ctx, "222222222222").Return(nil).Once()

		err := batch.NewScoreBackfillJob(finder, queue, 100, logger).Run(ctx)

		assert.NoError(t, err)
		finder.AssertExpectations(t)
		queue.AssertExpectations(t)
	})

	t.Run("handles repository error", func(t *testing.T) {
		finder := new(MockUnscoredFinder)
		queue := new(MockScoringQueue)
		finder.On("FindUnscored", ctx, 500).Return(nil, errors.New("db error")).Once()

		err := batch.NewScoreBackfillJob(finder, queue, 0, logger).Run(ctx)

		assert.ErrorContains(t, err, "failed to list unscored borrowers")
		queue.AssertNotCalled(t, "EnqueueScoring", mock.Anything, mock.Anything)
	})

	t.Run("continues past enqueue errors and reports them", func(t *testing.T) {
		finder := new(MockUnscoredFinder)
		queue := new(MockScoringQueue)
		finder.On("FindUnscored", ctx, 10).Return([]string{"111111111111", "222222222222"}, nil).Once()
		queue.On("EnqueueScoring", ctx, "111111111111").Return(errors.New("broker down")).Once()
		queue.On("EnqueueScoring", ctx, "222222222222").Return(nil).Once()

		err := batch.NewScoreBackfillJob(finder, queue, 10, logger).Run(ctx)

		assert.EqualError(t, err, "job completed with 1 errors")
		queue.AssertExpectations(t)
	})

	t.Run("handles no unscored borrowers", func(t *testing.T) {
		finder := new(MockUnscoredFinder)
		queue := new(MockScoringQueue)
		finder.On("FindUnscored", ctx, 10).Return([]string{}, nil).Once()

		assert.NoError(t, batch.NewScoreBackfillJob(finder, queue, 10, logger).Run(ctx))
		queue.AssertNotCalled(t, "EnqueueScoring", mock.Anything, mock.Anything)
	})

	t.Run("stops when context is cancelled", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		finder := new(MockUnscoredFinder)
		queue := new(MockScoringQueue)
		finder.On("FindUnscored", cancelled, 10).Return([]string{"111111111111"}, nil).Once()

		err := batch.NewScoreBackfillJob(finder, queue, 10, logger).Run(cancelled)

		assert.ErrorIs(t, err, context.Canceled)
		queue.AssertNotCalled(t, "EnqueueScoring", mock.Anything, mock.Anything)
	})

	t.Run("panics on nil dependencies", func(t *testing.T) {
		assert.Panics(t, func() { batch.NewScoreBackfillJob(nil, new(MockScoringQueue), 10, logger) })
	})
}
