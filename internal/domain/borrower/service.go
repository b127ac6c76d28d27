package borrower

import (
	"context"
	"errors"
	"fmt"
	"loan-engine/internal/infrastructure/monitoring"
	"loan-engine/internal/pkg/apperrors"
	"log/slog"
)

// ScoringQueue hands a borrower off for asynchronous credit scoring.
type ScoringQueue interface {
	EnqueueScoring(ctx context.Context, borrowerID string) error
}

type Service interface {
	RegisterBorrower(ctx context.Context, in RegisterInput) (*Borrower, error)
	GetBorrower(ctx context.Context, id string) (*Borrower, error)
}

var _ Service = (*borrowerService)(nil)

type borrowerService struct {
	repo   Repository
	queue  ScoringQueue
	logger *slog.Logger
}

func NewService(repo Repository, queue ScoringQueue, logger *slog.Logger) Service {
	if repo == nil {
		panic("borrower repository cannot be nil")
	}
	if queue == nil {
		panic("scoring queue cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil for borrower service")
	}
	return &borrowerService{
		repo:   repo,
		queue:  queue,
		logger: logger.With("component", "borrowerService"),
	}
}

// RegisterBorrower stores the borrower and enqueues scoring. The response never
// waits on scoring, and a failed enqueue is only logged.
func (s *borrowerService) RegisterBorrower(ctx context.Context, in RegisterInput) (*Borrower, error) {
	b, err := NewBorrower(in)
	if err != nil {
		s.logger.WarnContext(ctx, "Borrower registration rejected", "error", err)
		return nil, err
	}

	saved, err := s.repo.Save(ctx, b)
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			s.logger.WarnContext(ctx, "Borrower already registered", "borrower_id", b.ID)
			return nil, fmt.Errorf("%w: borrower %s is already registered", apperrors.ErrAlreadyExists, b.ID)
		}
		s.logger.ErrorContext(ctx, "Failed to save borrower", "borrower_id", b.ID, "error", err)
		return nil, fmt.Errorf("%w: failed to save borrower: %v", apperrors.ErrInternalServer, err)
	}
	monitoring.RecordBorrowerRegistered()

	if err := s.queue.EnqueueScoring(ctx, saved.ID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to enqueue credit scoring", "borrower_id", saved.ID, "error", err)
	} else {
		s.logger.InfoContext(ctx, "Credit scoring enqueued", "borrower_id", saved.ID)
	}

	s.logger.InfoContext(ctx, "Borrower registered", "borrower_id", saved.ID)
	return saved, nil
}

func (s *borrowerService) GetBorrower(ctx context.Context, id string) (*Borrower, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Borrower not found", "borrower_id", id)
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Failed to get borrower", "borrower_id", id, "error", err)
		return nil, fmt.Errorf("%w: failed to get borrower %s: %v", apperrors.ErrInternalServer, id, err)
	}
	return b, nil
}
