package postgres

import (
	"context"
	"errors"
	"fmt"
	"loan-engine/internal/domain/borrower"
	"loan-engine/internal/pkg/apperrors"
	"log/slog"
	"time"
)

type BorrowerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ borrower.Repository = (*BorrowerRepository)(nil)

func NewBorrowerRepository(db DBPool, logger *slog.Logger) *BorrowerRepository {
	if db == nil {
		panic("DBPool cannot be nil for BorrowerRepository")
	}
	return &BorrowerRepository{
		db:     db,
		logger: logger.With("component", "BorrowerRepository"),
	}
}

func (r *BorrowerRepository) Save(ctx context.Context, b *borrower.Borrower) (*borrower.Borrower, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: borrower cannot be nil", apperrors.ErrInvalidArgument)
	}

	query := `
        INSERT INTO borrowers (aadhar_id, name, email, annual_income, credit_score, created_at, updated_at)
        VALUES ($1, $2, $3, $4, 0, NOW(), NOW())
        RETURNING credit_score, scored_at, created_at, updated_at`

	saved := *b
	startTime := time.Now()
	err := r.db.QueryRow(ctx, query, b.ID, b.Name, b.Email, b.AnnualIncome).Scan(
		&saved.CreditScore, &saved.ScoredAt, &saved.CreatedAt, &saved.UpdatedAt,
	)
	observe("SaveBorrower", startTime, err)
	if err != nil {
		translated := translateDBError(err, r.logger)
		if errors.Is(translated, apperrors.ErrAlreadyExists) {
			return nil, translated
		}
		r.logger.ErrorContext(ctx, "Failed to insert borrower", "error", err)
		return nil, fmt.Errorf("%w: failed to insert borrower: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Borrower inserted", "borrower_id", saved.ID)
	return &saved, nil
}

func (r *BorrowerRepository) FindByID(ctx context.Context, id string) (*borrower.Borrower, error) {
	query := `
        SELECT aadhar_id, name, email, annual_income, credit_score, scored_at, created_at, updated_at
        FROM borrowers
        WHERE aadhar_id = $1`

	var b borrower.Borrower
	startTime := time.Now()
	err := r.db.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.Name, &b.Email, &b.AnnualIncome, &b.CreditScore, &b.ScoredAt, &b.CreatedAt, &b.UpdatedAt,
	)
	observe("FindBorrowerByID", startTime, err)
	if err != nil {
		translated := translateDBError(err, r.logger)
		if errors.Is(translated, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: borrower %s", apperrors.ErrNotFound, id)
		}
		return nil, translated
	}
	return &b, nil
}

func (r *BorrowerRepository) UpdateCreditScore(ctx context.Context, id string, score int, scoredAt time.Time) error {
	query := `
        UPDATE borrowers
        SET credit_score = $1, scored_at = $2, updated_at = NOW()
        WHERE aadhar_id = $3`

	startTime := time.Now()
	tag, err := r.db.Exec(ctx, query, score, scoredAt, id)
	observe("UpdateCreditScore", startTime, err)
	if err != nil {
		return translateDBError(err, r.logger)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: borrower %s", apperrors.ErrNotFound, id)
	}
	return nil
}

// FindUnscored returns ids of borrowers that have never been scored, oldest
// registrations first.
func (r *BorrowerRepository) FindUnscored(ctx context.Context, limit int) ([]string, error) {
	query := `
        SELECT aadhar_id
        FROM borrowers
        WHERE scored_at IS NULL
        ORDER BY created_at
        LIMIT $1`

	startTime := time.Now()
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		observe("FindUnscoredBorrowers", startTime, err)
		return nil, translateDBError(err, r.logger)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			observe("FindUnscoredBorrowers", startTime, err)
			return nil, fmt.Errorf("%w: failed to scan borrower id: %w", apperrors.ErrDatabase, err)
		}
		ids = append(ids, id)
	}
	err = rows.Err()
	observe("FindUnscoredBorrowers", startTime, err)
	if err != nil {
		return nil, translateDBError(err, r.logger)
	}
	return ids, nil
}
