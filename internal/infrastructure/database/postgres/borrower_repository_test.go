package postgres

import (
	"context"
	"errors"
	"loan-engine/internal/domain/borrower"
	"loan-engine/internal/pkg/apperrors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var borrowerColumns = []string{"aadhar_id", "name", "email", "annual_income", "credit_score", "scored_at", "created_at", "updated_at"}

func testBorrower() *borrower.Borrower {
	return &borrower.Borrower{
		ID:           "123456789012",
		Name:         "Asha Verma",
		Email:        "asha@example.com",
		AnnualIncome: decimal.NewFromInt(600000),
	}
}

func TestBorrowerRepository_Save(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("inserts borrower", func(t *testing.T) {
		mockPool := newMockPool(t)
		repo := NewBorrowerRepository(mockPool, logger)
		b := testBorrower()

		mockPool.ExpectQuery(regexp.QuoteMeta("INSERT INTO borrowers")).
			WithArgs(b.ID, b.Name, b.Email, pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows([]string{"credit_score", "scored_at", "created_at", "updated_at"}).
				AddRow(0, (*time.Time)(nil), now, now))

		saved, err := repo.Save(ctx, b)
		require.NoError(t, err)
		assert.Equal(t, b.ID, saved.ID)
		assert.Equal(t, now, saved.CreatedAt)
		assert.Nil(t, saved.ScoredAt)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("duplicate id", func(t *testing.T) {
		mockPool := newMockPool(t)
		repo := NewBorrowerRepository(mockPool, logger)

		mockPool.ExpectQuery(regexp.QuoteMeta("INSERT INTO borrowers")).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "borrowers_pkey"})

		_, err := repo.Save(ctx, testBorrower())
		assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	})

	t.Run("nil borrower", func(t *testing.T) {
		repo := NewBorrowerRepository(newMockPool(t), logger)

		_, err := repo.Save(ctx, nil)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	})
}

func TestBorrowerRepository_FindByID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		mockPool := newMockPool(t)
		repo := NewBorrowerRepository(mockPool, logger)

		mockPool.ExpectQuery(regexp.QuoteMeta("FROM borrowers")).
			WithArgs("123456789012").
			WillReturnRows(pgxmock.NewRows(borrowerColumns).
				AddRow("123456789012", "Asha Verma", "asha@example.com", "600000.00", 640, &now, now, now))

		b, err := repo.FindByID(ctx, "123456789012")
		require.NoError(t, err)
		assert.Equal(t, 640, b.CreditScore)
		assert.Equal(t, "600000.00", b.AnnualIncome.StringFixed(2))
		require.NotNil(t, b.ScoredAt)
		assert.True(t, b.IsScored())
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("not found", func(t *testing.T) {
		mockPool := newMockPool(t)
		repo := NewBorrowerRepository(mockPool, logger)

		mockPool.ExpectQuery(regexp.QuoteMeta("FROM borrowers")).
			WithArgs("000000000000").
			WillReturnRows(pgxmock.NewRows(borrowerColumns))

		_, err := repo.FindByID(ctx, "000000000000")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestBorrowerRepository_UpdateCreditScore(t *testing.T) {
	ctx := context.Background()
	scoredAt := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("updates score", func(t *testing.T) {
		mockPool := newMockPool(t)
		repo := NewBorrowerRepository(mockPool, logger)

		mockPool.ExpectExec(regexp.QuoteMeta("UPDATE borrowers")).
			WithArgs(400, scoredAt, "123456789012").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.UpdateCreditScore(ctx, "123456789012", 400, scoredAt))
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("unknown borrower", func(t *testing.T) {
		mockPool := newMockPool(t)
		repo := NewBorrowerRepository(mockPool, logger)

		mockPool.ExpectExec(regexp.QuoteMeta("UPDATE borrowers")).
			WithArgs(400, scoredAt, "000000000000").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateCreditScore(ctx, "000000000000", 400, scoredAt)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestBorrowerRepository_FindUnscored(t *testing.T) {
	ctx := context.Background()

	t.Run("returns ids", func(t *testing.T) {
		mockPool := newMockPool(t)
		repo := NewBorrowerRepository(mockPool, logger)

		mockPool.ExpectQuery(regexp.QuoteMeta("WHERE scored_at IS NULL")).
			WithArgs(50).
			WillReturnRows(pgxmock.NewRows([]string{"aadhar_id"}).
				AddRow("111111111111").
				AddRow("222222222222"))

		ids, err := repo.FindUnscored(ctx, 50)
		require.NoError(t, err)
		assert.Equal(t, []string{"111111111111", "222222222222"}, ids)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("query error", func(t *testing.T) {
		mockPool := newMockPool(t)
		repo := NewBorrowerRepository(mockPool, logger)

		mockPool.ExpectQuery(regexp.QuoteMeta("WHERE scored_at IS NULL")).
			WithArgs(50).
			WillReturnError(errors.New("connection reset"))

		_, err := repo.FindUnscored(ctx, 50)
		assert.ErrorIs(t, err, apperrors.ErrDatabase)
	})
}
