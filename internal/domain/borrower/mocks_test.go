package borrower

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var logger = slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

type MockRepository struct {
	mock.Mock
}

func (_m *MockRepository) Save(ctx context.Context, b *Borrower) (*Borrower, error) {
	ret := _m.Called(ctx, b)

	var r0 *Borrower
	if rf, ok := ret.Get(0).(func(context.Context, *Borrower) *Borrower); ok {
		r0 = rf(ctx, b)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Borrower)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) FindByID(ctx context.Context, id string) (*Borrower, error) {
	ret := _m.Called(ctx, id)

	var r0 *Borrower
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Borrower)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) UpdateCreditScore(ctx context.Context, id string, score int, scoredAt time.Time) error {
	ret := _m.Called(ctx, id, score, scoredAt)
	return ret.Error(0)
}

func (_m *MockRepository) FindUnscored(ctx context.Context, limit int) ([]string, error) {
	ret := _m.Called(ctx, limit)

	var r0 []string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]string)
	}
	return r0, ret.Error(1)
}

type MockScoringQueue struct {
	mock.Mock
}

func (_m *MockScoringQueue) EnqueueScoring(ctx context.Context, borrowerID string) error {
	ret := _m.Called(ctx, borrowerID)
	return ret.Error(0)
}

type MockBalanceScanner struct {
	mock.Mock
}

func (_m *MockBalanceScanner) NetBalance(ctx context.Context, borrowerID string) (decimal.Decimal, error) {
	ret := _m.Called(ctx, borrowerID)
	return ret.Get(0).(decimal.Decimal), ret.Error(1)
}
