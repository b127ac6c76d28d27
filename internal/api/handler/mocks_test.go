package handler

import (
	"context"
	"io"
	"loan-engine/internal/domain/borrower"
	"loan-engine/internal/domain/loan"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

type MockBorrowerService struct {
	mock.Mock
}

func (m *MockBorrowerService) RegisterBorrower(ctx context.Context, in borrower.RegisterInput) (*borrower.Borrower, error) {
	args := m.Called(ctx, in)
	if b, ok := args.Get(0).(*borrower.Borrower); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBorrowerService) GetBorrower(ctx context.Context, id string) (*borrower.Borrower, error) {
	args := m.Called(ctx, id)
	if b, ok := args.Get(0).(*borrower.Borrower); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) ApplyLoan(ctx context.Context, in loan.ApplyLoanInput) (*loan.Loan, []loan.ScheduleEntry, error) {
	args := m.Called(ctx, in)
	l, _ := args.Get(0).(*loan.Loan)
	schedule, _ := args.Get(1).([]loan.ScheduleEntry)
	return l, schedule, args.Error(2)
}

func (m *MockLoanService) MakePayment(ctx context.Context, loanID string, amount decimal.Decimal, paymentDate time.Time) error {
	args := m.Called(ctx, loanID, amount, paymentDate)
	return args.Error(0)
}

func (m *MockLoanService) GetStatement(ctx context.Context, loanID string) (*loan.Statement, error) {
	args := m.Called(ctx, loanID)
	if s, ok := args.Get(0).(*loan.Statement); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) GetLoan(ctx context.Context, loanID string) (*loan.Loan, error) {
	args := m.Called(ctx, loanID)
	if l, ok := args.Get(0).(*loan.Loan); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}
