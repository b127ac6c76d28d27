package loan

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type Repository interface {
	CreateLoan(ctx context.Context, loan *Loan) (*Loan, error)

	GetLoanByLoanID(ctx context.Context, loanID string) (*Loan, error)

	GetPaymentsByLoanID(ctx context.Context, id int64) ([]Payment, error)

	GetLoanByLoanIDForUpdate(ctx context.Context, tx pgx.Tx, loanID string) (*Loan, error)

	UpdateLoanInTx(ctx context.Context, tx pgx.Tx, loan *Loan) error

	InsertPaymentInTx(ctx context.Context, tx pgx.Tx, payment *Payment) (*Payment, error)

	BeginTx(ctx context.Context) (pgx.Tx, error)

	CommitTx(ctx context.Context, tx pgx.Tx) error

	RollbackTx(ctx context.Context, tx pgx.Tx) error
}
