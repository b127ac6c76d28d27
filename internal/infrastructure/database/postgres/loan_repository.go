package postgres

import (
	"context"
	"errors"
	"fmt"
	"loan-engine/internal/domain/loan"
	"loan-engine/internal/pkg/apperrors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

const loanColumns = `id, loan_id, borrower_id, loan_type, original_principal, outstanding_principal,
        interest_rate, term_period, disbursement_date, emi_amount, status, paid_emis, created_at, updated_at`

type LoanRepository struct {
	txManager
	db     DBPool
	logger *slog.Logger
}

var _ loan.Repository = (*LoanRepository)(nil)

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	if db == nil {
		panic("DBPool cannot be nil for LoanRepository")
	}
	logger = logger.With("component", "LoanRepository")
	return &LoanRepository{
		txManager: txManager{db: db, logger: logger},
		db:        db,
		logger:    logger,
	}
}

func scanLoan(row pgx.Row) (*loan.Loan, error) {
	var l loan.Loan
	err := row.Scan(
		&l.ID, &l.LoanID, &l.BorrowerID, &l.Type, &l.OriginalPrincipal, &l.OutstandingPrincipal,
		&l.InterestRate, &l.TermPeriod, &l.DisbursementDate, &l.EMIAmount, &l.Status, &l.PaidEMIs,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LoanRepository) CreateLoan(ctx context.Context, newLoan *loan.Loan) (*loan.Loan, error) {
	query := `
        INSERT INTO loans (loan_id, borrower_id, loan_type, original_principal, outstanding_principal,
            interest_rate, term_period, disbursement_date, emi_amount, status, paid_emis, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
        RETURNING ` + loanColumns

	startTime := time.Now()
	created, err := scanLoan(r.db.QueryRow(ctx, query,
		newLoan.LoanID, newLoan.BorrowerID, newLoan.Type, newLoan.OriginalPrincipal, newLoan.OutstandingPrincipal,
		newLoan.InterestRate, newLoan.TermPeriod, newLoan.DisbursementDate, newLoan.EMIAmount, newLoan.Status,
		newLoan.PaidEMIs,
	))
	observe("CreateLoan", startTime, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert loan", "error", err)
		return nil, translateDBError(err, r.logger)
	}

	r.logger.InfoContext(ctx, "Loan created in DB", "id", created.ID, "loan_id", created.LoanID)
	return created, nil
}

func (r *LoanRepository) GetLoanByLoanID(ctx context.Context, loanID string) (*loan.Loan, error) {
	query := `SELECT ` + loanColumns + `
        FROM loans
        WHERE loan_id = $1`

	startTime := time.Now()
	l, err := scanLoan(r.db.QueryRow(ctx, query, loanID))
	observe("GetLoanByLoanID", startTime, err)
	if err != nil {
		return nil, r.notFoundOr(err, loanID)
	}
	return l, nil
}

// GetLoanByLoanIDForUpdate locks the loan row until tx ends so concurrent
// payments on the same loan are applied one at a time.
func (r *LoanRepository) GetLoanByLoanIDForUpdate(ctx context.Context, tx pgx.Tx, loanID string) (*loan.Loan, error) {
	query := `SELECT ` + loanColumns + `
        FROM loans
        WHERE loan_id = $1
        FOR UPDATE`

	startTime := time.Now()
	l, err := scanLoan(tx.QueryRow(ctx, query, loanID))
	observe("GetLoanByLoanIDForUpdate", startTime, err)
	if err != nil {
		return nil, r.notFoundOr(err, loanID)
	}
	return l, nil
}

func (r *LoanRepository) notFoundOr(err error, loanID string) error {
	translated := translateDBError(err, r.logger)
	if errors.Is(translated, apperrors.ErrNotFound) {
		return fmt.Errorf("%w: loan %s", apperrors.ErrNotFound, loanID)
	}
	return translated
}

func (r *LoanRepository) UpdateLoanInTx(ctx context.Context, tx pgx.Tx, l *loan.Loan) error {
	query := `
        UPDATE loans
        SET outstanding_principal = $1, paid_emis = $2, status = $3, updated_at = NOW()
        WHERE id = $4`

	startTime := time.Now()
	tag, err := tx.Exec(ctx, query, l.OutstandingPrincipal, l.PaidEMIs, l.Status, l.ID)
	observe("UpdateLoanInTx", startTime, err)
	if err != nil {
		return translateDBError(err, r.logger)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: loan %d", apperrors.ErrNotFound, l.ID)
	}
	return nil
}

func (r *LoanRepository) InsertPaymentInTx(ctx context.Context, tx pgx.Tx, p *loan.Payment) (*loan.Payment, error) {
	query := `
        INSERT INTO payments (loan_id, payment_date, principal_amount, interest, amount_paid, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
        RETURNING id, created_at`

	saved := *p
	startTime := time.Now()
	err := tx.QueryRow(ctx, query,
		p.LoanID, p.PaymentDate, p.PrincipalAmount, p.Interest, p.AmountPaid, p.Status,
	).Scan(&saved.ID, &saved.CreatedAt)
	observe("InsertPaymentInTx", startTime, err)
	if err != nil {
		return nil, translateDBError(err, r.logger)
	}
	return &saved, nil
}

func (r *LoanRepository) GetPaymentsByLoanID(ctx context.Context, id int64) ([]loan.Payment, error) {
	query := `
        SELECT id, loan_id, payment_date, principal_amount, interest, amount_paid, status, created_at
        FROM payments
        WHERE loan_id = $1
        ORDER BY payment_date, id`

	startTime := time.Now()
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		observe("GetPaymentsByLoanID", startTime, err)
		return nil, translateDBError(err, r.logger)
	}
	defer rows.Close()

	payments := make([]loan.Payment, 0)
	for rows.Next() {
		var p loan.Payment
		if err := rows.Scan(
			&p.ID, &p.LoanID, &p.PaymentDate, &p.PrincipalAmount, &p.Interest, &p.AmountPaid, &p.Status, &p.CreatedAt,
		); err != nil {
			observe("GetPaymentsByLoanID", startTime, err)
			return nil, fmt.Errorf("%w: failed to scan payment: %w", apperrors.ErrDatabase, err)
		}
		payments = append(payments, p)
	}
	err = rows.Err()
	observe("GetPaymentsByLoanID", startTime, err)
	if err != nil {
		return nil, translateDBError(err, r.logger)
	}
	return payments, nil
}
