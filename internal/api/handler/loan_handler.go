package handler

import (
	"fmt"
	"loan-engine/internal/api/handler/dto"
	"loan-engine/internal/domain/loan"
	"loan-engine/internal/pkg/apperrors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

const msgPaymentSuccessful = "Payment successful."

type LoanHandler struct {
	service loan.LoanService
	logger  *slog.Logger
}

func NewLoanHandler(s loan.LoanService, l *slog.Logger) *LoanHandler {
	return &LoanHandler{
		service: s,
		logger:  l.With("component", "LoanHandler"),
	}
}

// ApplyLoan evaluates a loan application and returns the repayment schedule.
//
// @Summary Apply for a loan
// @Description Runs the eligibility rules in order and, when all pass, creates an approved loan with its EMI schedule.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.ApplyLoanRequest true "Loan application payload"
// @Success 200 {object} dto.ApplyLoanResponse "Loan approved"
// @Failure 400 {object} dto.ErrorResponse "Validation error or eligibility rejection"
// @Failure 404 {object} dto.ErrorResponse "Borrower not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/apply-loan [post]
// @Security BearerAuth
func (h *LoanHandler) ApplyLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.ApplyLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	in, err := req.ToInput()
	if err != nil {
		respondError(w, err)
		return
	}

	created, schedule, err := h.service.ApplyLoan(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewApplyLoanResponse(created, schedule))
}

// MakePayment applies a payment against the loan's next due EMI.
//
// @Summary Make a loan payment
// @Description Applies one EMI payment. Send an Idempotency-Key header to make retries safe.
// @Tags Loans
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Client-generated key identifying this payment attempt"
// @Param request body dto.MakePaymentRequest true "Payment payload"
// @Success 200 {object} dto.MessageResponse "Payment successful"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 409 {object} dto.ErrorResponse "Loan closed, EMIs overdue or duplicate payment"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/make-payment [post]
// @Security BearerAuth
func (h *LoanHandler) MakePayment(w http.ResponseWriter, r *http.Request) {
	var req dto.MakePaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	paymentDate, err := req.Validate()
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.MakePayment(r.Context(), strings.TrimSpace(req.LoanID), req.Amount, paymentDate); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.MessageResponse{Message: msgPaymentSuccessful})
}

// GetStatement returns the payments made and the installments still due.
//
// @Summary Retrieve a loan statement
// @Tags Loans
// @Produce json
// @Param loan_id query string true "Loan ID"
// @Success 200 {object} dto.StatementResponse "Loan statement"
// @Failure 400 {object} dto.ErrorResponse "Missing loan_id"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 409 {object} dto.ErrorResponse "Loan is closed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/get-statement [get]
// @Security BearerAuth
func (h *LoanHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	loanID := strings.TrimSpace(r.URL.Query().Get("loan_id"))
	if loanID == "" {
		respondError(w, apperrors.NewValidationError("loan_id", "query parameter is required"))
		return
	}

	statement, err := h.service.GetStatement(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewStatementResponse(statement))
}

// GetLoan retrieves the current state of a loan.
//
// @Summary Retrieve loan details
// @Tags Loans
// @Produce json
// @Param loanID path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse "Loan details"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/loans/{loanID} [get]
// @Security BearerAuth
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	l, err := h.service.GetLoan(r.Context(), chi.URLParam(r, "loanID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewLoanResponse(l))
}
