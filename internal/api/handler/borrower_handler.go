package handler

import (
	"fmt"
	"loan-engine/internal/api/handler/dto"
	"loan-engine/internal/domain/borrower"
	"loan-engine/internal/pkg/apperrors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type BorrowerHandler struct {
	service borrower.Service
	logger  *slog.Logger
}

func NewBorrowerHandler(s borrower.Service, l *slog.Logger) *BorrowerHandler {
	return &BorrowerHandler{
		service: s,
		logger:  l.With("component", "BorrowerHandler"),
	}
}

// RegisterUser registers a borrower and schedules credit scoring.
//
// @Summary Register a borrower
// @Description Stores the borrower and enqueues asynchronous credit scoring. The response does not wait for the score.
// @Tags Borrowers
// @Accept json
// @Produce json
// @Param request body dto.RegisterBorrowerRequest true "Borrower registration payload"
// @Success 200 {object} dto.RegisterBorrowerResponse "Borrower registered"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload or validation error"
// @Failure 409 {object} dto.ErrorResponse "Borrower already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/register-user [post]
// @Security BearerAuth
func (h *BorrowerHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterBorrowerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	b, err := h.service.RegisterBorrower(r.Context(), req.ToInput())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.RegisterBorrowerResponse{UniqueUserID: b.ID})
}

// GetBorrower returns a borrower with the credit score once it is known.
//
// @Summary Retrieve a borrower
// @Tags Borrowers
// @Produce json
// @Param borrowerID path string true "Borrower ID (aadhar_id)"
// @Success 200 {object} dto.BorrowerResponse "Borrower details"
// @Failure 404 {object} dto.ErrorResponse "Borrower not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/borrowers/{borrowerID} [get]
// @Security BearerAuth
func (h *BorrowerHandler) GetBorrower(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.GetBorrower(r.Context(), chi.URLParam(r, "borrowerID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewBorrowerResponse(b))
}
