package handler

import (
	"errors"
	"fmt"
	"loan-engine/internal/pkg/apperrors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", apperrors.NewValidationError("name", "cannot be empty"), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"invalid argument", fmt.Errorf("%w: bad json", apperrors.ErrInvalidArgument), http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"eligibility", apperrors.NewRejection(apperrors.ErrEligibilityRejected, "X", "no"), http.StatusBadRequest, "ELIGIBILITY_REJECTED"},
		{"not found", fmt.Errorf("%w: loan", apperrors.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"state conflict", apperrors.NewRejection(apperrors.ErrStateConflict, "X", "no"), http.StatusConflict, "STATE_CONFLICT"},
		{"already exists", fmt.Errorf("%w: dup", apperrors.ErrAlreadyExists), http.StatusConflict, "ALREADY_EXISTS"},
		{"concurrent update", fmt.Errorf("%w: version", apperrors.ErrConflict), http.StatusConflict, "CONFLICT"},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"source unavailable", fmt.Errorf("%w: ledger", apperrors.ErrSourceUnavailable), http.StatusServiceUnavailable, "SOURCE_UNAVAILABLE"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, _ := classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestRespondError_InternalAppErrorIsMasked(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, apperrors.WrapDatabaseError(errors.New("pq: relation missing"), "failed to load loan"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	detail := decodeError(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", detail.Code)
	assert.Equal(t, msgUnexpected, detail.Message)
	assert.Nil(t, detail.Details)
}
