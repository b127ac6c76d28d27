package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"loan-engine/internal/api/handler/dto"
	"loan-engine/internal/pkg/apperrors"
	"log/slog"
	"net/http"
)

const msgUnexpected = "An unexpected error occurred."

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

// respondError maps err onto the error envelope. Reason codes and messages of
// business rejections pass through; internal failures never leak their text.
func respondError(w http.ResponseWriter, err error) {
	status, code, message := classify(err)
	detail := dto.ErrorDetail{Code: code, Message: message}

	var appErr *apperrors.AppError
	if status != http.StatusInternalServerError && errors.As(err, &appErr) {
		if appErr.Code != "" {
			detail.Code = appErr.Code
		}
		detail.Message = appErr.Message
		detail.Details = appErr.Details
	}

	var validationError *apperrors.ValidationError
	if errors.As(err, &validationError) {
		detail.Field = validationError.Field
		detail.Message = validationError.Message
	}

	if status == http.StatusInternalServerError {
		slog.Default().Error("Unhandled internal error", "error", err)
	}
	respondJSON(w, status, dto.ErrorResponse{Error: detail})
}

func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_FAILED", err.Error()
	case errors.Is(err, apperrors.ErrInvalidArgument):
		return http.StatusBadRequest, "INVALID_ARGUMENT", err.Error()
	case errors.Is(err, apperrors.ErrEligibilityRejected):
		return http.StatusBadRequest, "ELIGIBILITY_REJECTED", err.Error()
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "Resource not found."
	case errors.Is(err, apperrors.ErrStateConflict):
		return http.StatusConflict, "STATE_CONFLICT", err.Error()
	case errors.Is(err, apperrors.ErrAlreadyExists):
		return http.StatusConflict, "ALREADY_EXISTS", err.Error()
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, "CONFLICT", "The resource was modified concurrently, please retry."
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized."
	case errors.Is(err, apperrors.ErrSourceUnavailable):
		return http.StatusServiceUnavailable, "SOURCE_UNAVAILABLE", "A dependent service is unavailable."
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", msgUnexpected
	}
}
