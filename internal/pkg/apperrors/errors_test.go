package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorError(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "With Code",
			appError: &AppError{
				Code:    "TEST_CODE",
				Message: "This is a test error",
			},
			expected: "[TEST_CODE] This is a test error",
		},
		{
			name: "Without Code",
			appError: &AppError{
				Message: "This is a test error without code",
			},
			expected: "This is a test error without code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Error()
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestNewRejection(t *testing.T) {
	err := NewRejection(ErrStateConflict, "DUPLICATE_PAYMENT", "Payment for this date already exists.")

	assert.True(t, errors.Is(err, ErrStateConflict))
	assert.False(t, errors.Is(err, ErrEligibilityRejected))
	assert.Equal(t, "DUPLICATE_PAYMENT", ReasonCode(err))

	wrapped := fmt.Errorf("apply payment: %w", err)
	assert.True(t, errors.Is(wrapped, ErrStateConflict))
	assert.Equal(t, "DUPLICATE_PAYMENT", ReasonCode(wrapped))
}

func TestAppError_WithDetail(t *testing.T) {
	base := NewRejection(ErrStateConflict, "PREVIOUS_EMIS_DUE", "2 previous EMIs are due")
	withCount := base.WithDetail("due_emis", 2)

	assert.Nil(t, base.Details, "original error must not be mutated")
	assert.Equal(t, 2, withCount.Details["due_emis"])
	assert.True(t, errors.Is(withCount, ErrStateConflict))
}

func TestReasonCode_NoAppError(t *testing.T) {
	assert.Equal(t, "", ReasonCode(errors.New("plain")))
	assert.Equal(t, "", ReasonCode(nil))
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("email", "invalid address")

	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.Equal(t, "email", vErr.Field)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "validation failed for field 'email': invalid address")
}

func TestWrapDatabaseError(t *testing.T) {
	cause := errors.New("connection reset")
	err := WrapDatabaseError(cause, "failed to load loan")

	assert.True(t, errors.Is(err, ErrDatabase))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "DB_ERROR", ReasonCode(err))
}
