package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go-leaveform/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	t.Run("app error", func(t *testing.T) {
		got := apperror.ToHTTP(apperror.ErrTooManyRequests)
		assert.Equal(t, http.StatusTooManyRequests, got.Status)
		assert.Equal(t, apperror.CodeTooManyRequests, got.Code)
	})

	t.Run("wrapped app error", func(t *testing.T) {
		err := fmt.Errorf("handler: %w", apperror.ErrNotFound)
		got := apperror.ToHTTP(err)
		assert.Equal(t, http.StatusNotFound, got.Status)
	})

	t.Run("plain error is masked", func(t *testing.T) {
		got := apperror.ToHTTP(errors.New("pq: password authentication failed"))
		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, apperror.ErrInternal.Message, got.Message)
	})
}

func TestAppError_WithCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := apperror.ErrInvalidInput.WithCause(cause)

	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, "The provided input is invalid: connection refused", err.Error())
}

func TestMapValidationError(t *testing.T) {
	type req struct {
		StartDate string `json:"start_date" validate:"required"`
		Reason    string `json:"reason" validate:"oneof=sick personal"`
	}

	v := validator.New()
	apperror.Register(v)

	t.Run("required", func(t *testing.T) {
		err := apperror.MapValidationError(v.Struct(req{Reason: "sick"}))
		assert.Equal(t, "Start Date is required", err.Error())

		got := apperror.ToHTTP(err)
		assert.Equal(t, http.StatusBadRequest, got.Status)
		assert.Equal(t, apperror.CodeValidation, got.Code)
		assert.Equal(t, []apperror.FieldError{{Field: "start_date", Rule: "required"}}, got.Details)
	})

	t.Run("all failures are listed", func(t *testing.T) {
		err := apperror.MapValidationError(v.Struct(req{Reason: "holiday"}))
		assert.Equal(t, "Start Date is required", err.Error())
		assert.Equal(t, []apperror.FieldError{
			{Field: "start_date", Rule: "required"},
			{Field: "reason", Rule: "oneof"},
		}, apperror.ToHTTP(err).Details)
	})

	t.Run("other rule", func(t *testing.T) {
		err := apperror.MapValidationError(v.Struct(req{StartDate: "2025-01-10", Reason: "holiday"}))
		assert.Equal(t, "Reason is invalid", err.Error())
	})

	t.Run("non validation error", func(t *testing.T) {
		err := apperror.MapValidationError(errors.New("EOF"))
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
		assert.Equal(t, "The provided input is invalid: EOF", err.Error())
		assert.Nil(t, apperror.ToHTTP(err).Details)
	})
}
