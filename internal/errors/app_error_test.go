package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutErrors(t *testing.T) {
	t.Run("Empty cart", func(t *testing.T) {
		err := EmptyCartError()

		assert.Equal(t, ErrCodeEmptyCart, err.Code)
		assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	})

	t.Run("Insufficient stock names the product", func(t *testing.T) {
		err := InsufficientStockError("Blue Mug")

		assert.Equal(t, ErrCodeInsufficientStock, err.Code)
		assert.Equal(t, http.StatusConflict, err.StatusCode)
		assert.Contains(t, err.Detail, "Blue Mug")
	})
}

func TestIsAppError(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := fmt.Errorf("checkout: %w", DatabaseError("Failed to create order").WithError(cause))

	appErr, ok := IsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeDatabaseError, appErr.Code)
	assert.ErrorIs(t, wrapped, cause)

	_, ok = IsAppError(cause)
	assert.False(t, ok)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeEmptyCart, http.StatusBadRequest},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeInsufficientStock, http.StatusConflict},
		{ErrCodeTooManyRequests, http.StatusTooManyRequests},
		{ErrCodeDatabaseError, http.StatusInternalServerError},
		{"SOMETHING_NEW", http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusFor(tc.code))
		})
	}
}

func TestAppError_MatchesByCode(t *testing.T) {
	err := fmt.Errorf("checkout: %w", InsufficientStockError("Blue Mug"))

	assert.ErrorIs(t, err, InsufficientStockError("anything"))
	assert.NotErrorIs(t, err, EmptyCartError())
}

func TestInvalidFieldError(t *testing.T) {
	err := InvalidFieldError("price", "must have at most 2 decimal places")

	assert.Equal(t, ErrCodeValidation, err.Code)
	assert.Equal(t, "Invalid field 'price'", err.Message)
	assert.Equal(t, "Invalid field 'price': must have at most 2 decimal places", err.Error())
}
