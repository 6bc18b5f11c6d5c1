package service_test

import (
	"context"
	"errors"
	"testing"

	appErrors "github.com/aaravmahajanofficial/multivendor-marketplace/internal/errors"
	repoMocks "github.com/aaravmahajanofficial/multivendor-marketplace/internal/repositories/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// passThroughTx makes the transactor mock run the callback it is handed.
func passThroughTx(tx *repoMocks.Transactor) {
	tx.On("WithinTransaction", mock.Anything, mock.Anything).
		Return(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		})
}

func requireAppError(t *testing.T, err error, code string) *appErrors.AppError {
	t.Helper()

	require.Error(t, err)

	var appErr *appErrors.AppError
	require.True(t, errors.As(err, &appErr), "expected *AppError, got %T", err)
	require.Equal(t, code, appErr.Code)

	return appErr
}
