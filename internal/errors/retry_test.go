package errors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetryStopsOnSuccess(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		if calls < 2 {
			return NewExternalAPIError("test", errors.New("transient"))
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithRetryDoesNotRetryNonRetryable(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return NewValidationError("bad input")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetryGivesUpAfterBudget(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return NewExternalAPIError("test", errors.New("still down"))
	})

	require.Error(t, err)
	assert.Equal(t, MaxRetries+1, calls)
}

func TestWithRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, func() error {
		return NewExternalAPIError("test", errors.New("down"))
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.False(t, IsRetryable(NewValidationError("bad")))
	assert.False(t, IsRetryable(NewTokenError("forged")))
	assert.True(t, IsRetryable(NewLedgerError(errors.New("db"))))
	assert.True(t, IsRetryable(NewExternalAPIError("api", errors.New("down"))))
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewLedgerError(cause)

	assert.ErrorIs(t, err, cause)

	var appErr *AppError
	require.ErrorAs(t, error(err), &appErr)
	assert.Equal(t, "E200", appErr.Code)
}
