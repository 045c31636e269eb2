package idempotency

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExecuteRunsOperationOnce(t *testing.T) {
	m := NewManager(NewMemoryStore(testLogger()), testLogger())

	calls := 0
	op := func(context.Context) error {
		calls++
		return nil
	}

	result, err := m.Execute(context.Background(), "update-1", time.Hour, op)
	require.NoError(t, err)
	assert.False(t, result.FromCache)

	result, err = m.Execute(context.Background(), "update-1", time.Hour, op)
	require.NoError(t, err)
	assert.True(t, result.FromCache)

	assert.Equal(t, 1, calls, "a replayed key must not re-run the operation")
}

func TestExecuteDistinctKeysAreIndependent(t *testing.T) {
	m := NewManager(NewMemoryStore(testLogger()), testLogger())

	calls := 0
	op := func(context.Context) error {
		calls++
		return nil
	}

	_, err := m.Execute(context.Background(), "update-1", time.Hour, op)
	require.NoError(t, err)

	_, err = m.Execute(context.Background(), "update-2", time.Hour, op)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestExecuteFailedOperationMayRetry(t *testing.T) {
	m := NewManager(NewMemoryStore(testLogger()), testLogger())

	calls := 0
	failing := func(context.Context) error {
		calls++
		return errors.New("boom")
	}

	_, err := m.Execute(context.Background(), "update-1", time.Hour, failing)
	require.Error(t, err)

	// Failure leaves no completed record; the next delivery runs again.
	_, err = m.Execute(context.Background(), "update-1", time.Hour, func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestExecuteConcurrentDeliveryIsRejected(t *testing.T) {
	store := NewMemoryStore(testLogger())
	m := NewManager(store, testLogger())

	// Simulate a concurrent holder.
	locked, err := store.Lock(context.Background(), "update-1", time.Minute)
	require.NoError(t, err)
	require.True(t, locked)

	_, err = m.Execute(context.Background(), "update-1", time.Hour, func(context.Context) error {
		t.Fatal("operation must not run while the lock is held elsewhere")
		return nil
	})
	assert.ErrorIs(t, err, ErrRequestInProgress)
}

func TestExecuteNilOperation(t *testing.T) {
	m := NewManager(NewMemoryStore(testLogger()), testLogger())

	_, err := m.Execute(context.Background(), "update-1", time.Hour, nil)
	assert.Error(t, err)
}

func TestGenerateKeyIsStable(t *testing.T) {
	assert.Equal(t, GenerateKey("callback", "abc"), GenerateKey("callback", "abc"))
	assert.NotEqual(t, GenerateKey("callback", "abc"), GenerateKey("callback", "abd"))
	assert.NotEqual(t, GenerateKey("message", int64(1), 2), GenerateKey("message", int64(12), 2))
}
