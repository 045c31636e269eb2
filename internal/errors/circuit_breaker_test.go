package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreakerStaysClosedOnSuccess(t *testing.T) {
	cb := NewCircuitBreaker()

	for i := 0; i < MinRequests*2; i++ {
		require.NoError(t, cb.Call(func() error { return nil }))
	}

	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreakerOpensOnErrorRate(t *testing.T) {
	cb := NewCircuitBreaker()
	boom := errors.New("boom")

	for i := 0; i < MinRequests; i++ {
		_ = cb.Call(func() error { return boom })
	}

	assert.Equal(t, StateOpen, cb.State())

	err := cb.Call(func() error {
		t.Fatal("call must not pass through an open breaker")
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreakerToleratesLowErrorRate(t *testing.T) {
	cb := NewCircuitBreaker()
	boom := errors.New("boom")

	// Under half of the minimum window fails; the breaker stays closed.
	for i := 0; i < MinRequests; i++ {
		if i%3 == 0 {
			_ = cb.Call(func() error { return boom })
			continue
		}
		_ = cb.Call(func() error { return nil })
	}

	assert.Equal(t, StateClosed, cb.State())
}
