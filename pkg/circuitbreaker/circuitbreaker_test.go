package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("backend unavailable")

func failing(context.Context) error { return errBackend }
func succeeding(context.Context) error { return nil }

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := New("test", WithFailureThreshold(3))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := cb.Execute(ctx, failing)
		assert.ErrorIs(t, err, errBackend)
	}

	assert.Equal(t, StateOpen, cb.State())
	assert.True(t, cb.IsOpen())

	// Requests are now rejected without calling the function.
	called := false
	err := cb.Execute(ctx, func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_SuccessResetsConsecutiveFailures(t *testing.T) {
	cb := New("test", WithFailureThreshold(3))
	ctx := context.Background()

	_ = cb.Execute(ctx, failing)
	_ = cb.Execute(ctx, failing)
	require.NoError(t, cb.Execute(ctx, succeeding))
	_ = cb.Execute(ctx, failing)
	_ = cb.Execute(ctx, failing)

	assert.Equal(t, StateClosed, cb.State(), "non-consecutive failures do not trip the breaker")
}

func TestCircuitBreaker_HalfOpenAfterTimeout(t *testing.T) {
	cb := New("test",
		WithFailureThreshold(1),
		WithSuccessThreshold(1),
		WithTimeout(20*time.Millisecond),
	)
	ctx := context.Background()

	_ = cb.Execute(ctx, failing)
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(30 * time.Millisecond)

	// First request after the timeout probes the backend; success closes.
	require.NoError(t, cb.Execute(ctx, succeeding))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_FailureInHalfOpenReopens(t *testing.T) {
	cb := New("test",
		WithFailureThreshold(1),
		WithTimeout(20*time.Millisecond),
	)
	ctx := context.Background()

	_ = cb.Execute(ctx, failing)
	time.Sleep(30 * time.Millisecond)

	err := cb.Execute(ctx, failing)
	assert.ErrorIs(t, err, errBackend)
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_SuccessThresholdInHalfOpen(t *testing.T) {
	cb := New("test",
		WithFailureThreshold(1),
		WithSuccessThreshold(2),
		WithMaxHalfOpenRequests(2),
		WithTimeout(10*time.Millisecond),
	)
	ctx := context.Background()

	_ = cb.Execute(ctx, failing)
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, cb.Execute(ctx, succeeding))
	assert.Equal(t, StateHalfOpen, cb.State(), "one success is not enough")

	require.NoError(t, cb.Execute(ctx, succeeding))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenLimitsRequests(t *testing.T) {
	cb := New("test",
		WithFailureThreshold(1),
		WithSuccessThreshold(2),
		WithMaxHalfOpenRequests(1),
		WithTimeout(10*time.Millisecond),
	)
	ctx := context.Background()

	_ = cb.Execute(ctx, failing)
	time.Sleep(20 * time.Millisecond)

	// First probe is admitted but needs another success to close,
	// leaving the breaker half-open with its only probe slot used.
	require.NoError(t, cb.Execute(ctx, succeeding))
	require.Equal(t, StateHalfOpen, cb.State())

	err := cb.Execute(ctx, succeeding)
	assert.ErrorIs(t, err, ErrTooManyRequests)
}

func TestCircuitBreaker_ExecuteWithFallback(t *testing.T) {
	cb := New("test", WithFailureThreshold(1))
	ctx := context.Background()

	_ = cb.Execute(ctx, failing)
	require.True(t, cb.IsOpen())

	fallbackCalled := false
	err := cb.ExecuteWithFallback(ctx, succeeding, func(cause error) error {
		fallbackCalled = true
		assert.ErrorIs(t, cause, ErrCircuitOpen)
		return nil
	})

	require.NoError(t, err)
	assert.True(t, fallbackCalled)
}

func TestCircuitBreaker_FallbackNotUsedForBackendErrors(t *testing.T) {
	cb := New("test", WithFailureThreshold(5))

	err := cb.ExecuteWithFallback(context.Background(), failing, func(error) error {
		t.Fatal("fallback must not run for ordinary backend errors")
		return nil
	})

	assert.ErrorIs(t, err, errBackend)
}

func TestCircuitBreaker_IsFailurePredicate(t *testing.T) {
	ignorable := errors.New("not found")
	cb := New("test",
		WithFailureThreshold(1),
		WithIsFailure(func(err error) bool { return !errors.Is(err, ignorable) }),
	)
	ctx := context.Background()

	err := cb.Execute(ctx, func(context.Context) error { return ignorable })
	assert.ErrorIs(t, err, ignorable)
	assert.Equal(t, StateClosed, cb.State(), "ignored errors do not trip the breaker")

	_ = cb.Execute(ctx, failing)
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_CountsAndReset(t *testing.T) {
	cb := New("test", WithFailureThreshold(10))
	ctx := context.Background()

	_ = cb.Execute(ctx, succeeding)
	_ = cb.Execute(ctx, succeeding)
	_ = cb.Execute(ctx, failing)

	counts := cb.Counts()
	assert.Equal(t, 3, counts.Requests)
	assert.Equal(t, 2, counts.TotalSuccesses)
	assert.Equal(t, 1, counts.TotalFailures)
	assert.Equal(t, 1, counts.ConsecutiveFailures)

	cb.Reset()
	assert.Equal(t, Counts{}, cb.Counts())
	assert.True(t, cb.IsClosed())
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	type transition struct{ from, to State }
	var transitions []transition

	cb := New("notifier",
		WithFailureThreshold(1),
		WithOnStateChange(func(name string, from, to State) {
			assert.Equal(t, "notifier", name)
			transitions = append(transitions, transition{from, to})
		}),
	)

	_ = cb.Execute(context.Background(), failing)

	require.Len(t, transitions, 1)
	assert.Equal(t, transition{StateClosed, StateOpen}, transitions[0])
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
}

func TestPresetBreakers(t *testing.T) {
	nb := NotifierBreaker(nil)
	assert.Equal(t, "notifier", nb.Name())
	assert.Equal(t, 3, nb.config.FailureThreshold)

	cbk := CacheBreaker(nil)
	assert.Equal(t, "cache", cbk.Name())
	assert.Equal(t, 5, cbk.config.FailureThreshold)
}
