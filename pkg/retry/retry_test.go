package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastOpts keeps backoff negligible so tests stay quick.
func fastOpts(extra ...Option) []Option {
	opts := []Option{
		WithInitialDelay(time.Millisecond),
		WithMaxDelay(5 * time.Millisecond),
		WithJitter(0),
	}
	return append(opts, extra...)
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return Retryable(errors.New("still warming up"))
		}
		return nil
	}, fastOpts(WithMaxAttempts(5))...)

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	cause := errors.New("bad credentials")
	attempts := 0

	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return Permanent(cause)
	}, fastOpts(WithMaxAttempts(5))...)

	assert.Equal(t, 1, attempts)
	assert.Equal(t, cause, err, "permanent errors come back unwrapped")
}

func TestDo_PlainErrorIsNotRetried(t *testing.T) {
	plain := errors.New("not marked retryable")
	attempts := 0

	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return plain
	}, fastOpts(WithMaxAttempts(5))...)

	assert.Equal(t, 1, attempts)
	assert.Equal(t, plain, err)
}

func TestDo_AttemptsExhausted(t *testing.T) {
	cause := errors.New("connection refused")
	attempts := 0

	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return Retryable(cause)
	}, fastOpts(WithMaxAttempts(3))...)

	assert.Equal(t, 3, attempts)
	assert.Equal(t, cause, err, "final error is unwrapped")
}

func TestDo_WithRetryIf(t *testing.T) {
	transient := errors.New("timeout")
	attempts := 0

	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 2 {
			return transient
		}
		return nil
	}, fastOpts(
		WithMaxAttempts(5),
		WithRetryIf(func(err error) bool { return errors.Is(err, transient) }),
	)...)

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestDo_OnRetryCallback(t *testing.T) {
	var retriedAttempts []int

	_ = Do(context.Background(), func(ctx context.Context) error {
		return Retryable(errors.New("nope"))
	}, fastOpts(
		WithMaxAttempts(3),
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			retriedAttempts = append(retriedAttempts, attempt)
		}),
	)...)

	// No callback for the final attempt - there is no retry after it.
	assert.Equal(t, []int{1, 2}, retriedAttempts)
}

func TestDo_ContextCancelledBetweenAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	cause := errors.New("unavailable")
	err := Do(ctx, func(ctx context.Context) error {
		attempts++
		cancel()
		return Retryable(cause)
	}, WithMaxAttempts(5), WithInitialDelay(10*time.Millisecond), WithJitter(0))

	assert.Equal(t, 1, attempts)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
}

func TestDoWithData(t *testing.T) {
	attempts := 0
	got, err := DoWithData(context.Background(), func(ctx context.Context) (int, error) {
		attempts++
		if attempts < 2 {
			return 0, Retryable(errors.New("flaky"))
		}
		return 42, nil
	}, fastOpts(WithMaxAttempts(3))...)

	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestCalculateDelay_ExponentialAndCapped(t *testing.T) {
	r := New(
		WithInitialDelay(100*time.Millisecond),
		WithMultiplier(2.0),
		WithMaxDelay(300*time.Millisecond),
		WithJitter(0),
	)

	assert.Equal(t, 100*time.Millisecond, r.calculateDelay(1))
	assert.Equal(t, 200*time.Millisecond, r.calculateDelay(2))
	assert.Equal(t, 300*time.Millisecond, r.calculateDelay(3), "capped at max delay")
	assert.Equal(t, 300*time.Millisecond, r.calculateDelay(10))
}

func TestRetryableAndPermanentWrappers(t *testing.T) {
	cause := errors.New("boom")

	assert.True(t, IsRetryable(Retryable(cause)))
	assert.False(t, IsRetryable(cause))
	assert.True(t, IsPermanent(Permanent(cause)))
	assert.False(t, IsPermanent(Retryable(cause)))

	assert.Nil(t, Retryable(nil))
	assert.Nil(t, Permanent(nil))

	assert.ErrorIs(t, Retryable(cause), cause)
	assert.Equal(t, "boom", Retryable(cause).Error())
}

func TestPresetRetriers(t *testing.T) {
	assert.Equal(t, 5, ConnectRetrier().config.MaxAttempts)
	assert.Equal(t, 3, DatabaseRetrier().config.MaxAttempts)
}
