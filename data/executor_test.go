package data

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/laktaabhutan/LAK-Goods-Transport-Application/data/config"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExecutor(maxFailures uint32) *Executor {
	return NewExecutor(
		&config.MongoDB{Timeout: 20 * time.Millisecond, RetryBackoff: time.Millisecond},
		&config.Breaker{MaxFailures: maxFailures, OpenTimeout: time.Minute},
		nil,
	)
}

func TestExecutorRetriesTimeoutOnce(t *testing.T) {
	e := newTestExecutor(5)
	var calls atomic.Int32

	err := e.Do(context.Background(), "get", func(ctx context.Context) error {
		if calls.Add(1) == 1 {
			<-ctx.Done()
			return ctx.Err()
		}
		return nil
	})

	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())
}

func TestExecutorSurfacesUnavailable(t *testing.T) {
	e := newTestExecutor(5)
	var calls atomic.Int32

	err := e.Do(context.Background(), "get", func(ctx context.Context) error {
		calls.Add(1)
		<-ctx.Done()
		return ctx.Err()
	})

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.EqualValues(t, 2, calls.Load())
}

func TestExecutorDoesNotRetryOtherErrors(t *testing.T) {
	e := newTestExecutor(5)
	boom := errors.New("duplicate key")
	var calls atomic.Int32

	err := e.Do(context.Background(), "create", func(context.Context) error {
		calls.Add(1)
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrUnavailable)
	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, gobreaker.StateClosed, e.State())
}

func TestExecutorBreakerOpens(t *testing.T) {
	e := newTestExecutor(2)
	timeout := func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}

	for i := 0; i < 2; i++ {
		assert.ErrorIs(t, e.Do(context.Background(), "get", timeout), ErrUnavailable)
	}
	assert.Equal(t, gobreaker.StateOpen, e.State())

	var called bool
	err := e.Do(context.Background(), "get", func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, called)
}

func TestExecutorBoundsEveryCall(t *testing.T) {
	e := newTestExecutor(5)
	err := e.Do(context.Background(), "get", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return nil
	})
	require.NoError(t, err)
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.True(t, IsTransient(context.DeadlineExceeded))
	assert.True(t, IsTransient(ErrUnavailable))
	assert.False(t, IsTransient(errors.New("x")))
	assert.False(t, IsTransient(context.Canceled))
}
