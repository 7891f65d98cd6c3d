package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/laktaabhutan/LAK-Goods-Transport-Application/data/config"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/data/metrics"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrUnavailable reports a storage call that timed out twice, failed on the
// network, or was refused by the open circuit breaker.
var ErrUnavailable = errors.New("storage unavailable")

// Executor bounds every storage call with a timeout, retries a timed out call
// once after a backoff and trips a circuit breaker on repeated outages.
type Executor struct {
	timeout   time.Duration
	backoff   time.Duration
	breaker   *gobreaker.CircuitBreaker
	collector *metrics.Collector
}

// NewExecutor creates an executor from the mongodb and breaker settings.
func NewExecutor(db *config.MongoDB, br *config.Breaker, collector *metrics.Collector) *Executor {
	if db == nil {
		db = &config.MongoDB{}
	}
	if br == nil {
		br = &config.Breaker{}
	}

	e := &Executor{
		timeout:   db.Timeout,
		backoff:   db.RetryBackoff,
		collector: collector,
	}
	if e.timeout <= 0 {
		e.timeout = 5 * time.Second
	}
	if e.backoff <= 0 {
		e.backoff = 100 * time.Millisecond
	}

	maxFailures := br.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	e.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "storage",
		Timeout: br.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			return !errors.Is(err, ErrUnavailable)
		},
		OnStateChange: func(_ string, _, to gobreaker.State) {
			collector.HealthCheck("storage_breaker", to == gobreaker.StateClosed)
		},
	})
	return e
}

// Do runs fn under the executor's policy. op names the call in metrics.
func (e *Executor) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	_, err := e.breaker.Execute(func() (any, error) {
		return nil, e.attempt(ctx, op, fn)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}
	return err
}

// State returns the breaker state.
func (e *Executor) State() gobreaker.State {
	return e.breaker.State()
}

func (e *Executor) attempt(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	err := e.call(ctx, op, fn)
	if !IsTransient(err) {
		return err
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}

	e.collector.StorageRetry(op)
	timer := time.NewTimer(e.backoff)
	select {
	case <-ctx.Done():
		timer.Stop()
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, ctx.Err())
	case <-timer.C:
	}

	err = e.call(ctx, op, fn)
	if IsTransient(err) {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}
	return err
}

func (e *Executor) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	err := fn(cctx)
	e.collector.StorageOperation(op, time.Since(start), err)
	return err
}

// IsTransient reports whether err is a timeout or outage worth one retry.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, ErrUnavailable) ||
		mongo.IsTimeout(err) ||
		mongo.IsNetworkError(err)
}
