package kv

import (
	"context"
	"errors"
	"time"

	"github.com/gyaan-arena/arena-hub/pkg/circuitbreaker"
	"github.com/gyaan-arena/arena-hub/pkg/logger"
	"github.com/gyaan-arena/arena-hub/pkg/retry"
)

// Resilient wraps a network-backed Store with retries and a circuit
// breaker. A missing document is an answer, not a failure: ErrNotFound
// passes through untouched, is never retried and never trips the breaker.
//
// The file and memory stores do not need this wrapper.
type Resilient struct {
	inner   Store
	retrier *retry.Retrier
	breaker *circuitbreaker.CircuitBreaker
	log     *logger.Logger
}

var _ Store = (*Resilient)(nil)

// NewResilient wraps store with the standard store retry and breaker
// presets. Nil log falls back to the default logger.
func NewResilient(store Store, log *logger.Logger) *Resilient {
	if log == nil {
		log = logger.Default()
	}
	log = log.With(logger.String("component", "resilient_store"))

	breaker := circuitbreaker.New(
		"document-store",
		circuitbreaker.WithFailureThreshold(3),
		circuitbreaker.WithSuccessThreshold(1),
		circuitbreaker.WithTimeout(10*time.Second),
		circuitbreaker.WithIsFailure(isStoreFailure),
		circuitbreaker.WithOnStateChange(func(name string, from, to circuitbreaker.State) {
			log.Warn("circuit state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		}),
	)

	retrier := retry.New(
		retry.WithMaxAttempts(3),
		retry.WithInitialDelay(50*time.Millisecond),
		retry.WithMaxDelay(time.Second),
		retry.WithRetryIf(isStoreFailure),
	)

	return &Resilient{
		inner:   store,
		retrier: retrier,
		breaker: breaker,
		log:     log,
	}
}

// isStoreFailure reports whether err indicates store trouble rather
// than a caller mistake or an absent document.
func isStoreFailure(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrNotFound) &&
		!errors.Is(err, ErrKeyEmpty) &&
		!errors.Is(err, ErrNilValue)
}

// Get implements Store.
func (r *Resilient) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		return r.retrier.Do(ctx, func(ctx context.Context) error {
			var opErr error
			data, opErr = r.inner.Get(ctx, key)
			return opErr
		})
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Set implements Store.
func (r *Resilient) Set(ctx context.Context, key string, value []byte) error {
	return r.breaker.Execute(ctx, func(ctx context.Context) error {
		return r.retrier.Do(ctx, func(ctx context.Context) error {
			return r.inner.Set(ctx, key, value)
		})
	})
}

// Delete implements Store.
func (r *Resilient) Delete(ctx context.Context, key string) error {
	return r.breaker.Execute(ctx, func(ctx context.Context) error {
		return r.retrier.Do(ctx, func(ctx context.Context) error {
			return r.inner.Delete(ctx, key)
		})
	})
}

// Close implements Store.
func (r *Resilient) Close() error {
	return r.inner.Close()
}
