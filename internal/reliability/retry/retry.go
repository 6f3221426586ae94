package retry

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// Config controls how many attempts an operation gets and how the
// pause between attempts grows.
type Config struct {
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// DefaultConfig is what the workers use when nothing overrides it.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts:       3,
		InitialBackoff:    100 * time.Millisecond,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// Retryable is an operation worth repeating on transient failure.
type Retryable[T any] func(ctx context.Context) (T, error)

// Do runs fn up to cfg.MaxAttempts times with exponential backoff,
// returning the first success or the last error. Cancelling ctx stops
// the loop between attempts and during a backoff pause.
func Do[T any](ctx context.Context, cfg *Config, log *slog.Logger, op string, fn Retryable[T]) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == cfg.MaxAttempts {
			break
		}

		pause := backoffFor(attempt-1, cfg)
		log.Warn("operation failed, retrying",
			slog.String("operation", op),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.MaxAttempts),
			slog.Duration("backoff", pause),
			slog.String("error", err.Error()),
		)

		timer := time.NewTimer(pause)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, fmt.Errorf("operation '%s' failed after %d attempts: %w", op, cfg.MaxAttempts, lastErr)
}

func backoffFor(attemptNum int, cfg *Config) time.Duration {
	pause := time.Duration(float64(cfg.InitialBackoff) * math.Pow(cfg.BackoffMultiplier, float64(attemptNum)))
	if pause > cfg.MaxBackoff {
		pause = cfg.MaxBackoff
	}
	return pause
}
