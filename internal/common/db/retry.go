package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"

	"github.com/AlibekovAA/taskflow/backend/internal/common/logger"
)

type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

var DefaultRetryConfig = RetryConfig{
	MaxAttempts:  3,
	InitialDelay: 100 * time.Millisecond,
	MaxDelay:     2 * time.Second,
	Multiplier:   2.0,
}

func (c RetryConfig) next(delay time.Duration) time.Duration {
	delay = time.Duration(float64(delay) * c.Multiplier)
	return min(delay, c.MaxDelay)
}

// transient reports errors worth another attempt against the same statement.
func transient(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgerrcode.IsConnectionException(pgErr.Code) ||
		pgErr.Code == pgerrcode.SerializationFailure ||
		pgErr.Code == pgerrcode.DeadlockDetected ||
		pgErr.Code == pgerrcode.LockNotAvailable
}

// RetryWithBackoff runs op until it succeeds, fails with a non-transient
// error or runs out of attempts.
func RetryWithBackoff(ctx context.Context, log *logger.Logger, cfg RetryConfig, op func() error) error {
	attempts := max(cfg.MaxAttempts, 1)
	delay := cfg.InitialDelay

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = op(); err == nil {
			if attempt > 1 {
				log.Infof("database write succeeded on attempt %d", attempt)
			}
			return nil
		}
		if !transient(err) || attempt == attempts {
			break
		}

		log.Warnf("transient database error (attempt %d/%d), retrying in %v: %v", attempt, attempts, delay, err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		case <-timer.C:
		}
		delay = cfg.next(delay)
	}

	if transient(err) {
		return fmt.Errorf("database write failed after %d attempts: %w", attempts, err)
	}
	return err
}
