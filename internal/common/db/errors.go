package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	pgx "github.com/jackc/pgx/v4"

	"github.com/AlibekovAA/taskflow/backend/internal/observability/metrics"
)

const backendLabel = "postgres"

// HandleQueryError records the query duration for table and maps pgx.ErrNoRows
// to notFoundErr. Other errors are counted and wrapped with the operation name.
func HandleQueryError(err error, notFoundErr error, operation, table string, startTime time.Time) error {
	metrics.DBQueryDurationSeconds.WithLabelValues(backendLabel, operation, table).Observe(time.Since(startTime).Seconds())

	if err == nil {
		return nil
	}
	if notFoundErr != nil && errors.Is(err, pgx.ErrNoRows) {
		return notFoundErr
	}
	metrics.DBQueryErrors.WithLabelValues(backendLabel, operation, table, fmt.Sprintf("%T", err)).Inc()
	return fmt.Errorf("failed to %s: %w", operation, err)
}

func HandleExecError(err error, operation, table string, startTime time.Time) error {
	return HandleQueryError(err, nil, operation, table, startTime)
}

// HandleInsertError is HandleExecError for inserts guarded by a unique
// constraint: a unique violation becomes conflictErr and is not counted as a
// query error.
func HandleInsertError(err error, conflictErr error, operation, table string, startTime time.Time) error {
	if IsUniqueViolation(err) {
		metrics.DBQueryDurationSeconds.WithLabelValues(backendLabel, operation, table).Observe(time.Since(startTime).Seconds())
		return conflictErr
	}
	return HandleExecError(err, operation, table, startTime)
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
