package service

import (
	"strings"

	commonerrors "github.com/AlibekovAA/taskflow/backend/internal/common/errors"
	"github.com/AlibekovAA/taskflow/backend/internal/observability/metrics"
)

func recordOperation(op string, err error) {
	metrics.ProjectOperationsTotal.WithLabelValues(op, outcome(err)).Inc()
}

func recordWriteConflict(op string) {
	metrics.ProjectWriteConflicts.WithLabelValues(op).Inc()
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	if de, ok := commonerrors.AsDomainError(err); ok {
		return strings.ToLower(string(de.Category()))
	}
	return "error"
}
