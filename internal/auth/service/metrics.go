package service

import (
	"github.com/AlibekovAA/taskflow/backend/internal/observability/metrics"
)

func recordRegistration(outcome string) {
	metrics.RegistrationsTotal.WithLabelValues(outcome).Inc()
}

func recordLogin(outcome string) {
	metrics.LoginsTotal.WithLabelValues(outcome).Inc()
}

func incrementAccessTokensIssued() {
	metrics.AccessTokensIssued.Inc()
}

func incrementAccessTokensRefreshed() {
	metrics.AccessTokensRefreshed.Inc()
}
