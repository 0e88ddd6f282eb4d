package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AlibekovAA/taskflow/backend/internal/common/logger"
)

func TestNewBaseRouter_UnknownRouteUsesEnvelope(t *testing.T) {
	r := NewBaseRouter(logger.Discard(), BaseOptions{AllowedOrigin: "*", RequestTimeout: time.Second})
	r.Get("/health", HealthHandler(logger.Discard()))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var env ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Code != CodeNotFound {
		t.Errorf("expected code %s, got %s", CodeNotFound, env.Code)
	}
	if env.TraceID == "" || rec.Header().Get(traceIDHeader) != env.TraceID {
		t.Errorf("expected trace id in body and header, got %q / %q", env.TraceID, rec.Header().Get(traceIDHeader))
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers on unknown routes")
	}
}

func TestNewBaseRouter_Health(t *testing.T) {
	r := NewBaseRouter(logger.Discard(), BaseOptions{AllowedOrigin: "*", RequestTimeout: time.Second})
	r.Get("/health", HealthHandler(logger.Discard()))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
