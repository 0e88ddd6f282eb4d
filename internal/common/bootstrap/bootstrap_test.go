package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AlibekovAA/taskflow/backend/internal/common/config"
	"github.com/AlibekovAA/taskflow/backend/internal/common/constants"
	"github.com/AlibekovAA/taskflow/backend/internal/common/logger"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	app, err := NewApp(context.Background(), logger.Discard(), config.Config{
		StorageBackend:          config.StorageBackendMemory,
		JWTSecret:               constants.TestJWTSecret,
		AccessTokenTTL:          constants.TestAccessTokenTTL,
		RequestTimeout:          5 * time.Second,
		BcryptCost:              4,
		Location:                time.UTC,
		ProjectWriteMode:        config.WriteModeOptimistic,
		ProjectWriteRetries:     2,
		CircuitBreakerThreshold: 5,
		CircuitBreakerTimeout:   time.Second,
		CircuitBreakerReset:     time.Minute,
	})
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	t.Cleanup(func() { app.Close(context.Background()) })
	return app
}

func call(t *testing.T, h http.Handler, method, path, token, body string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	out := map[string]any{}
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec.Code, out
}

func TestApp_RegisterLoginAndBuildBoard(t *testing.T) {
	h := newTestApp(t).Handler

	status, _ := call(t, h, http.MethodPost, "/registration", "", `{"login":"alice","password":"pw123456","sex":"female"}`)
	if status != http.StatusCreated {
		t.Fatalf("registration: expected 201, got %d", status)
	}

	status, body := call(t, h, http.MethodPost, "/api/login", "", `{"login":"alice","password":"pw123456"}`)
	if status != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", status)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("expected token in %v", body)
	}

	status, body = call(t, h, http.MethodPost, "/projects", token, `{"name":"Launch"}`)
	if status != http.StatusCreated {
		t.Fatalf("create project: expected 201, got %d: %v", status, body)
	}
	project, _ := body["project"].(map[string]any)
	projectID, _ := project["_id"].(string)

	status, body = call(t, h, http.MethodGet, "/api/project/"+projectID, token, "")
	if status != http.StatusOK {
		t.Fatalf("get project: expected 200, got %d: %v", status, body)
	}
	view, _ := body["project"].(map[string]any)
	creator, _ := view["createdBy"].(map[string]any)
	if creator["login"] != "alice" {
		t.Errorf("expected creator login alice, got %v", creator)
	}

	status, _ = call(t, h, http.MethodGet, "/getProfile", token, "")
	if status != http.StatusOK {
		t.Errorf("get profile: expected 200, got %d", status)
	}
}

func TestApp_ProtectedRoutesRequireToken(t *testing.T) {
	h := newTestApp(t).Handler

	if status, _ := call(t, h, http.MethodGet, "/projects", "", ""); status != http.StatusUnauthorized {
		t.Errorf("missing token: expected 401, got %d", status)
	}
	if status, _ := call(t, h, http.MethodGet, "/api/projects", "not-a-jwt", ""); status != http.StatusForbidden {
		t.Errorf("invalid token: expected 403, got %d", status)
	}
}

func TestApp_HealthAndMetrics(t *testing.T) {
	h := newTestApp(t).Handler

	status, body := call(t, h, http.MethodGet, "/health", "", "")
	if status != http.StatusOK || body["status"] != "ok" {
		t.Errorf("health: got %d %v", status, body)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "taskflow_") {
		t.Errorf("metrics: expected taskflow series, got %d", rec.Code)
	}
}
