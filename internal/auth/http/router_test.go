package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/AlibekovAA/taskflow/backend/internal/auth/service"
	"github.com/AlibekovAA/taskflow/backend/internal/common/clock"
	"github.com/AlibekovAA/taskflow/backend/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/taskflow/backend/internal/common/crypto"
	"github.com/AlibekovAA/taskflow/backend/internal/common/logger"
	"github.com/AlibekovAA/taskflow/backend/internal/common/resilience"
	"github.com/AlibekovAA/taskflow/backend/internal/common/validation"
	userrepo "github.com/AlibekovAA/taskflow/backend/internal/user/repository"
)

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	log := logger.Discard()
	mockClock := clock.NewMockClock(time.Now())
	ids := commoncrypto.NewUUIDGenerator()

	sessions := service.NewSessionManager(constants.TestJWTSecret, ids, constants.TestAccessTokenTTL, mockClock)
	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{Threshold: 5, Timeout: time.Second, ResetAfter: time.Minute})
	svc := service.NewAuthService(
		userrepo.NewMemoryRepository(),
		sessions,
		commoncrypto.NewBcryptHasher(bcrypt.MinCost),
		ids,
		validation.New(),
		breaker,
		mockClock,
		log,
	)

	r := chi.NewRouter()
	NewHandler(svc, log).Register(r)
	return r
}

func post(t *testing.T, h http.Handler, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthHTTP_Register_InvalidJSON(t *testing.T) {
	h := newTestRouter(t)

	rec := post(t, h, "/registration", "not json", "")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	var env errorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if env.Code != "INVALID_JSON" {
		t.Errorf("expected code INVALID_JSON, got %s", env.Code)
	}
}

func TestAuthHTTP_Register_MissingFields(t *testing.T) {
	h := newTestRouter(t)

	rec := post(t, h, "/registration", map[string]string{"login": "alice"}, "")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestAuthHTTP_Register_PasswordOverBcryptLimit(t *testing.T) {
	h := newTestRouter(t)

	rec := post(t, h, "/registration", map[string]string{
		"login":    "bob",
		"password": strings.Repeat("ż", 40),
		"sex":      "male",
	}, "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
	var env errorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if env.Code != "VALIDATION_FAILED" || env.Message != "password must be at most 72 bytes" {
		t.Errorf("unexpected envelope: %+v", env)
	}
}

func TestAuthHTTP_FullFlow(t *testing.T) {
	h := newTestRouter(t)
	creds := map[string]string{"login": "alice", "password": "password123", "sex": "female"}

	rec := post(t, h, "/registration", creds, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("password")) {
		t.Error("expected registration response not to contain the password hash")
	}

	rec = post(t, h, "/registration", creds, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected duplicate registration to return 400, got %d", rec.Code)
	}

	rec = post(t, h, "/login", map[string]string{"login": "alice", "password": "wrong"}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected bad credentials to return 400, got %d", rec.Code)
	}

	rec = post(t, h, "/login", map[string]string{"login": "alice", "password": "password123"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var login tokenResponse
	if err := json.NewDecoder(rec.Body).Decode(&login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if login.Token == "" || login.ExpiresAt.IsZero() {
		t.Fatalf("expected token and expiry, got %+v", login)
	}

	rec = post(t, h, "/refreshToken", nil, login.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected refresh 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthHTTP_Refresh_TokenErrors(t *testing.T) {
	h := newTestRouter(t)

	if rec := post(t, h, "/refreshToken", nil, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected missing token to return 401, got %d", rec.Code)
	}
	if rec := post(t, h, "/refreshToken", nil, "invalid.token.value"); rec.Code != http.StatusForbidden {
		t.Errorf("expected invalid token to return 403, got %d", rec.Code)
	}
}
