package jwtverify

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	commonerrors "github.com/AlibekovAA/taskflow/backend/internal/common/errors"
	commonhttp "github.com/AlibekovAA/taskflow/backend/internal/common/http"
	"github.com/AlibekovAA/taskflow/backend/internal/common/logger"
	"github.com/AlibekovAA/taskflow/backend/internal/observability/metrics"
)

// Claims is the caller identity carried by an access token.
type Claims struct {
	UserID    string
	Login     string
	ExpiresAt time.Time
}

// TokenClaims is the signed payload: {"id", "login"} plus the registered claims.
type TokenClaims struct {
	UserID string `json:"id"`
	Login  string `json:"login"`
	jwt.RegisteredClaims
}

type contextKey string

const claimsKey contextKey = "jwt_claims"

type Verifier struct {
	secret []byte
	now    func() time.Time
}

func NewVerifier(secret string, now func() time.Time) *Verifier {
	if now == nil {
		now = time.Now
	}
	return &Verifier{secret: []byte(secret), now: now}
}

func (v *Verifier) Verify(tokenString string) (Claims, error) {
	metrics.JWTValidationsTotal.Inc()
	claims, err := ParseToken(tokenString, v.secret, v.now)
	if err != nil {
		metrics.JWTValidationsFailed.Inc()
	}
	return claims, err
}

func Middleware(v *Verifier, log *logger.Logger) func(next http.Handler) http.Handler {
	errHandler := commonhttp.NewErrorHandler(log)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := BearerToken(r)
			if !ok {
				log.WithFields(r.Context(), logger.Fields{
					"action": "jwt_auth_missing",
					"path":   r.URL.Path,
				}).Warn("jwt auth failed: missing or invalid authorization header")
				errHandler.HandleError(w, r, commonerrors.ErrMissingToken)
				return
			}

			claims, err := v.Verify(tokenString)
			if err != nil {
				log.WithFields(r.Context(), logger.Fields{
					"action": "jwt_auth_invalid",
					"path":   r.URL.Path,
				}).Warnf("jwt auth failed: %v", err)
				errHandler.HandleError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	raw := r.Header.Get("Authorization")
	if !strings.HasPrefix(raw, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
	return token, token != ""
}

func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func FromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(Claims)
	return claims, ok
}

func ParseToken(tokenString string, secret []byte, now func() time.Time) (Claims, error) {
	if now == nil {
		now = time.Now
	}

	var tc TokenClaims
	parsed, err := jwt.ParseWithClaims(tokenString, &tc, func(token *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		return Claims{}, commonerrors.ErrInvalidToken.WithCause(err)
	}
	if !parsed.Valid {
		return Claims{}, commonerrors.ErrInvalidToken
	}

	if tc.UserID == "" || tc.Login == "" {
		return Claims{}, commonerrors.ErrMissingTokenClaims
	}

	claims := Claims{UserID: tc.UserID, Login: tc.Login}
	if tc.ExpiresAt != nil {
		claims.ExpiresAt = tc.ExpiresAt.Time
	}
	return claims, nil
}
