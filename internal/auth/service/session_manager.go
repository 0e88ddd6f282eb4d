package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	authdomain "github.com/AlibekovAA/taskflow/backend/internal/auth/domain"
	"github.com/AlibekovAA/taskflow/backend/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/taskflow/backend/internal/common/crypto"
	"github.com/AlibekovAA/taskflow/backend/internal/common/jwtverify"
)

// SessionManager issues, verifies and refreshes self-contained HS256 access
// tokens. It keeps no state; an expired token cannot be refreshed.
type SessionManager struct {
	jwtSecret      []byte
	idGenerator    commoncrypto.IDGenerator
	clock          clock.Clock
	accessTokenTTL time.Duration
	verifier       *jwtverify.Verifier
}

func NewSessionManager(
	jwtSecret string,
	idGenerator commoncrypto.IDGenerator,
	accessTokenTTL time.Duration,
	clk clock.Clock,
) *SessionManager {
	return &SessionManager{
		jwtSecret:      []byte(jwtSecret),
		idGenerator:    idGenerator,
		clock:          clk,
		accessTokenTTL: accessTokenTTL,
		verifier:       jwtverify.NewVerifier(jwtSecret, clk.Now),
	}
}

func (sm *SessionManager) Issue(userID, login string) (authdomain.Token, error) {
	jti, err := sm.idGenerator.NewID()
	if err != nil {
		return authdomain.Token{}, ErrTokenIssueFailed.WithCause(err)
	}

	now := sm.clock.Now()
	expiresAt := now.Add(sm.accessTokenTTL)
	claims := jwtverify.TokenClaims{
		UserID: userID,
		Login:  login,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(sm.jwtSecret)
	if err != nil {
		return authdomain.Token{}, ErrTokenIssueFailed.WithCause(err)
	}

	incrementAccessTokensIssued()
	// exp is encoded with second precision; report what the token actually carries.
	return authdomain.Token{Value: tokenString, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (sm *SessionManager) Verify(tokenString string) (jwtverify.Claims, error) {
	return sm.verifier.Verify(tokenString)
}

// Refresh re-issues a token with the same identity claims and a fresh expiry.
func (sm *SessionManager) Refresh(tokenString string) (authdomain.Token, error) {
	claims, err := sm.Verify(tokenString)
	if err != nil {
		return authdomain.Token{}, err
	}

	token, err := sm.Issue(claims.UserID, claims.Login)
	if err != nil {
		return authdomain.Token{}, err
	}

	incrementAccessTokensRefreshed()
	return token, nil
}

func (sm *SessionManager) Verifier() *jwtverify.Verifier {
	return sm.verifier
}
