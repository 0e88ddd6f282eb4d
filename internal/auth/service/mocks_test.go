package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/AlibekovAA/taskflow/backend/internal/common/clock"
	"github.com/AlibekovAA/taskflow/backend/internal/common/constants"
	commonerrors "github.com/AlibekovAA/taskflow/backend/internal/common/errors"
	"github.com/AlibekovAA/taskflow/backend/internal/common/logger"
	"github.com/AlibekovAA/taskflow/backend/internal/common/resilience"
	"github.com/AlibekovAA/taskflow/backend/internal/common/validation"
	userdomain "github.com/AlibekovAA/taskflow/backend/internal/user/domain"
)

type mockUserRepo struct {
	createFunc        func(ctx context.Context, user userdomain.User) error
	findByLoginFunc   func(ctx context.Context, login string) (userdomain.User, error)
	findByIDFunc      func(ctx context.Context, id userdomain.ID) (userdomain.User, error)
	findByIDsFunc     func(ctx context.Context, ids []userdomain.ID) ([]userdomain.User, error)
	updateProfileFunc func(ctx context.Context, id userdomain.ID, profile userdomain.Profile, updatedAt time.Time) (userdomain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByLogin(ctx context.Context, login string) (userdomain.User, error) {
	if m.findByLoginFunc != nil {
		return m.findByLoginFunc(ctx, login)
	}
	return userdomain.User{}, commonerrors.ErrUserNotFound
}

func (m *mockUserRepo) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return userdomain.User{}, commonerrors.ErrUserNotFound
}

func (m *mockUserRepo) FindByIDs(ctx context.Context, ids []userdomain.ID) ([]userdomain.User, error) {
	if m.findByIDsFunc != nil {
		return m.findByIDsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id userdomain.ID, profile userdomain.Profile, updatedAt time.Time) (userdomain.User, error) {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, id, profile, updatedAt)
	}
	return userdomain.User{}, commonerrors.ErrUserNotFound
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *mockHasher) Compare(hash, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	if hash != "hashed_"+password {
		return errors.New("password mismatch")
	}
	return nil
}

type sequenceIDGenerator struct {
	next int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("id-%d", g.next), nil
}

var testNow = time.Date(2024, 4, 2, 14, 0, 0, 0, time.UTC)

func setupAuthService(t *testing.T) (*AuthService, *mockUserRepo, *mockHasher, *clock.MockClock) {
	t.Helper()

	repo := &mockUserRepo{}
	hasher := &mockHasher{}
	mockClock := clock.NewMockClock(testNow)
	ids := &sequenceIDGenerator{}
	log := logger.Discard()

	sessions := NewSessionManager(constants.TestJWTSecret, ids, constants.TestAccessTokenTTL, mockClock)
	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Threshold:  3,
		Timeout:    time.Second,
		ResetAfter: time.Minute,
		Clock:      mockClock,
	})

	svc := NewAuthService(repo, sessions, hasher, ids, validation.New(), breaker, mockClock, log)
	return svc, repo, hasher, mockClock
}
