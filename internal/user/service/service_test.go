package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AlibekovAA/taskflow/backend/internal/common/clock"
	commonerrors "github.com/AlibekovAA/taskflow/backend/internal/common/errors"
	"github.com/AlibekovAA/taskflow/backend/internal/common/logger"
	"github.com/AlibekovAA/taskflow/backend/internal/common/validation"
	"github.com/AlibekovAA/taskflow/backend/internal/user/domain"
	"github.com/AlibekovAA/taskflow/backend/internal/user/repository"
)

var testNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *repository.MemoryRepository) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	for _, u := range []domain.User{
		{ID: "u1", Login: "alice", PasswordHash: "h1", FirstName: "Alice"},
		{ID: "u2", Login: "bob", PasswordHash: "h2"},
	} {
		if err := repo.Create(context.Background(), u); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
	return NewService(repo, validation.New(), clock.NewMockClock(testNow), logger.Discard()), repo
}

func TestGetProfile(t *testing.T) {
	svc, _ := newTestService(t)

	user, err := svc.GetProfile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Login != "alice" {
		t.Errorf("expected alice, got %s", user.Login)
	}

	if _, err := svc.GetProfile(context.Background(), "nope"); !errors.Is(err, commonerrors.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestEditProfile_Success(t *testing.T) {
	svc, _ := newTestService(t)

	user, err := svc.EditProfile(context.Background(), "u1", "u1", EditProfileInput{
		FirstName: "  Alicia ",
		LastName:  "Smith",
		Email:     "alicia@example.com",
		Bio:       "writes code",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.FirstName != "Alicia" || user.LastName != "Smith" || user.Email != "alicia@example.com" {
		t.Errorf("unexpected profile: %+v", user)
	}
	if !user.UpdatedAt.Equal(testNow) {
		t.Errorf("expected updatedAt %v, got %v", testNow, user.UpdatedAt)
	}
}

func TestEditProfile_Errors(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name     string
		caller   domain.ID
		target   domain.ID
		input    EditProfileInput
		expected error
	}{
		{"other user", "u1", "u2", EditProfileInput{FirstName: "x"}, commonerrors.ErrForbidden},
		{"invalid email", "u1", "u1", EditProfileInput{Email: "not-an-email"}, commonerrors.ErrValidation},
		{"unknown user", "ghost", "ghost", EditProfileInput{}, commonerrors.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.EditProfile(context.Background(), tt.caller, tt.target, tt.input)
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestSummaries_DeduplicatesAndSkipsUnknown(t *testing.T) {
	svc, _ := newTestService(t)

	out, err := svc.Summaries(context.Background(), []string{"u1", "u1", "missing", "u2", ""})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(out))
	}
	if out["u1"].Login != "alice" || out["u1"].FirstName != "Alice" {
		t.Errorf("unexpected summary for u1: %+v", out["u1"])
	}
}
