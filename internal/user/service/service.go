package service

import (
	"context"
	"errors"
	"strings"

	"github.com/AlibekovAA/taskflow/backend/internal/common/clock"
	commonerrors "github.com/AlibekovAA/taskflow/backend/internal/common/errors"
	"github.com/AlibekovAA/taskflow/backend/internal/common/logger"
	"github.com/AlibekovAA/taskflow/backend/internal/common/validation"
	"github.com/AlibekovAA/taskflow/backend/internal/user/domain"
	"github.com/AlibekovAA/taskflow/backend/internal/user/repository"
)

type EditProfileInput struct {
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Email     string `json:"email" validate:"omitempty,email,max=254"`
	Bio       string `json:"bio" validate:"max=2000"`
}

// Service serves profile reads and edits and resolves display information
// for other components.
type Service struct {
	repo      repository.Repository
	validator *validation.Validator
	clock     clock.Clock
	log       *logger.Logger
}

func NewService(repo repository.Repository, validator *validation.Validator, clk clock.Clock, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		clock:     clk,
		log:       log,
	}
}

func (s *Service) GetProfile(ctx context.Context, id domain.ID) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logFailure(ctx, "get_profile", id, err)
		return domain.User{}, wrapStorageError(err)
	}
	return user, nil
}

// EditProfile updates the caller's own profile. Editing anyone else's is forbidden.
func (s *Service) EditProfile(ctx context.Context, callerID, targetID domain.ID, input EditProfileInput) (domain.User, error) {
	if callerID != targetID {
		s.log.WithFields(ctx, logger.Fields{
			"user_id":   string(callerID),
			"target_id": string(targetID),
			"action":    "edit_profile_forbidden",
		}).Warn("edit profile rejected: not the profile owner")
		return domain.User{}, commonerrors.ErrForbidden.WithMessage("cannot edit another user's profile")
	}

	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.TrimSpace(input.Email)

	if err := s.validator.Struct(input); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(callerID),
			"action":  "edit_profile_validation_failed",
		}).Warnf("edit profile validation failed: %v", err)
		return domain.User{}, err
	}

	user, err := s.repo.UpdateProfile(ctx, targetID, domain.Profile{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Bio:       input.Bio,
	}, s.clock.Now())
	if err != nil {
		s.logFailure(ctx, "edit_profile", targetID, err)
		return domain.User{}, wrapStorageError(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"action":  "edit_profile_success",
	}).Info("profile updated")

	return user, nil
}

// Summaries returns display information keyed by id. Unknown ids are omitted.
func (s *Service) Summaries(ctx context.Context, ids []string) (map[string]domain.Summary, error) {
	userIDs := make([]domain.ID, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		userIDs = append(userIDs, domain.ID(id))
	}

	users, err := s.repo.FindByIDs(ctx, userIDs)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"count":  len(userIDs),
			"action": "user_summaries_failed",
		}).Errorf("failed to load user summaries: %v", err)
		return nil, wrapStorageError(err)
	}

	out := make(map[string]domain.Summary, len(users))
	for _, u := range users {
		out[string(u.ID)] = u.Summary()
	}
	return out, nil
}

func (s *Service) logFailure(ctx context.Context, action string, id domain.ID, err error) {
	entry := s.log.WithFields(ctx, logger.Fields{
		"user_id": string(id),
		"action":  action + "_failed",
	})
	if errors.Is(err, commonerrors.ErrUserNotFound) {
		entry.Warn("user not found")
		return
	}
	entry.Errorf("%s failed: %v", action, err)
}

func wrapStorageError(err error) error {
	if commonerrors.IsDomainError(err) {
		return err
	}
	return commonerrors.ErrDatabaseError.WithCause(err)
}
