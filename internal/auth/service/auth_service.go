package service

import (
	"context"
	"errors"
	"strings"

	authdomain "github.com/AlibekovAA/taskflow/backend/internal/auth/domain"
	"github.com/AlibekovAA/taskflow/backend/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/taskflow/backend/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/taskflow/backend/internal/common/errors"
	"github.com/AlibekovAA/taskflow/backend/internal/common/logger"
	"github.com/AlibekovAA/taskflow/backend/internal/common/resilience"
	"github.com/AlibekovAA/taskflow/backend/internal/common/validation"
	userdomain "github.com/AlibekovAA/taskflow/backend/internal/user/domain"
	userrepo "github.com/AlibekovAA/taskflow/backend/internal/user/repository"
)

type RegisterInput struct {
	Login    string `json:"login" validate:"notblank,max=64"`
	Password string `json:"password" validate:"required,maxbytes=72"`
	Sex      string `json:"sex" validate:"notblank,max=32"`
}

type LoginInput struct {
	Login    string `json:"login" validate:"notblank,max=64"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

type AuthService struct {
	repo        userrepo.Repository
	sessions    *SessionManager
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	validator   *validation.Validator
	breaker     *resilience.CircuitBreaker
	clock       clock.Clock
	log         *logger.Logger
}

func NewAuthService(
	repo userrepo.Repository,
	sessions *SessionManager,
	hasher commoncrypto.PasswordHasher,
	idGenerator commoncrypto.IDGenerator,
	validator *validation.Validator,
	breaker *resilience.CircuitBreaker,
	clk clock.Clock,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		repo:        repo,
		sessions:    sessions,
		hasher:      hasher,
		idGenerator: idGenerator,
		validator:   validator,
		breaker:     breaker,
		clock:       clk,
		log:         log,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (userdomain.User, error) {
	input.Login = strings.TrimSpace(input.Login)
	input.Sex = strings.TrimSpace(input.Sex)

	s.log.WithFields(ctx, logger.Fields{
		"login":  input.Login,
		"action": "register_attempt",
	}).Info("register attempt")

	if err := s.validator.Struct(input); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"login":  input.Login,
			"action": "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		recordRegistration("invalid")
		return userdomain.User{}, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"login":  input.Login,
			"action": "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		recordRegistration("error")
		return userdomain.User{}, commonerrors.ErrInternalError.WithCause(err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"login":  input.Login,
			"action": "register_id_generation_failed",
		}).Errorf("register failed: id generation error: %v", err)
		recordRegistration("error")
		return userdomain.User{}, commonerrors.ErrInternalError.WithCause(err)
	}

	now := s.clock.Now()
	user := userdomain.User{
		ID:           userdomain.ID(id),
		Login:        input.Login,
		PasswordHash: hash,
		Sex:          input.Sex,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.breaker.Call(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, commonerrors.ErrLoginAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"login":  input.Login,
				"action": "register_login_exists",
			}).Warn("register failed: already exists")
			recordRegistration("conflict")
			return userdomain.User{}, err
		}
		s.log.WithFields(ctx, logger.Fields{
			"login":  input.Login,
			"action": "register_create_failed",
		}).Errorf("register failed: %v", err)
		recordRegistration("error")
		return userdomain.User{}, storageError(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"login":   user.Login,
		"user_id": string(user.ID),
		"action":  "register_success",
	}).Info("register success")
	recordRegistration("success")

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (authdomain.Token, error) {
	input.Login = strings.TrimSpace(input.Login)

	s.log.WithFields(ctx, logger.Fields{
		"login":  input.Login,
		"action": "login_attempt",
	}).Info("login attempt")

	if err := s.validator.Struct(input); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"login":  input.Login,
			"action": "login_validation_failed",
		}).Warnf("login validation failed: %v", err)
		recordLogin("invalid")
		return authdomain.Token{}, err
	}

	var user userdomain.User
	err := s.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.repo.FindByLogin(ctx, input.Login)
		return err
	})
	if err != nil {
		if errors.Is(err, commonerrors.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"login":  input.Login,
				"action": "login_user_not_found",
			}).Warn("login failed: not found")
			recordLogin("invalid_credentials")
			return authdomain.Token{}, ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"login":  input.Login,
			"action": "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		recordLogin("error")
		return authdomain.Token{}, storageError(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"login":  input.Login,
			"action": "login_invalid_password",
		}).Warn("login failed: invalid password")
		recordLogin("invalid_credentials")
		return authdomain.Token{}, ErrInvalidCredentials
	}

	token, err := s.sessions.Issue(string(user.ID), user.Login)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"login":   input.Login,
			"user_id": string(user.ID),
			"action":  "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		recordLogin("error")
		return authdomain.Token{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"login":   user.Login,
		"user_id": string(user.ID),
		"action":  "login_success",
	}).Info("login success")
	recordLogin("success")

	return token, nil
}

// Refresh exchanges a still-valid access token for a new one.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (authdomain.Token, error) {
	token, err := s.sessions.Refresh(rawToken)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "refresh_token_failed",
		}).Warnf("refresh token failed: %v", err)
		return authdomain.Token{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"action": "refresh_token_success",
	}).Info("access token refreshed")

	return token, nil
}

func storageError(err error) error {
	if commonerrors.IsDomainError(err) {
		return err
	}
	return commonerrors.ErrDatabaseError.WithCause(err)
}
