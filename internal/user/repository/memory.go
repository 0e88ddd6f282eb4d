package repository

import (
	"context"
	"sync"
	"time"

	commonerrors "github.com/AlibekovAA/taskflow/backend/internal/common/errors"
	"github.com/AlibekovAA/taskflow/backend/internal/user/domain"
)

// MemoryRepository keeps users in process memory. It backs the memory
// storage mode and the service tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[domain.ID]domain.User
	byLogin map[string]domain.ID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[domain.ID]domain.User),
		byLogin: make(map[string]domain.ID),
	}
}

func (r *MemoryRepository) Create(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byLogin[user.Login]; exists {
		return commonerrors.ErrLoginAlreadyExists
	}
	r.byID[user.ID] = user
	r.byLogin[user.Login] = user.ID
	return nil
}

func (r *MemoryRepository) FindByLogin(_ context.Context, login string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byLogin[login]
	if !ok {
		return domain.User{}, commonerrors.ErrUserNotFound
	}
	return r.byID[id], nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id domain.ID) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return domain.User{}, commonerrors.ErrUserNotFound
	}
	return user, nil
}

func (r *MemoryRepository) FindByIDs(_ context.Context, ids []domain.ID) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var users []domain.User
	for _, id := range ids {
		if user, ok := r.byID[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (r *MemoryRepository) UpdateProfile(_ context.Context, id domain.ID, profile domain.Profile, updatedAt time.Time) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return domain.User{}, commonerrors.ErrUserNotFound
	}
	user.FirstName = profile.FirstName
	user.LastName = profile.LastName
	user.Email = profile.Email
	user.Bio = profile.Bio
	user.UpdatedAt = updatedAt
	r.byID[id] = user
	return user, nil
}
