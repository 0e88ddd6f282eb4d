package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/AlibekovAA/taskflow/backend/internal/project/domain"
)

// MemoryRepository stores deep copies of aggregates so that callers never
// share nested slices with the store.
type MemoryRepository struct {
	mu       sync.RWMutex
	projects map[string]domain.Project
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{projects: make(map[string]domain.Project)}
}

func (r *MemoryRepository) Create(_ context.Context, project domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[project.ID] = project.Clone()
	return nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.projects[id]
	if !ok {
		return domain.Project{}, domain.ErrProjectNotFound
	}
	return p.Clone(), nil
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID string) ([]domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.Project{}
	for _, p := range r.projects {
		if p.CreatedBy == userID || p.IsMember(userID) {
			out = append(out, p.Clone())
		}
	}

	slices.SortFunc(out, func(a, b domain.Project) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) Replace(_ context.Context, project domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[project.ID]; !ok {
		return domain.ErrProjectNotFound
	}
	r.projects[project.ID] = project.Clone()
	return nil
}

func (r *MemoryRepository) ReplaceIfVersion(_ context.Context, project domain.Project, expected int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.projects[project.ID]
	if !ok || stored.Version != expected {
		return domain.ErrVersionConflict
	}
	r.projects[project.ID] = project.Clone()
	return nil
}
