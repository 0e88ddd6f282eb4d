package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/AlibekovAA/taskflow/backend/internal/common/clock"
	"github.com/AlibekovAA/taskflow/backend/internal/common/logger"
	"github.com/AlibekovAA/taskflow/backend/internal/common/validation"
	"github.com/AlibekovAA/taskflow/backend/internal/project/domain"
	"github.com/AlibekovAA/taskflow/backend/internal/project/repository"
	userdomain "github.com/AlibekovAA/taskflow/backend/internal/user/domain"
)

type mockDirectory struct {
	summariesFunc func(ctx context.Context, ids []string) (map[string]userdomain.Summary, error)
}

func (m *mockDirectory) Summaries(ctx context.Context, ids []string) (map[string]userdomain.Summary, error) {
	if m.summariesFunc != nil {
		return m.summariesFunc(ctx, ids)
	}
	out := make(map[string]userdomain.Summary, len(ids))
	for _, id := range ids {
		out[id] = userdomain.Summary{ID: userdomain.ID(id), Login: "login-" + id}
	}
	return out, nil
}

type sequenceIDGenerator struct {
	next int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("id-%d", g.next), nil
}

// hookRepo runs beforeReplace ahead of every write so tests can slip a
// competing write in between load and save.
type hookRepo struct {
	*repository.MemoryRepository
	beforeReplace func(p domain.Project)
}

func (r *hookRepo) Replace(ctx context.Context, p domain.Project) error {
	if r.beforeReplace != nil {
		r.beforeReplace(p)
	}
	return r.MemoryRepository.Replace(ctx, p)
}

func (r *hookRepo) ReplaceIfVersion(ctx context.Context, p domain.Project, expected int64) error {
	if r.beforeReplace != nil {
		r.beforeReplace(p)
	}
	return r.MemoryRepository.ReplaceIfVersion(ctx, p, expected)
}

var testNow = time.Date(2024, 4, 2, 14, 30, 0, 0, time.UTC)

func setupService(t *testing.T, cfg Config) (*Service, *hookRepo, *mockDirectory, *clock.MockClock) {
	t.Helper()

	repo := &hookRepo{MemoryRepository: repository.NewMemoryRepository()}
	dir := &mockDirectory{}
	mockClock := clock.NewMockClock(testNow)
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	svc := NewService(repo, dir, &sequenceIDGenerator{}, validation.New(), mockClock, logger.Discard(), cfg)
	return svc, repo, dir, mockClock
}
