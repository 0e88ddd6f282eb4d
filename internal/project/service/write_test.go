package service

import (
	"context"
	"errors"
	"testing"

	"github.com/AlibekovAA/taskflow/backend/internal/project/domain"
)

// competingWrite stores a copy of the project with an extra group, as a
// second request finishing first would.
func competingWrite(t *testing.T, repo *hookRepo, name string) {
	t.Helper()
	p, err := repo.MemoryRepository.FindByID(context.Background(), "id-1")
	if err != nil {
		t.Fatalf("load for competing write: %v", err)
	}
	p.AddGroup(domain.Group{ID: name, Name: name})
	p.Version++
	if err := repo.MemoryRepository.Replace(context.Background(), p); err != nil {
		t.Fatalf("competing write: %v", err)
	}
}

func TestMutate_LastWriterWinsLosesConcurrentUpdate(t *testing.T) {
	svc, repo, _, _ := setupService(t, Config{WriteMode: WriteModeLastWriterWins})
	ctx := context.Background()

	project, _ := svc.CreateProject(ctx, "alice", CreateProjectInput{Name: "Board"})

	fired := false
	repo.beforeReplace = func(domain.Project) {
		if !fired {
			fired = true
			competingWrite(t, repo, "concurrent")
		}
	}

	if _, err := svc.CreateGroup(ctx, "alice", project.ID, CreateGroupInput{Name: "Mine"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	stored, _ := repo.FindByID(ctx, project.ID)
	if len(stored.Groups) != 1 || stored.Groups[0].Name != "Mine" {
		t.Errorf("expected the last write to replace the competing one, got %+v", stored.Groups)
	}
}

func TestMutate_OptimisticReplaysAfterConflict(t *testing.T) {
	svc, repo, _, _ := setupService(t, Config{WriteMode: WriteModeOptimistic, WriteRetries: 2})
	ctx := context.Background()

	project, _ := svc.CreateProject(ctx, "alice", CreateProjectInput{Name: "Board"})

	fired := false
	repo.beforeReplace = func(domain.Project) {
		if !fired {
			fired = true
			competingWrite(t, repo, "concurrent")
		}
	}

	group, err := svc.CreateGroup(ctx, "alice", project.ID, CreateGroupInput{Name: "Mine"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	stored, _ := repo.FindByID(ctx, project.ID)
	if len(stored.Groups) != 2 {
		t.Fatalf("expected both groups to survive, got %+v", stored.Groups)
	}
	if _, ok := stored.Group(group.ID); !ok {
		t.Errorf("expected returned group %s to be the stored one", group.ID)
	}
	if stored.Version != 2 {
		t.Errorf("expected version 2, got %d", stored.Version)
	}
}

func TestMutate_OptimisticGivesUp(t *testing.T) {
	svc, repo, _, _ := setupService(t, Config{WriteMode: WriteModeOptimistic, WriteRetries: 2})
	ctx := context.Background()

	project, _ := svc.CreateProject(ctx, "alice", CreateProjectInput{Name: "Board"})

	attempts := 0
	repo.beforeReplace = func(domain.Project) {
		attempts++
		competingWrite(t, repo, "concurrent")
	}

	_, err := svc.CreateGroup(ctx, "alice", project.ID, CreateGroupInput{Name: "Mine"})
	if !errors.Is(err, domain.ErrWriteConflict) {
		t.Fatalf("expected ErrWriteConflict, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}
