// Package service implements project, group, column and task operations on
// top of whole-aggregate reads and writes.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/AlibekovAA/taskflow/backend/internal/common/clock"
	"github.com/AlibekovAA/taskflow/backend/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/taskflow/backend/internal/common/errors"
	"github.com/AlibekovAA/taskflow/backend/internal/common/logger"
	"github.com/AlibekovAA/taskflow/backend/internal/common/validation"
	"github.com/AlibekovAA/taskflow/backend/internal/project/domain"
	"github.com/AlibekovAA/taskflow/backend/internal/project/repository"
	userdomain "github.com/AlibekovAA/taskflow/backend/internal/user/domain"
)

const (
	WriteModeLastWriterWins = "last_writer_wins"
	WriteModeOptimistic     = "optimistic"
)

// UserDirectory resolves display information for member and creator ids.
type UserDirectory interface {
	Summaries(ctx context.Context, ids []string) (map[string]userdomain.Summary, error)
}

type Config struct {
	WriteMode    string
	WriteRetries int
	// Location decides where "start of day" falls for CreatedAt dates.
	Location *time.Location
}

type CreateProjectInput struct {
	Name        string `json:"name" validate:"notblank,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

type CreateGroupInput struct {
	Name string `json:"name" validate:"notblank,max=200"`
}

type CreateColumnInput struct {
	Name string `json:"name" validate:"notblank,max=200"`
}

type CreateTaskInput struct {
	Title       string  `json:"title" validate:"notblank,max=200"`
	Description string  `json:"description" validate:"max=5000"`
	AssignedTo  *string `json:"assignedTo"`
}

type Service struct {
	repo      repository.Repository
	users     UserDirectory
	ids       crypto.IDGenerator
	validator *validation.Validator
	clock     clock.Clock
	log       *logger.Logger
	cfg       Config
}

func NewService(
	repo repository.Repository,
	users UserDirectory,
	ids crypto.IDGenerator,
	validator *validation.Validator,
	clk clock.Clock,
	log *logger.Logger,
	cfg Config,
) *Service {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.WriteMode == "" {
		cfg.WriteMode = WriteModeLastWriterWins
	}
	if cfg.WriteRetries < 0 {
		cfg.WriteRetries = 0
	}
	return &Service{
		repo:      repo,
		users:     users,
		ids:       ids,
		validator: validator,
		clock:     clk,
		log:       log,
		cfg:       cfg,
	}
}

func (s *Service) CreateProject(ctx context.Context, callerID string, input CreateProjectInput) (domain.Project, error) {
	const op = "create_project"

	input.Name = strings.TrimSpace(input.Name)
	if err := s.validate(ctx, op, callerID, input); err != nil {
		return domain.Project{}, err
	}

	id, err := s.newID()
	if err != nil {
		return domain.Project{}, s.fail(ctx, op, callerID, "", err)
	}

	now := s.clock.Now()
	project := domain.NewProject(id, input.Name, input.Description, callerID, clock.StartOfDay(now, s.cfg.Location), now)

	if err := s.repo.Create(ctx, project); err != nil {
		return domain.Project{}, s.fail(ctx, op, callerID, id, err)
	}

	s.succeed(ctx, op, callerID, id, "project created")
	return project, nil
}

func (s *Service) ListProjects(ctx context.Context, callerID string) ([]ProjectView, error) {
	const op = "list_projects"

	projects, err := s.repo.ListByUser(ctx, callerID)
	if err != nil {
		return nil, s.fail(ctx, op, callerID, "", err)
	}

	views, err := s.views(ctx, projects)
	if err != nil {
		return nil, s.fail(ctx, op, callerID, "", err)
	}

	recordOperation(op, nil)
	return views, nil
}

func (s *Service) GetProject(ctx context.Context, callerID, projectID string) (ProjectView, error) {
	const op = "get_project"

	project, err := s.loadForMember(ctx, callerID, projectID)
	if err != nil {
		return ProjectView{}, s.fail(ctx, op, callerID, projectID, err)
	}

	views, err := s.views(ctx, []domain.Project{project})
	if err != nil {
		return ProjectView{}, s.fail(ctx, op, callerID, projectID, err)
	}

	recordOperation(op, nil)
	return views[0], nil
}

func (s *Service) CreateGroup(ctx context.Context, callerID, projectID string, input CreateGroupInput) (domain.Group, error) {
	const op = "create_group"

	input.Name = strings.TrimSpace(input.Name)
	if err := s.validate(ctx, op, callerID, input); err != nil {
		return domain.Group{}, err
	}

	var created domain.Group
	_, err := s.mutate(ctx, op, callerID, projectID, func(p *domain.Project, now time.Time) error {
		id, err := s.newID()
		if err != nil {
			return err
		}
		created = domain.Group{
			ID:        id,
			Name:      input.Name,
			CreatedBy: callerID,
			CreatedAt: clock.StartOfDay(now, s.cfg.Location),
			UpdatedAt: now,
			Columns:   []domain.Column{},
			Settings:  []domain.Setting{},
			Logs:      []domain.LogEntry{},
		}
		created.Log(domain.ActionGroupCreated, callerID, now)
		p.AddGroup(created)
		return nil
	})
	if err != nil {
		return domain.Group{}, s.fail(ctx, op, callerID, projectID, err)
	}

	s.succeed(ctx, op, callerID, projectID, "group created")
	return created, nil
}

func (s *Service) CreateColumn(ctx context.Context, callerID, projectID, groupID string, input CreateColumnInput) (domain.Column, error) {
	const op = "create_column"

	input.Name = strings.TrimSpace(input.Name)
	if err := s.validate(ctx, op, callerID, input); err != nil {
		return domain.Column{}, err
	}

	var created domain.Column
	_, err := s.mutate(ctx, op, callerID, projectID, func(p *domain.Project, now time.Time) error {
		group, ok := p.Group(groupID)
		if !ok {
			return domain.ErrGroupNotFound
		}
		id, err := s.newID()
		if err != nil {
			return err
		}
		created = domain.Column{ID: id, Name: input.Name, Tasks: []domain.Task{}}
		group.AddColumn(created)
		group.Log(domain.ActionColumnCreated, callerID, now)
		group.Touch(now)
		return nil
	})
	if err != nil {
		return domain.Column{}, s.fail(ctx, op, callerID, projectID, err)
	}

	s.succeed(ctx, op, callerID, projectID, "column created")
	return created, nil
}

func (s *Service) CreateTask(ctx context.Context, callerID, projectID, groupID, columnID string, input CreateTaskInput) (domain.Task, error) {
	const op = "create_task"

	input.Title = strings.TrimSpace(input.Title)
	if input.AssignedTo != nil && strings.TrimSpace(*input.AssignedTo) == "" {
		input.AssignedTo = nil
	}
	if err := s.validate(ctx, op, callerID, input); err != nil {
		return domain.Task{}, err
	}

	var created domain.Task
	_, err := s.mutate(ctx, op, callerID, projectID, func(p *domain.Project, now time.Time) error {
		group, ok := p.Group(groupID)
		if !ok {
			return domain.ErrGroupNotFound
		}
		column, ok := group.Column(columnID)
		if !ok {
			return domain.ErrColumnNotFound
		}
		if input.AssignedTo != nil && !p.IsMember(*input.AssignedTo) {
			return domain.ErrAssigneeNotMember
		}
		id, err := s.newID()
		if err != nil {
			return err
		}
		created = domain.Task{
			ID:          id,
			Title:       input.Title,
			Description: input.Description,
			CreatedAt:   now,
		}
		if input.AssignedTo != nil {
			assignee := *input.AssignedTo
			created.AssignedTo = &assignee
		}
		column.AddTask(created)
		group.Log(domain.ActionTaskCreated, callerID, now)
		group.Touch(now)
		return nil
	})
	if err != nil {
		return domain.Task{}, s.fail(ctx, op, callerID, projectID, err)
	}

	s.succeed(ctx, op, callerID, projectID, "task created")
	return created, nil
}

// DeleteGroup removes the group if present and returns groupID either way.
func (s *Service) DeleteGroup(ctx context.Context, callerID, projectID, groupID string) (string, error) {
	const op = "delete_group"

	_, err := s.mutate(ctx, op, callerID, projectID, func(p *domain.Project, _ time.Time) error {
		p.RemoveGroup(groupID)
		return nil
	})
	if err != nil {
		return "", s.fail(ctx, op, callerID, projectID, err)
	}

	s.succeed(ctx, op, callerID, projectID, "group deleted")
	return groupID, nil
}

func (s *Service) DeleteColumn(ctx context.Context, callerID, projectID, groupID, columnID string) (string, error) {
	const op = "delete_column"

	_, err := s.mutate(ctx, op, callerID, projectID, func(p *domain.Project, now time.Time) error {
		group, ok := p.Group(groupID)
		if !ok {
			return domain.ErrGroupNotFound
		}
		if group.RemoveColumn(columnID) {
			group.Log(domain.ActionColumnDeleted, callerID, now)
		}
		group.Touch(now)
		return nil
	})
	if err != nil {
		return "", s.fail(ctx, op, callerID, projectID, err)
	}

	s.succeed(ctx, op, callerID, projectID, "column deleted")
	return columnID, nil
}

func (s *Service) DeleteTask(ctx context.Context, callerID, projectID, groupID, columnID, taskID string) (string, error) {
	const op = "delete_task"

	_, err := s.mutate(ctx, op, callerID, projectID, func(p *domain.Project, now time.Time) error {
		group, ok := p.Group(groupID)
		if !ok {
			return domain.ErrGroupNotFound
		}
		column, ok := group.Column(columnID)
		if !ok {
			return domain.ErrColumnNotFound
		}
		if column.RemoveTask(taskID) {
			group.Log(domain.ActionTaskDeleted, callerID, now)
		}
		group.Touch(now)
		return nil
	})
	if err != nil {
		return "", s.fail(ctx, op, callerID, projectID, err)
	}

	s.succeed(ctx, op, callerID, projectID, "task deleted")
	return taskID, nil
}

func (s *Service) loadForMember(ctx context.Context, callerID, projectID string) (domain.Project, error) {
	project, err := s.repo.FindByID(ctx, projectID)
	if err != nil {
		return domain.Project{}, err
	}
	if !project.IsMember(callerID) {
		return domain.Project{}, domain.ErrNotMember
	}
	return project, nil
}

func (s *Service) validate(ctx context.Context, op, callerID string, input any) error {
	if err := s.validator.Struct(input); err != nil {
		recordOperation(op, err)
		s.log.WithFields(ctx, logger.Fields{
			"user_id": callerID,
			"action":  op + "_validation_failed",
		}).Warnf("%s validation failed: %v", op, err)
		return err
	}
	return nil
}

func (s *Service) newID() (string, error) {
	id, err := s.ids.NewID()
	if err != nil {
		return "", commonerrors.ErrInternalError.WithCause(err)
	}
	return id, nil
}

func (s *Service) succeed(ctx context.Context, op, callerID, projectID, msg string) {
	recordOperation(op, nil)
	s.log.WithFields(ctx, logger.Fields{
		"user_id":    callerID,
		"project_id": projectID,
		"action":     op + "_success",
	}).Info(msg)
}

// fail logs err at a level matching its status and returns it as a domain error.
func (s *Service) fail(ctx context.Context, op, callerID, projectID string, err error) error {
	err = wrapStorageError(err)
	recordOperation(op, err)

	entry := s.log.WithFields(ctx, logger.Fields{
		"user_id":    callerID,
		"project_id": projectID,
		"action":     op + "_failed",
	})
	if de, ok := commonerrors.AsDomainError(err); ok && de.HTTPStatus() < 500 {
		entry.Warnf("%s rejected: %s", op, de.Message())
	} else {
		entry.Errorf("%s failed: %v", op, err)
	}
	return err
}

func wrapStorageError(err error) error {
	if commonerrors.IsDomainError(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return commonerrors.ErrDatabaseError.WithMessage("request timed out").WithCause(err)
	}
	return commonerrors.ErrDatabaseError.WithCause(err)
}
