package service

import (
	"context"
	"errors"
	"time"

	"github.com/AlibekovAA/taskflow/backend/internal/common/logger"
	"github.com/AlibekovAA/taskflow/backend/internal/project/domain"
)

// mutation changes a freshly loaded aggregate in place. It may run more than
// once in optimistic mode, so it must only depend on the aggregate it is given.
type mutation func(p *domain.Project, now time.Time) error

// mutate loads the project for a member, applies change and writes the whole
// aggregate back. In last_writer_wins mode the write is unconditional. In
// optimistic mode it only succeeds against the version that was loaded and is
// replayed on a fresh copy up to WriteRetries times.
func (s *Service) mutate(ctx context.Context, op, callerID, projectID string, change mutation) (domain.Project, error) {
	optimistic := s.cfg.WriteMode == WriteModeOptimistic

	for attempt := 0; ; attempt++ {
		project, err := s.loadForMember(ctx, callerID, projectID)
		if err != nil {
			return domain.Project{}, err
		}

		loaded := project.Version
		now := s.clock.Now()
		if err := change(&project, now); err != nil {
			return domain.Project{}, err
		}
		project.Touch(now)
		project.Version = loaded + 1

		if !optimistic {
			if err := s.repo.Replace(ctx, project); err != nil {
				return domain.Project{}, err
			}
			return project, nil
		}

		err = s.repo.ReplaceIfVersion(ctx, project, loaded)
		if err == nil {
			return project, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return domain.Project{}, err
		}

		recordWriteConflict(op)
		if attempt >= s.cfg.WriteRetries {
			return domain.Project{}, domain.ErrWriteConflict
		}

		s.log.WithFields(ctx, logger.Fields{
			"project_id": projectID,
			"attempt":    attempt + 1,
			"action":     op + "_write_conflict",
		}).Warn("project changed since it was loaded, retrying")

		if err := ctx.Err(); err != nil {
			return domain.Project{}, err
		}
	}
}
