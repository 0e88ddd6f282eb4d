package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/taskflow/backend/internal/common/db"
	"github.com/AlibekovAA/taskflow/backend/internal/common/logger"
	"github.com/AlibekovAA/taskflow/backend/internal/observability/metrics"
	"github.com/AlibekovAA/taskflow/backend/internal/project/domain"
)

const projectsTable = "projects"

// Repository stores whole project aggregates. Every write replaces the full
// document in a single statement; there are no partial nested writes.
type Repository interface {
	Create(ctx context.Context, project domain.Project) error
	FindByID(ctx context.Context, id string) (domain.Project, error)
	// ListByUser returns projects the user created or is a member of, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Project, error)
	// Replace overwrites the stored aggregate unconditionally.
	Replace(ctx context.Context, project domain.Project) error
	// ReplaceIfVersion overwrites only while the stored version equals expected.
	ReplaceIfVersion(ctx context.Context, project domain.Project, expected int64) error
}

type PgRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewPgRepository(pool *pgxpool.Pool, log *logger.Logger) *PgRepository {
	return &PgRepository{pool: pool, log: log}
}

func (r *PgRepository) Create(ctx context.Context, project domain.Project) error {
	doc, err := encodeDocument(project)
	if err != nil {
		return err
	}

	start := time.Now()
	_, err = r.pool.Exec(
		ctx,
		`INSERT INTO projects (id, created_by, members, created_at, updated_at, version, document)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		project.ID,
		project.CreatedBy,
		project.Members,
		project.CreatedAt,
		project.UpdatedAt,
		project.Version,
		doc,
	)
	return db.HandleExecError(err, "create project", projectsTable, start)
}

func (r *PgRepository) FindByID(ctx context.Context, id string) (domain.Project, error) {
	start := time.Now()
	var doc []byte
	err := r.pool.QueryRow(ctx, `SELECT document FROM projects WHERE id = $1`, id).Scan(&doc)
	if err := db.HandleQueryError(err, domain.ErrProjectNotFound, "find project by id", projectsTable, start); err != nil {
		return domain.Project{}, err
	}
	return decodeDocument(doc)
}

func (r *PgRepository) ListByUser(ctx context.Context, userID string) ([]domain.Project, error) {
	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT document FROM projects
		 WHERE created_by = $1 OR $1 = ANY(members)
		 ORDER BY created_at DESC, updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, db.HandleQueryError(err, nil, "list projects by user", projectsTable, start)
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, db.HandleQueryError(err, nil, "scan project", projectsTable, start)
		}
		p, err := decodeDocument(doc)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}

	if err := db.HandleQueryError(rows.Err(), nil, "list projects by user", projectsTable, start); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *PgRepository) Replace(ctx context.Context, project domain.Project) error {
	return r.replace(ctx, project, `WHERE id = $1`, nil, domain.ErrProjectNotFound)
}

func (r *PgRepository) ReplaceIfVersion(ctx context.Context, project domain.Project, expected int64) error {
	return r.replace(ctx, project, `WHERE id = $1 AND version = $6`, &expected, domain.ErrVersionConflict)
}

func (r *PgRepository) replace(ctx context.Context, project domain.Project, where string, expected *int64, noMatch error) error {
	doc, err := encodeDocument(project)
	if err != nil {
		return err
	}

	args := []any{project.ID, project.Members, project.UpdatedAt, project.Version, doc}
	if expected != nil {
		args = append(args, *expected)
	}

	return db.RetryWithBackoff(ctx, r.log, db.DefaultRetryConfig, func() error {
		start := time.Now()
		tag, err := r.pool.Exec(
			ctx,
			`UPDATE projects SET members = $2, updated_at = $3, version = $4, document = $5 `+where,
			args...,
		)
		if err := db.HandleExecError(err, "replace project", projectsTable, start); err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return noMatch
		}
		return nil
	})
}

func encodeDocument(project domain.Project) ([]byte, error) {
	doc, err := json.Marshal(project)
	if err != nil {
		return nil, fmt.Errorf("failed to encode project %s: %w", project.ID, err)
	}
	metrics.ProjectAggregateBytes.Observe(float64(len(doc)))
	return doc, nil
}

func decodeDocument(doc []byte) (domain.Project, error) {
	var p domain.Project
	if err := json.Unmarshal(doc, &p); err != nil {
		return domain.Project{}, fmt.Errorf("failed to decode project document: %w", err)
	}
	return p, nil
}
