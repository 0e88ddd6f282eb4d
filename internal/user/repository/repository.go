package repository

import (
	"context"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/taskflow/backend/internal/common/db"
	commonerrors "github.com/AlibekovAA/taskflow/backend/internal/common/errors"
	"github.com/AlibekovAA/taskflow/backend/internal/common/logger"
	"github.com/AlibekovAA/taskflow/backend/internal/user/domain"
)

const usersTable = "users"

// Repository is the identity store. Create fails with ErrLoginAlreadyExists,
// lookups and UpdateProfile with ErrUserNotFound.
type Repository interface {
	Create(ctx context.Context, user domain.User) error
	FindByLogin(ctx context.Context, login string) (domain.User, error)
	FindByID(ctx context.Context, id domain.ID) (domain.User, error)
	FindByIDs(ctx context.Context, ids []domain.ID) ([]domain.User, error)
	UpdateProfile(ctx context.Context, id domain.ID, profile domain.Profile, updatedAt time.Time) (domain.User, error)
}

const userColumns = `id, login, password_hash, sex, first_name, last_name, email, bio, created_at, updated_at`

type PgRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewPgRepository(pool *pgxpool.Pool, log *logger.Logger) *PgRepository {
	return &PgRepository{pool: pool, log: log}
}

func (r *PgRepository) Create(ctx context.Context, user domain.User) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		string(user.ID),
		user.Login,
		user.PasswordHash,
		user.Sex,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Bio,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return db.HandleInsertError(err, commonerrors.ErrLoginAlreadyExists, "create user", usersTable, start)
}

func (r *PgRepository) FindByLogin(ctx context.Context, login string) (domain.User, error) {
	start := time.Now()
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE login = $1`, login)

	user, err := scanUser(row)
	if err := db.HandleQueryError(err, commonerrors.ErrUserNotFound, "find user by login", usersTable, start); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	start := time.Now()
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, string(id))

	user, err := scanUser(row)
	if err := db.HandleQueryError(err, commonerrors.ErrUserNotFound, "find user by id", usersTable, start); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r *PgRepository) FindByIDs(ctx context.Context, ids []domain.ID) ([]domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = string(id)
	}

	start := time.Now()
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1)`, raw)
	if err != nil {
		return nil, db.HandleQueryError(err, nil, "find users by ids", usersTable, start)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, db.HandleQueryError(err, nil, "scan user", usersTable, start)
		}
		users = append(users, user)
	}

	if err := db.HandleQueryError(rows.Err(), nil, "find users by ids", usersTable, start); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PgRepository) UpdateProfile(ctx context.Context, id domain.ID, profile domain.Profile, updatedAt time.Time) (domain.User, error) {
	var user domain.User

	err := db.RetryWithBackoff(ctx, r.log, db.DefaultRetryConfig, func() error {
		start := time.Now()
		row := r.pool.QueryRow(
			ctx,
			`UPDATE users
			 SET first_name = $2, last_name = $3, email = $4, bio = $5, updated_at = $6
			 WHERE id = $1
			 RETURNING `+userColumns,
			string(id),
			profile.FirstName,
			profile.LastName,
			profile.Email,
			profile.Bio,
			updatedAt,
		)

		var err error
		user, err = scanUser(row)
		return db.HandleQueryError(err, commonerrors.ErrUserNotFound, "update user profile", usersTable, start)
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		user domain.User
		id   string
	)
	err := row.Scan(
		&id,
		&user.Login,
		&user.PasswordHash,
		&user.Sex,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Bio,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	user.ID = domain.ID(id)
	return user, err
}
