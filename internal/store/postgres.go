package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/taskboard/internal/domain"
)

const uniqueViolation = "23505"

type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a Postgres-backed DataStore.
func NewPostgresStore(pool *pgxpool.Pool) DataStore {
	return &postgresStore{pool: pool}
}

func (s *postgresStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT id, name, email, password_hash, created_at, updated_at
        FROM users WHERE email=$1`
	return s.scanUser(ctx, query, email)
}

func (s *postgresStore) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT id, name, email, password_hash, created_at, updated_at
        FROM users WHERE id=$1`
	return s.scanUser(ctx, query, id)
}

func (s *postgresStore) scanUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := s.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *postgresStore) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	const query = `
        INSERT INTO users (name, email, password_hash)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`

	user := domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
	}
	if err := s.pool.QueryRow(ctx, query,
		input.Name,
		input.Email,
		input.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &user, nil
}

func (s *postgresStore) TaskExistsWithOwner(ctx context.Context, taskID, ownerID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM tasks WHERE id=$1 AND author_id=$2)`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, taskID, ownerID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *postgresStore) ListTasks(ctx context.Context, filter TaskFilter) ([]domain.Task, error) {
	base := `SELECT id, text, completed, author_id, created_at, updated_at FROM tasks`
	clauses := []string{"author_id=$1"}
	args := []any{filter.AuthorID}

	if strings.TrimSpace(filter.TextContains) != "" {
		args = append(args, "%"+strings.TrimSpace(filter.TextContains)+"%")
		clauses = append(clauses, fmt.Sprintf("text ILIKE $%d", len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC`, base, strings.Join(clauses, " AND "))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (s *postgresStore) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	const query = `
        SELECT id, text, completed, author_id, created_at, updated_at
        FROM tasks WHERE id=$1`
	return s.scanTask(ctx, query, id)
}

func (s *postgresStore) CreateTask(ctx context.Context, text, authorID string) (*domain.Task, error) {
	const query = `
        INSERT INTO tasks (text, author_id)
        VALUES ($1, $2)
        RETURNING id, completed, created_at, updated_at`

	task := domain.Task{Text: text, AuthorID: authorID}
	if err := s.pool.QueryRow(ctx, query, text, authorID).Scan(
		&task.ID,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *postgresStore) UpdateTask(ctx context.Context, id string, input UpdateTaskInput) (*domain.Task, error) {
	const query = `
        UPDATE tasks
        SET text=COALESCE($1, text), completed=COALESCE($2, completed), updated_at=NOW()
        WHERE id=$3
        RETURNING id, text, completed, author_id, created_at, updated_at`
	return s.scanTask(ctx, query, input.Text, input.Completed, id)
}

func (s *postgresStore) DeleteTask(ctx context.Context, id string) (*domain.Task, error) {
	const query = `
        DELETE FROM tasks WHERE id=$1
        RETURNING id, text, completed, author_id, created_at, updated_at`
	return s.scanTask(ctx, query, id)
}

func (s *postgresStore) scanTask(ctx context.Context, query string, args ...any) (*domain.Task, error) {
	var task domain.Task
	if err := s.pool.QueryRow(ctx, query, args...).Scan(
		&task.ID,
		&task.Text,
		&task.Completed,
		&task.AuthorID,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

func scanTasks(rows pgx.Rows) ([]domain.Task, error) {
	var result []domain.Task
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.Text,
			&task.Completed,
			&task.AuthorID,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	return result, rows.Err()
}
