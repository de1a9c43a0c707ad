// Package store is the boundary with the backing data service. All
// persistence is delegated through the DataStore interface; nothing above it
// knows whether rows live in Postgres or in memory.
package store

import (
	"context"
	"errors"

	"github.com/spec-kit/taskboard/internal/domain"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateEmail is returned when creating a user with an email that is
// already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// TaskFilter narrows task listings. AuthorID is always set by callers: lists
// are scoped to the requesting identity.
type TaskFilter struct {
	TextContains string
	AuthorID     string
}

// CreateUserInput carries the fields persisted for a new account.
type CreateUserInput struct {
	Name         string
	Email        string
	PasswordHash string
}

// UpdateTaskInput patches a task. Nil fields are left untouched.
type UpdateTaskInput struct {
	Text      *string
	Completed *bool
}

// DataStore is the narrow request/response surface of the external data
// service.
type DataStore interface {
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByID(ctx context.Context, id string) (*domain.User, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)

	// TaskExistsWithOwner reports the ownership fact for (taskID, ownerID).
	// A missing task and a task owned by someone else are indistinguishable
	// here, which is what the authorization guard wants.
	TaskExistsWithOwner(ctx context.Context, taskID, ownerID string) (bool, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	CreateTask(ctx context.Context, text, authorID string) (*domain.Task, error)
	UpdateTask(ctx context.Context, id string, input UpdateTaskInput) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) (*domain.Task, error)
}
