// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/AarushM142/Todo-list-with-Authentication/internal/models"
)

// TaskStore defines the row-level operations over the todos table.
// Every operation is scoped by owner: implementations filter and write by
// equality on the owner column, so one user's rows are never returned to or
// modified on behalf of another.
//
// This abstraction allows swapping the hosted table API for a self-hosted SQL
// database without changing the repository layer.
type TaskStore interface {
	// SelectTasks returns all tasks owned by ownerID ordered by ID ascending.
	// Returns an empty slice (not an error) when the owner has no tasks.
	SelectTasks(ctx context.Context, ownerID string) ([]models.Task, error)

	// InsertTask persists a new task. task.ID and task.CreatedAt are
	// populated by the store.
	InsertTask(ctx context.Context, task *models.Task) error

	// UpdateTask overwrites the text of the task matching both taskID and
	// ownerID and reports how many rows changed (0 or 1).
	UpdateTask(ctx context.Context, ownerID string, taskID int64, text string) (int64, error)

	// DeleteTask removes the task matching both taskID and ownerID and
	// reports how many rows were removed (0 or 1).
	DeleteTask(ctx context.Context, ownerID string, taskID int64) (int64, error)

	// Close releases any resources held by the store.
	Close() error
}

// ErrDuplicate is returned when a write collides with a unique key.
var ErrDuplicate = errors.New("record already exists")

// UserStore defines persistence for locally managed accounts.
type UserStore interface {
	// CreateUser returns an error wrapping ErrDuplicate when the email is
	// already taken.
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByEmail returns nil, nil when no account uses the address.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByID returns nil, nil when the ID is unknown.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
