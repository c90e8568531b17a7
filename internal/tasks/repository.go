// Package tasks implements the task repository: the owner-scoped list,
// create, update and delete operations the rest of the application uses.
package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/AarushM142/Todo-list-with-Authentication/internal/models"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/storage"
)

var (
	// ErrValidation is returned for empty task text. The store is not called.
	ErrValidation = errors.New("task text must not be empty")
	// ErrNotFound is returned when no task with the ID belongs to the owner.
	ErrNotFound = errors.New("task not found")
	// ErrStoreUnavailable wraps any failure of the underlying store.
	ErrStoreUnavailable = errors.New("task store unavailable")
	// ErrUnauthenticated is returned when no owner is given.
	ErrUnauthenticated = errors.New("sign in required")
)

// Repository is a thin owner-scoped façade over a storage.TaskStore.
// Each method maps to exactly one store call.
type Repository struct {
	store storage.TaskStore
}

// NewRepository creates a repository over store.
func NewRepository(store storage.TaskStore) *Repository {
	return &Repository{store: store}
}

// List returns the owner's tasks ordered by ID ascending.
func (r *Repository) List(ctx context.Context, ownerID string) ([]models.Task, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}

	rows, err := r.store.SelectTasks(ctx, ownerID)
	if err != nil {
		return nil, unavailable(err)
	}

	// The store filters by owner already; a row that slips through is
	// dropped rather than shown to the wrong user.
	tasks := make([]models.Task, 0, len(rows))
	for _, task := range rows {
		if task.OwnerID == ownerID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

// Create adds a task with the trimmed text.
func (r *Repository) Create(ctx context.Context, ownerID, text string) (*models.Task, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}
	text = models.NormalizeText(text)
	if text == "" {
		return nil, ErrValidation
	}

	task := &models.Task{OwnerID: ownerID, Text: text}
	if err := r.store.InsertTask(ctx, task); err != nil {
		return nil, unavailable(err)
	}
	return task, nil
}

// Update overwrites the text of one of the owner's tasks. A task that does
// not exist or belongs to someone else yields ErrNotFound; either way no
// row is modified.
func (r *Repository) Update(ctx context.Context, ownerID string, taskID int64, text string) error {
	if ownerID == "" {
		return ErrUnauthenticated
	}
	text = models.NormalizeText(text)
	if text == "" {
		return ErrValidation
	}

	n, err := r.store.UpdateTask(ctx, ownerID, taskID, text)
	if err != nil {
		return unavailable(err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, taskID)
	}
	return nil
}

// Delete removes one of the owner's tasks. It is idempotent: deleting a
// missing or foreign ID is not an error, and removed reports whether a row
// actually went away.
func (r *Repository) Delete(ctx context.Context, ownerID string, taskID int64) (removed bool, err error) {
	if ownerID == "" {
		return false, ErrUnauthenticated
	}

	n, err := r.store.DeleteTask(ctx, ownerID, taskID)
	if err != nil {
		return false, unavailable(err)
	}
	return n > 0, nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
