// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/AarushM142/Todo-list-with-Authentication/internal/models"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/storage"
)

var _ storage.TaskStore = (*FakeTaskStore)(nil)

// FakeTaskStore is an in-memory implementation of storage.TaskStore for testing.
type FakeTaskStore struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]models.Task

	// Error injection for testing
	SelectErr error
	InsertErr error
	UpdateErr error
	DeleteErr error

	// Calls counts store calls by method name.
	Calls map[string]int
}

// NewFakeTaskStore creates an empty FakeTaskStore.
func NewFakeTaskStore() *FakeTaskStore {
	return &FakeTaskStore{
		rows:  make(map[int64]models.Task),
		Calls: make(map[string]int),
	}
}

// Seed inserts a row directly, bypassing error injection, and returns its ID.
func (f *FakeTaskStore) Seed(ownerID, text string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.rows[f.nextID] = models.Task{ID: f.nextID, OwnerID: ownerID, Text: text, CreatedAt: time.Now().UTC()}
	return f.nextID
}

// Get returns a row regardless of owner.
func (f *FakeTaskStore) Get(id int64) (models.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	task, ok := f.rows[id]
	return task, ok
}

// Len returns the number of rows held for all owners.
func (f *FakeTaskStore) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.rows)
}

func (f *FakeTaskStore) count(method string) {
	f.Calls[method]++
}

// SelectTasks implements storage.TaskStore.
func (f *FakeTaskStore) SelectTasks(ctx context.Context, ownerID string) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("SelectTasks")
	if f.SelectErr != nil {
		return nil, f.SelectErr
	}

	tasks := []models.Task{}
	for _, task := range f.rows {
		if task.OwnerID == ownerID {
			tasks = append(tasks, task)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

// InsertTask implements storage.TaskStore.
func (f *FakeTaskStore) InsertTask(ctx context.Context, task *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("InsertTask")
	if f.InsertErr != nil {
		return f.InsertErr
	}

	f.nextID++
	task.ID = f.nextID
	task.CreatedAt = time.Now().UTC()
	f.rows[task.ID] = *task
	return nil
}

// UpdateTask implements storage.TaskStore.
func (f *FakeTaskStore) UpdateTask(ctx context.Context, ownerID string, taskID int64, text string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("UpdateTask")
	if f.UpdateErr != nil {
		return 0, f.UpdateErr
	}

	task, ok := f.rows[taskID]
	if !ok || task.OwnerID != ownerID {
		return 0, nil
	}
	task.Text = text
	f.rows[taskID] = task
	return 1, nil
}

// DeleteTask implements storage.TaskStore.
func (f *FakeTaskStore) DeleteTask(ctx context.Context, ownerID string, taskID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("DeleteTask")
	if f.DeleteErr != nil {
		return 0, f.DeleteErr
	}

	task, ok := f.rows[taskID]
	if !ok || task.OwnerID != ownerID {
		return 0, nil
	}
	delete(f.rows, taskID)
	return 1, nil
}

// Close implements storage.TaskStore.
func (f *FakeTaskStore) Close() error {
	return nil
}
