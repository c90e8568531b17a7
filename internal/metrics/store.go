package metrics

import (
	"context"
	"time"

	"github.com/AarushM142/Todo-list-with-Authentication/internal/models"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/storage"
)

// instrumentedStore records a counter and latency sample for every call.
type instrumentedStore struct {
	next    storage.TaskStore
	metrics *Metrics
}

// InstrumentTaskStore wraps store so each call is observed on m.
// With a nil m the store is returned unchanged.
func InstrumentTaskStore(store storage.TaskStore, m *Metrics) storage.TaskStore {
	if m == nil {
		return store
	}
	return &instrumentedStore{next: store, metrics: m}
}

func (s *instrumentedStore) SelectTasks(ctx context.Context, ownerID string) ([]models.Task, error) {
	start := time.Now()
	tasks, err := s.next.SelectTasks(ctx, ownerID)
	s.metrics.observeStore("select", start, err)
	return tasks, err
}

func (s *instrumentedStore) InsertTask(ctx context.Context, task *models.Task) error {
	start := time.Now()
	err := s.next.InsertTask(ctx, task)
	s.metrics.observeStore("insert", start, err)
	return err
}

func (s *instrumentedStore) UpdateTask(ctx context.Context, ownerID string, taskID int64, text string) (int64, error) {
	start := time.Now()
	n, err := s.next.UpdateTask(ctx, ownerID, taskID, text)
	s.metrics.observeStore("update", start, err)
	return n, err
}

func (s *instrumentedStore) DeleteTask(ctx context.Context, ownerID string, taskID int64) (int64, error) {
	start := time.Now()
	n, err := s.next.DeleteTask(ctx, ownerID, taskID)
	s.metrics.observeStore("delete", start, err)
	return n, err
}

func (s *instrumentedStore) Close() error {
	return s.next.Close()
}
