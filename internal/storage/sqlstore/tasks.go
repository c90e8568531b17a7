package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/AarushM142/Todo-list-with-Authentication/internal/models"
)

// SelectTasks returns the owner's tasks ordered by ID.
func (s *Store) SelectTasks(ctx context.Context, ownerID string) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		s.dialect.rebind("SELECT id, task, user_id, created_at FROM todos WHERE user_id = ? ORDER BY id ASC"),
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var task models.Task
		var createdAt int64
		if err := rows.Scan(&task.ID, &task.Text, &task.OwnerID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		task.CreatedAt = time.Unix(createdAt, 0).UTC()
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}

// InsertTask persists a new task and fills in its ID and CreatedAt.
func (s *Store) InsertTask(ctx context.Context, task *models.Task) error {
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	createdAt := task.CreatedAt.Unix()

	// pgx has no LastInsertId; ask for the generated key instead.
	if s.dialect == PostgreSQL {
		err := s.db.QueryRowContext(ctx,
			s.dialect.rebind("INSERT INTO todos (task, user_id, created_at) VALUES (?, ?, ?) RETURNING id"),
			task.Text, task.OwnerID, createdAt,
		).Scan(&task.ID)
		if err != nil {
			return fmt.Errorf("failed to insert task: %w", err)
		}
		return nil
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO todos (task, user_id, created_at) VALUES (?, ?, ?)",
		task.Text, task.OwnerID, createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read task id: %w", err)
	}
	task.ID = id

	return nil
}

// UpdateTask rewrites the text of one owned task. The owner column is only
// ever used as a filter here.
func (s *Store) UpdateTask(ctx context.Context, ownerID string, taskID int64, text string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		s.dialect.rebind("UPDATE todos SET task = ? WHERE id = ? AND user_id = ?"),
		text, taskID, ownerID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}

// DeleteTask removes one owned task.
func (s *Store) DeleteTask(ctx context.Context, ownerID string, taskID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		s.dialect.rebind("DELETE FROM todos WHERE id = ? AND user_id = ?"),
		taskID, ownerID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}
