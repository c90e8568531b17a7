package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/AarushM142/Todo-list-with-Authentication/internal/models"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	store, err := NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTaskStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("InsertTask assigns increasing IDs", func(t *testing.T) {
		first := &models.Task{OwnerID: "u1", Text: "Buy milk"}
		second := &models.Task{OwnerID: "u1", Text: "Walk dog"}

		if err := store.InsertTask(ctx, first); err != nil {
			t.Fatalf("InsertTask failed: %v", err)
		}
		if err := store.InsertTask(ctx, second); err != nil {
			t.Fatalf("InsertTask failed: %v", err)
		}

		if first.ID == 0 || second.ID == 0 {
			t.Fatalf("Expected IDs to be assigned, got %d and %d", first.ID, second.ID)
		}
		if second.ID <= first.ID {
			t.Errorf("Expected increasing IDs, got %d then %d", first.ID, second.ID)
		}
		if first.CreatedAt.IsZero() {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("SelectTasks is owner scoped and ordered", func(t *testing.T) {
		if err := store.InsertTask(ctx, &models.Task{OwnerID: "u2", Text: "Other user"}); err != nil {
			t.Fatalf("InsertTask failed: %v", err)
		}

		tasks, err := store.SelectTasks(ctx, "u1")
		if err != nil {
			t.Fatalf("SelectTasks failed: %v", err)
		}
		if len(tasks) != 2 {
			t.Fatalf("Expected 2 tasks for u1, got %d", len(tasks))
		}
		if tasks[0].Text != "Buy milk" || tasks[1].Text != "Walk dog" {
			t.Errorf("Unexpected order: %q, %q", tasks[0].Text, tasks[1].Text)
		}
		for _, task := range tasks {
			if task.OwnerID != "u1" {
				t.Errorf("Task %d has owner %q, want u1", task.ID, task.OwnerID)
			}
		}
	})

	t.Run("SelectTasks returns empty slice for unknown owner", func(t *testing.T) {
		tasks, err := store.SelectTasks(ctx, "nobody")
		if err != nil {
			t.Fatalf("SelectTasks failed: %v", err)
		}
		if tasks == nil || len(tasks) != 0 {
			t.Errorf("Expected empty non-nil slice, got %#v", tasks)
		}
	})

	t.Run("UpdateTask only touches owned rows", func(t *testing.T) {
		foreign := &models.Task{OwnerID: "u2", Text: "Keep me"}
		if err := store.InsertTask(ctx, foreign); err != nil {
			t.Fatalf("InsertTask failed: %v", err)
		}

		n, err := store.UpdateTask(ctx, "u1", foreign.ID, "hijacked")
		if err != nil {
			t.Fatalf("UpdateTask failed: %v", err)
		}
		if n != 0 {
			t.Errorf("Expected 0 rows for foreign task, got %d", n)
		}

		tasks, _ := store.SelectTasks(ctx, "u2")
		for _, task := range tasks {
			if task.ID == foreign.ID && task.Text != "Keep me" {
				t.Errorf("Foreign task was modified: %q", task.Text)
			}
		}

		own := &models.Task{OwnerID: "u1", Text: "Draft"}
		if err := store.InsertTask(ctx, own); err != nil {
			t.Fatalf("InsertTask failed: %v", err)
		}
		n, err = store.UpdateTask(ctx, "u1", own.ID, "Final")
		if err != nil {
			t.Fatalf("UpdateTask failed: %v", err)
		}
		if n != 1 {
			t.Errorf("Expected 1 row updated, got %d", n)
		}
	})

	t.Run("DeleteTask is idempotent", func(t *testing.T) {
		task := &models.Task{OwnerID: "u3", Text: "Temporary"}
		if err := store.InsertTask(ctx, task); err != nil {
			t.Fatalf("InsertTask failed: %v", err)
		}

		n, err := store.DeleteTask(ctx, "u3", task.ID)
		if err != nil || n != 1 {
			t.Fatalf("First delete: n=%d err=%v", n, err)
		}
		n, err = store.DeleteTask(ctx, "u3", task.ID)
		if err != nil || n != 0 {
			t.Fatalf("Second delete: n=%d err=%v", n, err)
		}
	})
}

func TestUserStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("alice@example.com", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail == nil || byEmail.ID != user.ID {
		t.Fatalf("GetUserByEmail returned %+v, want ID %s", byEmail, user.ID)
	}

	byID, err := store.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if byID == nil || byID.Email != user.Email {
		t.Fatalf("GetUserByID returned %+v", byID)
	}

	missing, err := store.GetUserByEmail(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for unknown email, got %+v", missing)
	}

	err = store.CreateUser(ctx, models.NewUser("alice@example.com", "other"))
	if !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate for duplicate email, got %v", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, true},
		{"mysql other", &mysql.MySQLError{Number: 1045}, false},
		{"postgres duplicate", fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505"}), true},
		{"postgres other", &pgconn.PgError{Code: "23503"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueViolation(tt.err); got != tt.want {
				t.Errorf("isUniqueViolation(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRebind(t *testing.T) {
	tests := []struct {
		dialect Dialect
		query   string
		want    string
	}{
		{SQLite, "SELECT 1 WHERE a = ? AND b = ?", "SELECT 1 WHERE a = ? AND b = ?"},
		{MySQL, "SELECT 1 WHERE a = ?", "SELECT 1 WHERE a = ?"},
		{PostgreSQL, "UPDATE t SET x = ? WHERE id = ? AND y = ?", "UPDATE t SET x = $1 WHERE id = $2 AND y = $3"},
	}

	for _, tt := range tests {
		t.Run(string(tt.dialect), func(t *testing.T) {
			if got := tt.dialect.rebind(tt.query); got != tt.want {
				t.Errorf("rebind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseDialect(t *testing.T) {
	tests := map[string]Dialect{
		"sqlite":     SQLite,
		"SQLite3":    SQLite,
		"mysql":      MySQL,
		"postgres":   PostgreSQL,
		"postgresql": PostgreSQL,
	}
	for in, want := range tests {
		got, err := ParseDialect(in)
		if err != nil {
			t.Errorf("ParseDialect(%q) error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseDialect(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := ParseDialect("oracle"); err == nil {
		t.Error("Expected error for unknown dialect")
	}
}

func TestMySQLDSNEnablesFoundRows(t *testing.T) {
	dsn, err := mysqlDSN("todo:secret@tcp(127.0.0.1:3306)/todos?parseTime=true")
	if err != nil {
		t.Fatalf("mysqlDSN failed: %v", err)
	}
	if !contains(dsn, "clientFoundRows=true") {
		t.Errorf("Expected clientFoundRows in %q", dsn)
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
