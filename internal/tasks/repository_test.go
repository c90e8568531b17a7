package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/AarushM142/Todo-list-with-Authentication/internal/models"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/testutil"
)

func texts(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.Text
	}
	return out
}

func TestCreateThenList(t *testing.T) {
	store := testutil.NewFakeTaskStore()
	repo := NewRepository(store)
	ctx := context.Background()

	for _, text := range []string{"Buy milk", "Walk dog"} {
		if _, err := repo.Create(ctx, "u1", text); err != nil {
			t.Fatalf("Create(%q) failed: %v", text, err)
		}
	}

	tasks, err := repo.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	got := texts(tasks)
	want := []string{"Buy milk", "Walk dog"}
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCreateAddsExactlyOneOwnedTask(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain", "Water plants", "Water plants"},
		{"trimmed", "  Call mom \n", "Call mom"},
		{"unicode", "Café ☕", "Café ☕"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewFakeTaskStore()
			store.Seed("u1", "existing")
			repo := NewRepository(store)
			ctx := context.Background()

			before, _ := repo.List(ctx, "u1")
			created, err := repo.Create(ctx, "u1", tt.text)
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			after, _ := repo.List(ctx, "u1")

			if len(after) != len(before)+1 {
				t.Fatalf("Expected one new task, before=%d after=%d", len(before), len(after))
			}
			last := after[len(after)-1]
			if last.ID != created.ID || last.Text != tt.want || last.OwnerID != "u1" {
				t.Errorf("New task = %+v, want text %q owner u1", last, tt.want)
			}
		})
	}
}

func TestCreateRejectsEmptyText(t *testing.T) {
	store := testutil.NewFakeTaskStore()
	repo := NewRepository(store)

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := repo.Create(context.Background(), "u1", text)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("Create(%q) error = %v, want ErrValidation", text, err)
		}
	}
	if store.Len() != 0 {
		t.Errorf("Store changed: %d rows", store.Len())
	}
	if store.Calls["InsertTask"] != 0 {
		t.Errorf("InsertTask called %d times", store.Calls["InsertTask"])
	}
}

func TestListNeverReturnsForeignTasks(t *testing.T) {
	store := testutil.NewFakeTaskStore()
	store.Seed("u1", "mine")
	store.Seed("u2", "theirs")
	store.Seed("u1", "also mine")
	repo := NewRepository(store)

	for _, owner := range []string{"u1", "u2", "u3"} {
		tasks, err := repo.List(context.Background(), owner)
		if err != nil {
			t.Fatalf("List(%s) failed: %v", owner, err)
		}
		for _, task := range tasks {
			if task.OwnerID != owner {
				t.Errorf("List(%s) returned task owned by %s", owner, task.OwnerID)
			}
		}
	}

	empty, _ := repo.List(context.Background(), "u3")
	if empty == nil || len(empty) != 0 {
		t.Errorf("Expected empty slice for owner without tasks, got %#v", empty)
	}
}

func TestUpdate(t *testing.T) {
	store := testutil.NewFakeTaskStore()
	mine := store.Seed("u1", "Draft")
	theirs := store.Seed("u2", "Keep me")
	repo := NewRepository(store)
	ctx := context.Background()

	if err := repo.Update(ctx, "u1", mine, " Final "); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, _ := store.Get(mine)
	if got.Text != "Final" || got.OwnerID != "u1" {
		t.Errorf("Updated task = %+v", got)
	}

	err := repo.Update(ctx, "u1", theirs, "x")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Cross-owner update error = %v, want ErrNotFound", err)
	}
	other, _ := store.Get(theirs)
	if other.Text != "Keep me" || other.OwnerID != "u2" {
		t.Errorf("Foreign task changed: %+v", other)
	}

	if err := repo.Update(ctx, "u1", 999, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Missing task error = %v, want ErrNotFound", err)
	}
	if err := repo.Update(ctx, "u1", mine, "  "); !errors.Is(err, ErrValidation) {
		t.Errorf("Empty update error = %v, want ErrValidation", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := testutil.NewFakeTaskStore()
	id := store.Seed("u1", "Temporary")
	keep := store.Seed("u1", "Stays")
	repo := NewRepository(store)
	ctx := context.Background()

	removed, err := repo.Delete(ctx, "u1", id)
	if err != nil || !removed {
		t.Fatalf("First delete: removed=%v err=%v", removed, err)
	}
	once, _ := repo.List(ctx, "u1")

	removed, err = repo.Delete(ctx, "u1", id)
	if err != nil {
		t.Fatalf("Second delete failed: %v", err)
	}
	if removed {
		t.Error("Second delete reported a removal")
	}
	twice, _ := repo.List(ctx, "u1")

	if len(once) != 1 || len(twice) != 1 || once[0].ID != keep || twice[0].ID != keep {
		t.Errorf("State differs: once=%v twice=%v", texts(once), texts(twice))
	}
}

func TestDeleteForeignTaskIsNoop(t *testing.T) {
	store := testutil.NewFakeTaskStore()
	theirs := store.Seed("u2", "Not yours")
	repo := NewRepository(store)

	removed, err := repo.Delete(context.Background(), "u1", theirs)
	if err != nil || removed {
		t.Fatalf("Delete foreign: removed=%v err=%v", removed, err)
	}
	if _, ok := store.Get(theirs); !ok {
		t.Error("Foreign task was deleted")
	}
}

func TestStoreFailuresAreUnavailable(t *testing.T) {
	boom := errors.New("connection refused")
	store := testutil.NewFakeTaskStore()
	store.SelectErr, store.InsertErr, store.UpdateErr, store.DeleteErr = boom, boom, boom, boom
	repo := NewRepository(store)
	ctx := context.Background()

	if _, err := repo.List(ctx, "u1"); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("List error = %v", err)
	}
	if _, err := repo.Create(ctx, "u1", "x"); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Create error = %v", err)
	}
	if err := repo.Update(ctx, "u1", 1, "x"); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Update error = %v", err)
	}
	if _, err := repo.Delete(ctx, "u1", 1); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Delete error = %v", err)
	}
}

func TestMissingOwner(t *testing.T) {
	repo := NewRepository(testutil.NewFakeTaskStore())
	if _, err := repo.List(context.Background(), ""); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("List error = %v", err)
	}
	if _, err := repo.Create(context.Background(), "", "x"); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Create error = %v", err)
	}
}
