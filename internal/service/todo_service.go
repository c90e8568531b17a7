package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/AarushM142/Todo-list-with-Authentication/internal/models"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/reqctx"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/tasks"
	"github.com/AarushM142/Todo-list-with-Authentication/pkg/api"
)

// TodoService implements the TodoService RPC interface. Every call acts on
// the tasks of the authenticated caller.
type TodoService struct {
	repo   *tasks.Repository
	logger *slog.Logger
}

// NewTodoService creates a new TodoService.
func NewTodoService(repo *tasks.Repository, logger *slog.Logger) *TodoService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TodoService{repo: repo, logger: logger}
}

// ListTasks returns the caller's tasks ordered by ID.
func (s *TodoService) ListTasks(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.ListTasksResponse], error) {
	list, err := s.repo.List(ctx, reqctx.UserID(ctx))
	if err != nil {
		return nil, toConnectError(err)
	}

	response := &api.ListTasksResponse{Tasks: make([]*api.Task, 0, len(list))}
	for i := range list {
		response.Tasks = append(response.Tasks, taskToAPI(&list[i]))
	}
	return connect.NewResponse(response), nil
}

// CreateTask adds a task for the caller.
func (s *TodoService) CreateTask(ctx context.Context, req *connect.Request[api.CreateTaskRequest]) (*connect.Response[api.CreateTaskResponse], error) {
	task, err := s.repo.Create(ctx, reqctx.UserID(ctx), req.Msg.Text)
	if err != nil {
		return nil, toConnectError(err)
	}

	s.logger.Info("Task created", "task_id", task.ID, "user_id", task.OwnerID)
	return connect.NewResponse(&api.CreateTaskResponse{Task: taskToAPI(task)}), nil
}

// UpdateTask replaces the text of one of the caller's tasks. Tasks owned by
// someone else are reported as not found.
func (s *TodoService) UpdateTask(ctx context.Context, req *connect.Request[api.UpdateTaskRequest]) (*connect.Response[emptypb.Empty], error) {
	if err := s.repo.Update(ctx, reqctx.UserID(ctx), req.Msg.ID, req.Msg.Text); err != nil {
		return nil, toConnectError(err)
	}

	s.logger.Info("Task updated", "task_id", req.Msg.ID, "user_id", reqctx.UserID(ctx))
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// DeleteTask removes one of the caller's tasks.
func (s *TodoService) DeleteTask(ctx context.Context, req *connect.Request[api.DeleteTaskRequest]) (*connect.Response[api.DeleteTaskResponse], error) {
	removed, err := s.repo.Delete(ctx, reqctx.UserID(ctx), req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	s.logger.Info("Task delete", "task_id", req.Msg.ID, "user_id", reqctx.UserID(ctx), "removed", removed)
	return connect.NewResponse(&api.DeleteTaskResponse{Removed: removed}), nil
}

func taskToAPI(t *models.Task) *api.Task {
	out := &api.Task{ID: t.ID, Text: t.Text}
	if !t.CreatedAt.IsZero() {
		out.CreatedAt = t.CreatedAt.Unix()
	}
	return out
}
