// Package api defines the messages of the todo.v1 Connect services.
//
// Messages are plain Go structs carried as JSON; requests or responses with
// no fields use emptypb.Empty.
package api

// Sign-up statuses reported in SignUpResponse.Status.
const (
	SignUpCreated           = "created"
	SignUpAlreadyRegistered = "already_registered"
)

// User is the public view of an account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Task is one to-do item of the caller.
type Task struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"created_at,omitempty"`
}

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpResponse carries Token only when the provider signed the new user
// in straight away.
type SignUpResponse struct {
	Status    string `json:"status"`
	User      *User  `json:"user,omitempty"`
	Token     string `json:"token,omitempty"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInResponse struct {
	User      *User  `json:"user"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}

type WhoAmIResponse struct {
	User *User `json:"user"`
}

type ListTasksResponse struct {
	Tasks []*Task `json:"tasks"`
}

type CreateTaskRequest struct {
	Text string `json:"text"`
}

type CreateTaskResponse struct {
	Task *Task `json:"task"`
}

type UpdateTaskRequest struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

type DeleteTaskRequest struct {
	ID int64 `json:"id"`
}

// DeleteTaskResponse reports whether a task was actually removed; deleting
// an unknown ID succeeds with Removed false.
type DeleteTaskResponse struct {
	Removed bool `json:"removed"`
}
