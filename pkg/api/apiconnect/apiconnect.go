// Package apiconnect wires the todo.v1 services to Connect: procedure names,
// handler constructors and typed clients.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/AarushM142/Todo-list-with-Authentication/pkg/api"
)

const (
	// AuthServiceName is the fully-qualified name of the AuthService service.
	AuthServiceName = "todo.v1.AuthService"
	// TodoServiceName is the fully-qualified name of the TodoService service.
	TodoServiceName = "todo.v1.TodoService"
)

// Procedure paths, mounted under the service name.
const (
	AuthServiceSignUpProcedure  = "/todo.v1.AuthService/SignUp"
	AuthServiceSignInProcedure  = "/todo.v1.AuthService/SignIn"
	AuthServiceSignOutProcedure = "/todo.v1.AuthService/SignOut"
	AuthServiceWhoAmIProcedure  = "/todo.v1.AuthService/WhoAmI"

	TodoServiceListTasksProcedure  = "/todo.v1.TodoService/ListTasks"
	TodoServiceCreateTaskProcedure = "/todo.v1.TodoService/CreateTask"
	TodoServiceUpdateTaskProcedure = "/todo.v1.TodoService/UpdateTask"
	TodoServiceDeleteTaskProcedure = "/todo.v1.TodoService/DeleteTask"
)

// AuthServiceHandler is implemented by the server side of AuthService.
type AuthServiceHandler interface {
	SignUp(context.Context, *connect.Request[api.SignUpRequest]) (*connect.Response[api.SignUpResponse], error)
	SignIn(context.Context, *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error)
	SignOut(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[emptypb.Empty], error)
	WhoAmI(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.WhoAmIResponse], error)
}

// TodoServiceHandler is implemented by the server side of TodoService.
type TodoServiceHandler interface {
	ListTasks(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.ListTasksResponse], error)
	CreateTask(context.Context, *connect.Request[api.CreateTaskRequest]) (*connect.Response[api.CreateTaskResponse], error)
	UpdateTask(context.Context, *connect.Request[api.UpdateTaskRequest]) (*connect.Response[emptypb.Empty], error)
	DeleteTask(context.Context, *connect.Request[api.DeleteTaskRequest]) (*connect.Response[api.DeleteTaskResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler for svc and returns the path
// to mount it on.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts)
	routes := map[string]http.Handler{
		AuthServiceSignUpProcedure:  connect.NewUnaryHandler(AuthServiceSignUpProcedure, svc.SignUp, opts...),
		AuthServiceSignInProcedure:  connect.NewUnaryHandler(AuthServiceSignInProcedure, svc.SignIn, opts...),
		AuthServiceSignOutProcedure: connect.NewUnaryHandler(AuthServiceSignOutProcedure, svc.SignOut, opts...),
		AuthServiceWhoAmIProcedure:  connect.NewUnaryHandler(AuthServiceWhoAmIProcedure, svc.WhoAmI, opts...),
	}
	return "/" + AuthServiceName + "/", router(routes)
}

// NewTodoServiceHandler builds an HTTP handler for svc and returns the path
// to mount it on.
func NewTodoServiceHandler(svc TodoServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts)
	routes := map[string]http.Handler{
		TodoServiceListTasksProcedure:  connect.NewUnaryHandler(TodoServiceListTasksProcedure, svc.ListTasks, opts...),
		TodoServiceCreateTaskProcedure: connect.NewUnaryHandler(TodoServiceCreateTaskProcedure, svc.CreateTask, opts...),
		TodoServiceUpdateTaskProcedure: connect.NewUnaryHandler(TodoServiceUpdateTaskProcedure, svc.UpdateTask, opts...),
		TodoServiceDeleteTaskProcedure: connect.NewUnaryHandler(TodoServiceDeleteTaskProcedure, svc.DeleteTask, opts...),
	}
	return "/" + TodoServiceName + "/", router(routes)
}

func withCodec(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
}

func router(routes map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// AuthServiceClient is a client for AuthService.
type AuthServiceClient interface {
	SignUp(context.Context, *connect.Request[api.SignUpRequest]) (*connect.Response[api.SignUpResponse], error)
	SignIn(context.Context, *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error)
	SignOut(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[emptypb.Empty], error)
	WhoAmI(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.WhoAmIResponse], error)
}

// TodoServiceClient is a client for TodoService.
type TodoServiceClient interface {
	ListTasks(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.ListTasksResponse], error)
	CreateTask(context.Context, *connect.Request[api.CreateTaskRequest]) (*connect.Response[api.CreateTaskResponse], error)
	UpdateTask(context.Context, *connect.Request[api.UpdateTaskRequest]) (*connect.Response[emptypb.Empty], error)
	DeleteTask(context.Context, *connect.Request[api.DeleteTaskRequest]) (*connect.Response[api.DeleteTaskResponse], error)
}

type authServiceClient struct {
	signUp  *connect.Client[api.SignUpRequest, api.SignUpResponse]
	signIn  *connect.Client[api.SignInRequest, api.SignInResponse]
	signOut *connect.Client[emptypb.Empty, emptypb.Empty]
	whoAmI  *connect.Client[emptypb.Empty, api.WhoAmIResponse]
}

// NewAuthServiceClient creates a client for the AuthService at baseURL.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = withClientCodec(opts)
	return &authServiceClient{
		signUp:  connect.NewClient[api.SignUpRequest, api.SignUpResponse](httpClient, baseURL+AuthServiceSignUpProcedure, opts...),
		signIn:  connect.NewClient[api.SignInRequest, api.SignInResponse](httpClient, baseURL+AuthServiceSignInProcedure, opts...),
		signOut: connect.NewClient[emptypb.Empty, emptypb.Empty](httpClient, baseURL+AuthServiceSignOutProcedure, opts...),
		whoAmI:  connect.NewClient[emptypb.Empty, api.WhoAmIResponse](httpClient, baseURL+AuthServiceWhoAmIProcedure, opts...),
	}
}

func (c *authServiceClient) SignUp(ctx context.Context, req *connect.Request[api.SignUpRequest]) (*connect.Response[api.SignUpResponse], error) {
	return c.signUp.CallUnary(ctx, req)
}

func (c *authServiceClient) SignIn(ctx context.Context, req *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error) {
	return c.signIn.CallUnary(ctx, req)
}

func (c *authServiceClient) SignOut(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[emptypb.Empty], error) {
	return c.signOut.CallUnary(ctx, req)
}

func (c *authServiceClient) WhoAmI(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.WhoAmIResponse], error) {
	return c.whoAmI.CallUnary(ctx, req)
}

type todoServiceClient struct {
	listTasks  *connect.Client[emptypb.Empty, api.ListTasksResponse]
	createTask *connect.Client[api.CreateTaskRequest, api.CreateTaskResponse]
	updateTask *connect.Client[api.UpdateTaskRequest, emptypb.Empty]
	deleteTask *connect.Client[api.DeleteTaskRequest, api.DeleteTaskResponse]
}

// NewTodoServiceClient creates a client for the TodoService at baseURL.
func NewTodoServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TodoServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = withClientCodec(opts)
	return &todoServiceClient{
		listTasks:  connect.NewClient[emptypb.Empty, api.ListTasksResponse](httpClient, baseURL+TodoServiceListTasksProcedure, opts...),
		createTask: connect.NewClient[api.CreateTaskRequest, api.CreateTaskResponse](httpClient, baseURL+TodoServiceCreateTaskProcedure, opts...),
		updateTask: connect.NewClient[api.UpdateTaskRequest, emptypb.Empty](httpClient, baseURL+TodoServiceUpdateTaskProcedure, opts...),
		deleteTask: connect.NewClient[api.DeleteTaskRequest, api.DeleteTaskResponse](httpClient, baseURL+TodoServiceDeleteTaskProcedure, opts...),
	}
}

func (c *todoServiceClient) ListTasks(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.ListTasksResponse], error) {
	return c.listTasks.CallUnary(ctx, req)
}

func (c *todoServiceClient) CreateTask(ctx context.Context, req *connect.Request[api.CreateTaskRequest]) (*connect.Response[api.CreateTaskResponse], error) {
	return c.createTask.CallUnary(ctx, req)
}

func (c *todoServiceClient) UpdateTask(ctx context.Context, req *connect.Request[api.UpdateTaskRequest]) (*connect.Response[emptypb.Empty], error) {
	return c.updateTask.CallUnary(ctx, req)
}

func (c *todoServiceClient) DeleteTask(ctx context.Context, req *connect.Request[api.DeleteTaskRequest]) (*connect.Response[api.DeleteTaskResponse], error) {
	return c.deleteTask.CallUnary(ctx, req)
}

func withClientCodec(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
}
