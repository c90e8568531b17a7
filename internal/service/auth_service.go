package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/AarushM142/Todo-list-with-Authentication/internal/auth"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/reqctx"
	"github.com/AarushM142/Todo-list-with-Authentication/pkg/api"
)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	gateway *auth.Gateway
	logger  *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(gateway *auth.Gateway, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		gateway: gateway,
		logger:  logger,
	}
}

// SignUp creates a new account. An address that is already registered is
// reported through Status, not as an error.
func (s *AuthService) SignUp(ctx context.Context, req *connect.Request[api.SignUpRequest]) (*connect.Response[api.SignUpResponse], error) {
	s.logger.Info("SignUp request", "email", req.Msg.Email)

	res, err := s.gateway.SignUp(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		return nil, toConnectError(err)
	}

	response := &api.SignUpResponse{Status: api.SignUpCreated}
	if res.Status == auth.SignUpAlreadyRegistered {
		response.Status = api.SignUpAlreadyRegistered
		return connect.NewResponse(response), nil
	}

	response.User = &api.User{ID: res.Identity.UserID, Email: res.Identity.Email}
	if res.Grant != nil {
		response.Token = res.Grant.AccessToken
		response.ExpiresAt = res.Grant.ExpiresAt.Unix()
	}
	return connect.NewResponse(response), nil
}

// SignIn authenticates a user and returns an access token.
func (s *AuthService) SignIn(ctx context.Context, req *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error) {
	s.logger.Info("SignIn request", "email", req.Msg.Email)

	grant, err := s.gateway.SignIn(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		return nil, toConnectError(err)
	}

	response := &api.SignInResponse{
		User:      &api.User{ID: grant.Identity.UserID, Email: grant.Identity.Email},
		Token:     grant.AccessToken,
		ExpiresAt: grant.ExpiresAt.Unix(),
	}
	return connect.NewResponse(response), nil
}

// SignOut revokes the caller's token where the provider supports it. It
// always succeeds; a client discards its token either way.
func (s *AuthService) SignOut(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[emptypb.Empty], error) {
	if token := reqctx.AccessToken(ctx); token != "" {
		s.gateway.SignOut(ctx, token)
	}
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// WhoAmI returns the authenticated caller.
func (s *AuthService) WhoAmI(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.WhoAmIResponse], error) {
	// Get user ID from context (set by auth middleware)
	userID := reqctx.UserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	response := &api.WhoAmIResponse{
		User: &api.User{ID: userID, Email: reqctx.Email(ctx)},
	}
	return connect.NewResponse(response), nil
}
