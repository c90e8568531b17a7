package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/AarushM142/Todo-list-with-Authentication/internal/auth"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/tasks"
)

// toConnectError maps domain errors to Connect codes.
func toConnectError(err error) *connect.Error {
	var code connect.Code
	switch {
	case errors.Is(err, tasks.ErrValidation),
		errors.Is(err, auth.ErrMissingCredentials),
		errors.Is(err, auth.ErrWeakPassword):
		code = connect.CodeInvalidArgument
	case errors.Is(err, tasks.ErrNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, auth.ErrEmailExists):
		code = connect.CodeAlreadyExists
	case errors.Is(err, auth.ErrSignUpRejected):
		code = connect.CodeFailedPrecondition
	case errors.Is(err, tasks.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		code = connect.CodeUnauthenticated
	case errors.Is(err, tasks.ErrStoreUnavailable),
		errors.Is(err, auth.ErrProviderUnavailable):
		code = connect.CodeUnavailable
	default:
		code = connect.CodeInternal
	}
	return connect.NewError(code, err)
}
