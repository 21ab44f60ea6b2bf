package grpc

import (
	"errors"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps a service error kind to a gRPC status carrying only the
// caller-safe message.
func toStatus(err error) error {
	code := codes.Internal
	switch {
	case errors.Is(err, common.ErrorBadRequest):
		code = codes.InvalidArgument
	case errors.Is(err, common.ErrorUnauthorized):
		code = codes.Unauthenticated
	case errors.Is(err, common.ErrorNotFound):
		code = codes.NotFound
	case errors.Is(err, common.ErrorConflict):
		code = codes.AlreadyExists
	}
	return status.Error(code, common.PublicMessage(err))
}
