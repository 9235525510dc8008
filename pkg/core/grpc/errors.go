package grpc

import (
	"context"
	"errors"

	mdwerror "github.com/msto63/actionvm/foundation/core/error"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// CodeFor maps an error code to the gRPC status code returned to clients
func CodeFor(code mdwerror.Code) codes.Code {
	switch code {
	case mdwerror.CodeInvalidInput, mdwerror.CodeInvalidIdentifier, mdwerror.CodeUnknownTag:
		return codes.InvalidArgument
	case mdwerror.CodeNotFound, mdwerror.CodePathNotFound, mdwerror.CodeUnresolvedIdentifier:
		return codes.NotFound
	case mdwerror.CodeNotCallable, mdwerror.CodeNotConstructible, mdwerror.CodeInvocationFailed:
		return codes.FailedPrecondition
	case mdwerror.CodeTimeout:
		return codes.DeadlineExceeded
	case mdwerror.CodeServiceUnavailable, mdwerror.CodeNetworkError:
		return codes.Unavailable
	case mdwerror.CodeInternal:
		return codes.Internal
	default:
		return codes.Unknown
	}
}

// ToStatus converts err into a gRPC status error. Errors that already carry
// a status pass through unchanged.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return status.Error(codes.Canceled, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(CodeFor(mdwerror.GetCode(err)), err.Error())
}

// ErrorStatusInterceptor converts handler errors into gRPC status errors
func ErrorStatusInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		return resp, ToStatus(err)
	}
}
