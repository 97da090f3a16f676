package grpc

import (
	"errors"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors onto gRPC status codes. Remote store
// failures are checked first since they may wrap a not-found from the
// blob backend.
func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrAuthenticationFailure):
		return status.Error(codes.PermissionDenied, common.ErrAuthenticationFailure.Error())
	case errors.Is(err, common.ErrNoCredentialRecord):
		return status.Error(codes.FailedPrecondition, "set a password first")
	case errors.Is(err, common.ErrNotConnected):
		return status.Error(codes.FailedPrecondition, common.ErrNotConnected.Error())
	case errors.Is(err, common.ErrRotationInProgress):
		return status.Error(codes.FailedPrecondition, common.ErrRotationInProgress.Error())
	case errors.Is(err, common.ErrShuttingDown):
		return status.Error(codes.Unavailable, common.ErrShuttingDown.Error())
	case errors.Is(err, common.ErrRemoteStore):
		return status.Error(codes.Unavailable, common.ErrRemoteStore.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, common.ErrorNotFound.Error())
	case errors.Is(err, common.ErrorForbidden):
		return status.Error(codes.PermissionDenied, common.ErrorForbidden.Error())
	case errors.Is(err, common.ErrPasswordTooShort):
		return status.Error(codes.InvalidArgument, common.ErrPasswordTooShort.Error())
	case errors.Is(err, common.ErrInvalidCredentialInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return status.Error(codes.Unauthenticated, err.Error())
	default:
		return status.Error(codes.Internal, common.ErrorInternal.Error())
	}
}
