package errors

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var grpcCodeByKind = map[Kind]codes.Code{
	KindNotFound:       codes.NotFound,
	KindDuplicateEmail: codes.AlreadyExists,
	KindValidation:     codes.InvalidArgument,
	KindInternal:       codes.Internal,
}

// GRPCCode returns the gRPC code mapped to the kind of err.
func GRPCCode(err error) codes.Code {
	return grpcCodeByKind[KindOf(err)]
}

// ToGRPCError converts err into a status error carrying the same client
// message as the HTTP translation. Status errors pass through unchanged.
func ToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	kind := KindOf(err)
	if kind == KindInternal {
		var internal *InternalError
		if st, ok := status.FromError(err); ok && !errors.As(err, &internal) {
			return st.Err()
		}
	}
	return status.Error(grpcCodeByKind[kind], clientMessage(err, kind))
}
