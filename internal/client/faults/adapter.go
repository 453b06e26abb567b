package faults

import (
	"context"
	"errors"
	"net"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RemoteError is an error answer from the remote store in HTTP terms.
// StatusCode 0 means no exchange happened at all.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return e.Message
}

var networkVocabulary = []string{
	"failed to fetch",
	"network error",
	"connection lost",
	"connection refused",
	"connection reset",
	"no such host",
}

// FromError converts a raw error into a Fault. It never fails.
func FromError(err error) Fault {
	if err == nil {
		return Fault{Kind: KindUnknown}
	}

	var f *Fault
	if errors.As(err, &f) {
		return *f
	}

	var re *RemoteError
	if errors.As(err, &re) {
		if k := kindFromStatusCode(re.StatusCode); k != KindUnknown {
			return Fault{Kind: k, Raw: err}
		}
		if matchesNetworkVocabulary(re.Message) {
			return Fault{Kind: KindNetwork, Raw: err}
		}
		return Fault{Kind: KindUnknown, Raw: err}
	}

	if st, ok := status.FromError(err); ok && st.Code() != codes.OK && st.Code() != codes.Unknown {
		return Fault{Kind: kindFromCode(st.Code()), Raw: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Fault{Kind: KindNetwork, Raw: err}
	}

	var nerr net.Error
	if errors.As(err, &nerr) {
		return Fault{Kind: KindNetwork, Raw: err}
	}

	if matchesNetworkVocabulary(err.Error()) {
		return Fault{Kind: KindNetwork, Raw: err}
	}

	return Fault{Kind: KindUnknown, Raw: err}
}

// HTTPStatusFromCode maps a gRPC code onto the HTTP status the remote store
// would have answered with. Transport-level failures map to 0. A call the
// caller cancelled maps to 499 and is not retried.
func HTTPStatusFromCode(c codes.Code) int {
	switch c {
	case codes.OK:
		return 200
	case codes.Unavailable, codes.DeadlineExceeded:
		return 0
	case codes.Canceled:
		return 499
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return 400
	case codes.Unauthenticated:
		return 401
	case codes.PermissionDenied:
		return 403
	case codes.NotFound:
		return 404
	case codes.AlreadyExists, codes.Aborted:
		return 409
	case codes.ResourceExhausted:
		return 429
	case codes.Unimplemented:
		return 501
	default:
		return 500
	}
}

func kindFromStatusCode(code int) Kind {
	switch code {
	case 0, 408, 429, 502, 503, 504:
		return KindNetwork
	case 400, 422:
		return KindValidation
	case 401:
		return KindSession
	case 403:
		return KindAuth
	case 409:
		return KindConflict
	default:
		return KindUnknown
	}
}

func kindFromCode(c codes.Code) Kind {
	return kindFromStatusCode(HTTPStatusFromCode(c))
}

func matchesNetworkVocabulary(msg string) bool {
	msg = strings.ToLower(msg)
	for _, w := range networkVocabulary {
		if strings.Contains(msg, w) {
			return true
		}
	}
	return false
}
