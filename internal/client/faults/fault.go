// Package faults turns errors from remote calls into a structured Fault and
// decides whether a failed write may be retried.
//
// FromError is the only place that inspects raw errors (status codes,
// network errors, message text). Everything downstream works on Fault.Kind,
// and IsRetryable is the single authority on retryable versus terminal.
package faults

import "fmt"

// Kind classifies a failure.
type Kind int

const (
	KindUnknown Kind = iota
	// KindNetwork means no usable answer came back from the server.
	KindNetwork
	KindValidation
	KindAuth
	// KindConflict is a uniqueness violation detected by the server.
	KindConflict
	// KindSession means the caller is not signed in or the token expired.
	// It says nothing about the write itself.
	KindSession
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindConflict:
		return "conflict"
	case KindSession:
		return "session"
	default:
		return "unknown"
	}
}

// Fault is a classified error.
type Fault struct {
	Kind Kind
	Raw  error
}

// New wraps err as a fault of the given kind.
func New(kind Kind, err error) *Fault {
	return &Fault{Kind: kind, Raw: err}
}

func (f *Fault) Error() string {
	if f.Raw == nil {
		return f.Kind.String() + " fault"
	}
	return fmt.Sprintf("%s fault: %v", f.Kind, f.Raw)
}

func (f *Fault) Unwrap() error {
	return f.Raw
}

// IsRetryable reports whether the write that produced f may be queued and
// retried. Any failure while the host is offline is retryable.
func IsRetryable(f Fault, online bool) bool {
	if !online {
		return true
	}
	return f.Kind == KindNetwork
}

// Retryable classifies err and applies IsRetryable.
func Retryable(err error, online bool) bool {
	if err == nil {
		return false
	}
	return IsRetryable(FromError(err), online)
}
