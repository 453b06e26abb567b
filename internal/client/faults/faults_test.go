package faults

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestRetryable_SampleTable(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		online bool
		want   bool
	}{
		{"HTTP 400 invalid amount", &RemoteError{StatusCode: 400, Message: "invalid amount"}, true, false},
		{"HTTP 0", &RemoteError{StatusCode: 0, Message: ""}, true, true},
		{"TypeError: Failed to fetch", errors.New("TypeError: Failed to fetch"), true, true},
		{"HTTP 403 not authorized", &RemoteError{StatusCode: 403, Message: "not authorized"}, true, false},
		{"offline with any error", &RemoteError{StatusCode: 400, Message: "invalid amount"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Retryable(tt.err, tt.online))
		})
	}
}

func TestFromError_Kinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"network vocabulary", errors.New("Network Error while posting"), KindNetwork},
		{"connection lost", fmt.Errorf("write: %w", errors.New("connection lost")), KindNetwork},
		{"grpc unavailable", status.Error(codes.Unavailable, "transport is closing"), KindNetwork},
		{"grpc deadline", status.Error(codes.DeadlineExceeded, "deadline"), KindNetwork},
		{"grpc canceled", status.Error(codes.Canceled, "context canceled"), KindUnknown},
		{"context canceled", context.Canceled, KindUnknown},
		{"grpc rate limited", status.Error(codes.ResourceExhausted, "slow down"), KindNetwork},
		{"grpc invalid argument", status.Error(codes.InvalidArgument, "amount must be positive"), KindValidation},
		{"grpc unauthenticated", status.Error(codes.Unauthenticated, "missing token"), KindSession},
		{"grpc permission denied", status.Error(codes.PermissionDenied, "wrong organization"), KindAuth},
		{"grpc already exists", status.Error(codes.AlreadyExists, "duplicate number"), KindConflict},
		{"grpc internal", status.Error(codes.Internal, "boom"), KindUnknown},
		{"context deadline", context.DeadlineExceeded, KindNetwork},
		{"net error", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("refused")}, KindNetwork},
		{"remote 401", &RemoteError{StatusCode: 401, Message: "token expired"}, KindSession},
		{"remote 409", &RemoteError{StatusCode: 409, Message: "exists"}, KindConflict},
		{"remote 500 with vocabulary", &RemoteError{StatusCode: 500, Message: "upstream network error"}, KindNetwork},
		{"remote 500", &RemoteError{StatusCode: 500, Message: "constraint violated"}, KindUnknown},
		{"plain error", errors.New("duplicate key value violates unique constraint"), KindUnknown},
		{"already a fault", New(KindValidation, errors.New("bad")), KindValidation},
		{"wrapped fault", fmt.Errorf("create: %w", New(KindAuth, errors.New("no session"))), KindAuth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := FromError(tt.err)
			assert.Equal(t, tt.want, f.Kind)
			assert.Error(t, f.Raw)
		})
	}
}

func TestFromError_Nil(t *testing.T) {
	f := FromError(nil)
	assert.Equal(t, KindUnknown, f.Kind)
	assert.False(t, Retryable(nil, true))
	assert.False(t, Retryable(nil, false))
}

func TestIsRetryable(t *testing.T) {
	for _, k := range []Kind{KindUnknown, KindValidation, KindAuth, KindConflict, KindSession} {
		assert.False(t, IsRetryable(Fault{Kind: k}, true), k.String())
		assert.True(t, IsRetryable(Fault{Kind: k}, false), k.String())
	}
	assert.True(t, IsRetryable(Fault{Kind: KindNetwork}, true))
}

func TestIsRetryable_CancelledCallIsTerminalOnline(t *testing.T) {
	f := FromError(status.Error(codes.Canceled, "context canceled"))
	assert.False(t, IsRetryable(f, true))
	assert.True(t, IsRetryable(f, false))
}

func TestFault_ErrorAndUnwrap(t *testing.T) {
	raw := errors.New("amount must be positive")
	f := New(KindValidation, raw)

	assert.Equal(t, "validation fault: amount must be positive", f.Error())
	assert.ErrorIs(t, f, raw)
	assert.Equal(t, "auth fault", New(KindAuth, nil).Error())
}

func TestHTTPStatusFromCode(t *testing.T) {
	assert.Equal(t, 0, HTTPStatusFromCode(codes.Unavailable))
	assert.Equal(t, 499, HTTPStatusFromCode(codes.Canceled))
	assert.Equal(t, 400, HTTPStatusFromCode(codes.InvalidArgument))
	assert.Equal(t, 401, HTTPStatusFromCode(codes.Unauthenticated))
	assert.Equal(t, 403, HTTPStatusFromCode(codes.PermissionDenied))
	assert.Equal(t, 409, HTTPStatusFromCode(codes.AlreadyExists))
	assert.Equal(t, 500, HTTPStatusFromCode(codes.Internal))
}
