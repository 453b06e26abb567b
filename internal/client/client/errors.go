package client

import "errors"

var (
	// ErrUnavailable: the billing server could not be reached or timed out.
	ErrUnavailable = errors.New("billing server unavailable")
	// ErrUnauthorized: missing or expired access token, or a foreign organization.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument: the server rejected the payload.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict: a unique key (username, invoice number) is already taken.
	ErrConflict = errors.New("conflict")
	// ErrLocalDataNotAvailable: no saved login material for an offline login.
	ErrLocalDataNotAvailable = errors.New("no offline login data for this user")
)
