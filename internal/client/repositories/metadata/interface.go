// Package metadata stores small named blobs in the local database: the
// offline login material, the saved session and the outbox document.
package metadata

import (
	"context"
)

// Well-known keys.
const (
	KeyUsername       = "username"
	KeySalt           = "salt"
	KeyVerifier       = "verifier"
	KeyOrganizationID = "organization_id"
	KeyAccessToken    = "access_token"
)

// Repository is a byte-oriented key/value store. Get returns (nil, nil) for
// a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMany writes all pairs or none of them.
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	// Clear removes every key except the ones listed in keep.
	Clear(ctx context.Context, keep ...string) error
}
