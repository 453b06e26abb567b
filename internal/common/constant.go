// Package common contains shared constants and sentinel errors used across
// billsync components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// TempIDPrefix marks a record id as client-issued and not yet confirmed
// by the server.
const TempIDPrefix = "tmp-"
