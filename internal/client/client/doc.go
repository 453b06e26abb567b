// Package client talks to the billsync server and bootstraps local storage.
//
// # Overview
//
// The package provides:
//  1. The Client interface: auth (Register/GetSalt/Login), Ping, and the
//     expense and invoice calls used by the sync engine.
//  2. GRPCClient, the gRPC implementation. It injects the access token via an
//     interceptor, pings through the standard health service and maps gRPC
//     status codes to sentinel errors.
//  3. InitDatabase and RunMigrations, which open the local SQLite database
//     and apply the embedded goose migrations.
//
// # Error Handling
//
// Errors returned by GRPCClient wrap one of ErrUnavailable, ErrUnauthorized,
// ErrInvalidArgument or ErrConflict together with a faults.RemoteError that
// carries the equivalent HTTP status, so faults.FromError can classify them.
//
// All operations accept context.Context and honor cancellation.
package client
