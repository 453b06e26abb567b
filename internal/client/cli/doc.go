// Package cli provides the interactive billsync command-line client.
//
// It wires configuration, local storage, the API client and the services,
// and runs a REPL that keeps working while the server is unreachable:
// expenses created offline are queued and replayed once connectivity
// returns.
//
// Key features:
//   - Register / Login / Logout (online with offline fallback)
//   - Add and list expenses, pending ones marked
//   - Inspect and discard queued writes, sync on demand
//   - Create invoices with an allocated number
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
