// Package config loads runtime configuration for the billsync CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config (YAML, JSON, TOML).
//  3. Environment variables prefixed with BILLSYNC_, nested keys joined by
//     "_" (e.g. BILLSYNC_INVOICE_PREFIX).
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   address:port of the backend gRPC endpoint
//	-i int      online status check interval (seconds)
//	-d string   local database file
//
// # File example
//
//	server_endpoint_addr: 127.0.0.1:50051
//	online_check_interval: 3s
//	invoice:
//	  prefix: INV
//	log:
//	  level: debug
package config
