// Package config loads runtime configuration for the GophVault CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the backend gRPC endpoint
//	-t string   access token sent with every call
//	-s string   path of the local state database
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "access_token": "eyJ...",
//	  "state_file": ".gophvault/state.db",
//	  "request_timeout": "30s"
//	}
//
// request_timeout uses timex.Duration, so it can be a string like "30s" or
// integer nanoseconds.
package config
