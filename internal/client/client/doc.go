// Package client talks to the GophVault backend.
//
// Client is the transport-agnostic contract the CLI depends on; GRPCClient
// implements it over gRPC with the JSON codec, attaches the access token to
// every call and maps status codes to the sentinel errors in errors.go so
// callers can use errors.Is.
package client
