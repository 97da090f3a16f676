// Package cli implements the gophvault command-line client.
//
// Every command is a cobra subcommand run against one App, which owns the
// configuration, the local state database and a lazily dialed API client.
// File bodies are sealed and opened locally with cryptox, so the server only
// ever sees ciphertext and the non-secret nonce, salt and tag.
//
// Typical session:
//
//	gophvault login <token>
//	gophvault init --email me@example.com
//	gophvault passwd
//	gophvault upload report.pdf
//	gophvault ls
//	gophvault download <file-id> ./report.pdf
package cli
