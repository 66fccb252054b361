// Package ipc exposes the daemon over JSON-RPC Unix sockets and ships the
// matching client used by the CLI.
//
// It owns socket lifecycle management, request/response DTOs, and the
// conversion between line records and their wire representation. The server
// embeds the daemon while the client keeps short dial timeouts so CLI
// commands fail fast when the daemon is offline.
//
// Reuse these types when adding new RPC endpoints to keep the protocol
// stable for existing command implementations.
package ipc
