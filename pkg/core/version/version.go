// ============================================================================
// actionvm - Embeddable action interpreter
// ============================================================================
//
// Package:     version
// Description: Central version management for the binary and its surfaces
// Author:      msto63
// Created:     2025-12-06
// Modified:    2026-10-18
// License:     MIT
// ============================================================================

package version

// Version constants for actionvm components
const (
	// Platform version
	Platform = "0.1.0"

	// Component versions
	Interpreter = "0.1.0"
	RPC         = "0.1.0"
	WebSocket   = "0.1.0"
	REPL        = "0.1.0"
)

// Set by the linker at build time
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// ServiceVersion returns the version for a given component name
func ServiceVersion(name string) string {
	switch name {
	case "interp", "interpreter":
		return Interpreter
	case "rpc", "grpc":
		return RPC
	case "ws", "websocket":
		return WebSocket
	case "repl":
		return REPL
	default:
		return Platform
	}
}
