// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used across actionvm. The interpreter
//              codes mirror the failure taxonomy of the execution engine; the
//              generic codes cover configuration, decoding and transport.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-18 v0.2.0: Replaced platform codes with interpreter codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"

	// Interpreter
	CodePathNotFound         Code = "PATH_NOT_FOUND"
	CodeUnresolvedIdentifier Code = "UNRESOLVED_IDENTIFIER"
	CodeNotCallable          Code = "NOT_CALLABLE"
	CodeNotConstructible     Code = "NOT_CONSTRUCTIBLE"
	CodeUnknownTag           Code = "UNKNOWN_TAG"
	CodeInvalidIdentifier    Code = "INVALID_IDENTIFIER"
	CodeInvocationFailed     Code = "INVOCATION_FAILED"

	// Configuration and environment
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeMissingConfig Code = "MISSING_CONFIG"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Service and network
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeNetworkError       Code = "NETWORK_ERROR"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput, CodeTimeout,
		CodePathNotFound, CodeUnresolvedIdentifier, CodeNotCallable, CodeNotConstructible,
		CodeUnknownTag, CodeInvalidIdentifier, CodeInvocationFailed,
		CodeConfigError, CodeMissingConfig, CodeInvalidConfig,
		CodeServiceUnavailable, CodeNetworkError:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodePathNotFound, CodeUnresolvedIdentifier, CodeNotCallable, CodeNotConstructible,
		CodeUnknownTag, CodeInvalidIdentifier, CodeInvocationFailed:
		return "interpreter"
	case CodeConfigError, CodeMissingConfig, CodeInvalidConfig:
		return "configuration"
	case CodeServiceUnavailable, CodeNetworkError, CodeTimeout:
		return "service"
	default:
		return "generic"
	}
}
