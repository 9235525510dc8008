// Package error provides structured error handling for actionvm.
//
// Package: error
// Title: actionvm Error Handling Framework
// Description: Structured errors carrying a code, a severity, a failing
//              operation and free-form details. Interpreter failures such as
//              unresolvable paths or non-callable targets are reported as
//              *Error values so callers can branch on the code instead of
//              parsing messages.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-18 v0.2.0: Interpreter error taxonomy, errors.As based helpers
//
// Usage:
//   import mdwerror "github.com/msto63/actionvm/foundation/core/error"
//
//   err := mdwerror.New("path segment not found").
//     WithCode(mdwerror.CodePathNotFound).
//     WithOperation("store.Lookup").
//     WithDetail("segment", "b")
//
//   if mdwerror.HasCode(err, mdwerror.CodePathNotFound) {
//     // ...
//   }
package error
