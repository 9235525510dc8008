// File: health.go
// Title: Host Health Check
// Description: Reports a host as degraded while a batch holds it or when
//              its last batch failed.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial checker

package session

import (
	"context"
	"time"

	"github.com/msto63/actionvm/pkg/core/health"
)

// HealthChecker returns a checker for registration in a health registry
func (h *Host) HealthChecker() health.Checker {
	return health.NewChecker("session", func(ctx context.Context) health.CheckResult {
		start := time.Now()
		if !h.mu.TryLock() {
			return health.CheckResult{
				Status:   health.StatusDegraded,
				Message:  "batch in progress",
				Duration: time.Since(start),
			}
		}
		stats := h.stats
		lastFailed := h.lastFailed
		h.mu.Unlock()

		result := health.CheckResult{
			Status:   health.StatusHealthy,
			Message:  "ready",
			Duration: time.Since(start),
			Details: map[string]interface{}{
				"session_id": stats.SessionID,
				"batches":    stats.Batches,
				"failures":   stats.Failures,
			},
		}
		if lastFailed {
			result.Status = health.StatusDegraded
			result.Message = "last batch failed"
		}
		return result
	})
}
