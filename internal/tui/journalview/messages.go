// ============================================================================
// actionvm - Embeddable action interpreter
// ============================================================================
//
// Package:     journalview
// Description: Message types for async operations in the journal viewer
// Author:      msto63
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package journalview

import (
	"time"

	"github.com/msto63/actionvm/internal/history"
)

// entriesLoadedMsg is sent when batches are read from the journal
type entriesLoadedMsg struct {
	entries []*history.Entry
	err     error
}

// statsLoadedMsg is sent when journal counters are read
type statsLoadedMsg struct {
	stats map[string]interface{}
	err   error
}

// tickMsg is used for periodic reloads
type tickMsg time.Time
