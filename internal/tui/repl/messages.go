// ============================================================================
// actionvm - Embeddable action interpreter
// ============================================================================
//
// Package:     repl
// Description: Transcript entries and async messages of the REPL
// Author:      msto63
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package repl

import (
	"time"

	"github.com/msto63/actionvm/internal/session"
)

// EntryKind classifies a transcript entry
type EntryKind int

const (
	EntryInput EntryKind = iota
	EntryOutput
	EntryError
	EntryInfo
)

// Entry is one line group of the transcript
type Entry struct {
	Kind      EntryKind
	Text      string
	Timestamp time.Time
}

// batchDoneMsg is sent when a batch finished
type batchDoneMsg struct {
	result *session.Result
}
