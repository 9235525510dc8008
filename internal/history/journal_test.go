// File: journal_test.go
// Title: Batch Journal Tests
// Description: Tests for recording, listing and counting batches.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial tests

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	mdwerror "github.com/msto63/actionvm/foundation/core/error"
)

func newTestJournal(t *testing.T) *SQLiteJournal {
	t.Helper()
	j, err := Open(Config{Path: filepath.Join(t.TempDir(), "nested", "history.db")})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndGet(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	entry := &Entry{
		BatchID:   "b1",
		SessionID: "s1",
		Actions:   `[{"action":"PRINT","identifier":["a"]}]`,
		Output:    []string{"Variable 'a' not found."},
		Total:     1,
		Executed:  1,
		Duration:  3 * time.Millisecond,
	}
	if err := j.Record(ctx, entry); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	got, err := j.Get(ctx, "b1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.SessionID != "s1" || got.Actions != entry.Actions || got.Duration != entry.Duration {
		t.Errorf("Get() = %+v", got)
	}
	if len(got.Output) != 1 || got.Output[0] != "Variable 'a' not found." {
		t.Errorf("Output = %q", got.Output)
	}
	if got.Failed() {
		t.Error("successful batch reported as failed")
	}

	if _, err := j.Get(ctx, "missing"); !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
		t.Errorf("Get(missing) error = %v, want NOT_FOUND", err)
	}
	if err := j.Record(ctx, &Entry{}); !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("Record(no id) error = %v, want INVALID_INPUT", err)
	}
	if err := j.Record(ctx, entry); err == nil {
		t.Error("recording the same batch twice should fail")
	}
}

func TestRecentAndStatistics(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	entries := []*Entry{
		{BatchID: "b1", SessionID: "s1", Actions: "[]", Total: 2, Executed: 2, CreatedAt: base},
		{BatchID: "b2", SessionID: "s1", Actions: "[]", Total: 3, Executed: 1, ErrorCode: "PATH_NOT_FOUND", CreatedAt: base.Add(time.Minute)},
		{BatchID: "b3", SessionID: "s2", Actions: "[]", Total: 1, Executed: 1, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		if err := j.Record(ctx, e); err != nil {
			t.Fatalf("Record(%s) error = %v", e.BatchID, err)
		}
	}

	all, err := j.Recent(ctx, "", 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(all) != 3 || all[0].BatchID != "b3" || all[2].BatchID != "b1" {
		t.Errorf("Recent(all) order = %v", batchIDs(all))
	}

	s1, _ := j.Recent(ctx, "s1", 1)
	if len(s1) != 1 || s1[0].BatchID != "b2" || !s1[0].Failed() {
		t.Errorf("Recent(s1, 1) = %v", batchIDs(s1))
	}

	stats, err := j.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics() error = %v", err)
	}
	if stats["batches"] != int64(3) || stats["sessions"] != int64(2) || stats["failures"] != int64(1) || stats["actions"] != int64(4) {
		t.Errorf("Statistics() = %v", stats)
	}
}

func batchIDs(entries []*Entry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.BatchID
	}
	return ids
}
