// File: watch_test.go
// Title: Script File Watcher Tests
// Description: Tests that writes are reported once per settled change.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial tests

package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRunReportsChanges(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "script.json")
	other := filepath.Join(dir, "other.json")
	if err := os.WriteFile(script, []byte("[]"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan string, 10)
	done := make(chan error, 1)
	w := New(script).WithDebounce(50 * time.Millisecond)
	go func() {
		done <- w.Run(ctx, func(path string) { changes <- path })
	}()

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)

	os.WriteFile(other, []byte("[]"), 0644)
	os.WriteFile(script, []byte(`[{"action":"PRINT","identifier":["a"]}]`), 0644)
	os.WriteFile(script, []byte(`[{"action":"PRINT","identifier":["b"]}]`), 0644)

	select {
	case path := <-changes:
		if path != filepath.Clean(script) {
			t.Errorf("changed path = %q, want %q", path, script)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case path := <-changes:
		t.Errorf("burst reported twice (second: %s)", path)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() error = %v", err)
	}
}

func TestRunMissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing", "script.json"))
	if err := w.Run(context.Background(), func(string) {}); err == nil {
		t.Error("Run() on a missing directory should fail")
	}
}
