// File: host_test.go
// Title: Interpreter Host Tests
// Description: Tests for output capture, failure accounting and batch
//              serialization across goroutines.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial tests

package session

import (
	"context"
	"fmt"
	"sync"
	"testing"

	mdwerror "github.com/msto63/actionvm/foundation/core/error"
	"github.com/msto63/actionvm/internal/action"
	"github.com/msto63/actionvm/internal/history"
	"github.com/msto63/actionvm/internal/interp"
	"github.com/msto63/actionvm/internal/store"
	"github.com/msto63/actionvm/pkg/core/health"
)

func newTestHost() *Host {
	return NewHost(interp.New(store.New(), interp.Options{}), nil)
}

func TestExecuteCapturesOutput(t *testing.T) {
	h := newTestHost()

	result := h.ExecuteScript(context.Background(), []byte(`[
		{"action":"ASSIGN","identifier":["a"],"content":1},
		{"action":"PRINT","identifier":["a"]},
		{"action":"PRINT","identifier":["b"]}
	]`), action.FormatJSON)

	if !result.OK() {
		t.Fatalf("Execute() error = %v", result.Err)
	}
	want := []string{"1", "Variable 'b' not found."}
	if len(result.Output) != len(want) {
		t.Fatalf("Output = %q, want %q", result.Output, want)
	}
	for i := range want {
		if result.Output[i] != want[i] {
			t.Errorf("Output[%d] = %q, want %q", i, result.Output[i], want[i])
		}
	}
	if result.Executed != 3 {
		t.Errorf("Executed = %d, want 3", result.Executed)
	}
	if result.BatchID == "" {
		t.Error("BatchID is empty")
	}
}

func TestExecuteFailureKeepsPartialOutput(t *testing.T) {
	h := newTestHost()

	result := h.ExecuteScript(context.Background(), []byte(`[
		{"action":"ASSIGN","identifier":["a"],"content":1},
		{"action":"PRINT","identifier":["a"]},
		{"action":"ASSIGN","identifier":["no","where"],"content":2},
		{"action":"PRINT","identifier":["a"]}
	]`), action.FormatJSON)

	if !mdwerror.HasCode(result.Err, mdwerror.CodePathNotFound) {
		t.Fatalf("Err = %v, want PATH_NOT_FOUND", result.Err)
	}
	if result.Executed != 2 {
		t.Errorf("Executed = %d, want 2", result.Executed)
	}
	if len(result.Output) != 1 || result.Output[0] != "1" {
		t.Errorf("Output = %q, want [1]", result.Output)
	}

	stats := h.Stats()
	if stats.Batches != 1 || stats.Failures != 1 || stats.Actions != 2 {
		t.Errorf("Stats = %+v", stats)
	}
}

func TestExecuteScriptDecodeError(t *testing.T) {
	h := newTestHost()

	result := h.ExecuteScript(context.Background(), []byte(`{"action":"JUMP","identifier":["a"]}`), action.FormatJSON)
	if !mdwerror.HasCode(result.Err, mdwerror.CodeUnknownTag) {
		t.Errorf("Err = %v, want UNKNOWN_TAG", result.Err)
	}
	if h.Stats().Batches != 0 {
		t.Error("undecodable script counted as a batch")
	}
}

func TestParseCachesScripts(t *testing.T) {
	h := newTestHost()
	script := []byte(`[{"action":"PRINT","identifier":["a"]}]`)

	first, err := h.Parse(script, action.FormatJSON)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	second, _ := h.Parse(script, action.FormatJSON)
	if first[0] != second[0] {
		t.Error("second Parse() decoded the script again")
	}

	yaml, err := h.Parse([]byte("- action: PRINT\n  identifier: [a]\n"), action.FormatYAML)
	if err != nil || yaml[0] == first[0] {
		t.Errorf("YAML Parse() = %v, %v", yaml, err)
	}
	if hits, _, _ := h.scripts.Stats(); hits != 1 {
		t.Errorf("cache hits = %d, want 1", hits)
	}
}

func TestConcurrentBatchesAreSerialized(t *testing.T) {
	h := newTestHost()
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	results := make([]*Result, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("v%d", i)
			results[i] = h.Execute(ctx, []action.Action{
				&action.Assign{Identifier: action.Identifier{name}, Content: action.Lit(i)},
				&action.Print{Identifier: action.Identifier{name}},
			})
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if !r.OK() {
			t.Fatalf("batch %d error = %v", i, r.Err)
		}
		// each batch sees only its own output
		if len(r.Output) != 1 || r.Output[0] != fmt.Sprint(i) {
			t.Errorf("batch %d output = %q", i, r.Output)
		}
	}
	if got := h.Stats().Actions; got != 2*workers {
		t.Errorf("Actions = %d, want %d", got, 2*workers)
	}
}

func TestRender(t *testing.T) {
	h := newTestHost()
	h.Execute(context.Background(), []action.Action{
		&action.Assign{Identifier: action.Identifier{"a"}, Content: action.Lit("x")},
	})

	if text, found, err := h.Render([]string{"a"}); err != nil || !found || text != `"x"` {
		t.Errorf("Render(a) = %q, %v, %v", text, found, err)
	}
	if text, _, _ := h.Render(nil); text != `{"a":"x"}` {
		t.Errorf("Render(root) = %q", text)
	}
	if _, found, _ := h.Render([]string{"missing"}); found {
		t.Error("Render(missing) reported found")
	}
}

func TestHealthChecker(t *testing.T) {
	h := newTestHost()
	checker := h.HealthChecker()
	ctx := context.Background()

	if result := checker.Check(ctx); result.Status != health.StatusHealthy {
		t.Errorf("fresh host Status = %v", result.Status)
	}

	h.Execute(ctx, []action.Action{
		&action.Assign{Identifier: action.Identifier{"no", "where"}, Content: action.Lit(1)},
	})
	if result := checker.Check(ctx); result.Status != health.StatusDegraded {
		t.Errorf("after failure Status = %v, want degraded", result.Status)
	}

	h.mu.Lock()
	result := checker.Check(ctx)
	h.mu.Unlock()
	if result.Status != health.StatusDegraded || result.Message != "batch in progress" {
		t.Errorf("busy host result = %+v", result)
	}
}

func TestLineWriter(t *testing.T) {
	var lines []string
	w := NewLineWriter(func(line string) error {
		lines = append(lines, line)
		return nil
	})

	fmt.Fprint(w, "one\ntw")
	fmt.Fprint(w, "o\nthree")
	if len(lines) != 2 || lines[0] != "one" || lines[1] != "two" {
		t.Fatalf("lines = %q", lines)
	}
	if err := w.Flush(); err != nil || len(lines) != 3 || lines[2] != "three" {
		t.Errorf("after Flush lines = %q, err = %v", lines, err)
	}
}

func TestJournal(t *testing.T) {
	journal, err := history.Open(history.Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("history.Open() error = %v", err)
	}
	defer journal.Close()

	h := newTestHost()
	h.SetJournal(journal)
	ctx := context.Background()

	ok := h.ExecuteScript(ctx, []byte(`[{"action":"ASSIGN","identifier":["a"],"content":1},{"action":"PRINT","identifier":["a"]}]`), action.FormatJSON)
	failed := h.ExecuteScript(ctx, []byte(`[{"action":"ASSIGN","identifier":["x","y"],"content":1}]`), action.FormatJSON)

	entry, err := journal.Get(ctx, ok.BatchID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if entry.SessionID != h.ID() || entry.Total != 2 || len(entry.Output) != 1 || entry.Output[0] != "1" {
		t.Errorf("journaled entry = %+v", entry)
	}

	entry, _ = journal.Get(ctx, failed.BatchID)
	if entry == nil || entry.ErrorCode != string(mdwerror.CodePathNotFound) || entry.Executed != 0 {
		t.Errorf("journaled failure = %+v", entry)
	}
}
