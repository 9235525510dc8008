// ============================================================================
// actionvm - Embeddable action interpreter
// ============================================================================
//
// Package:     journalview
// Description: Tests for loading, filtering and rendering journal batches
// Author:      msto63
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package journalview

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/msto63/actionvm/internal/history"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	journal, err := history.Open(history.Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("history.Open() error = %v", err)
	}
	t.Cleanup(func() { journal.Close() })

	ctx := context.Background()
	base := time.Now().Add(-time.Minute)
	entries := []*history.Entry{
		{BatchID: "batch-ok-1", SessionID: "s1", Actions: "[]", Output: []string{"1", "2"}, Total: 2, Executed: 2, CreatedAt: base},
		{BatchID: "batch-bad", SessionID: "s1", Actions: "[]", Total: 1, ErrorCode: "PATH_NOT_FOUND", ErrorMessage: "no parent", CreatedAt: base.Add(time.Second)},
		{BatchID: "batch-ok-2", SessionID: "s1", Actions: "[]", Output: []string{"done"}, Total: 1, Executed: 1, CreatedAt: base.Add(2 * time.Second)},
	}
	for _, e := range entries {
		if err := journal.Record(ctx, e); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	cfg := DefaultConfig(journal)
	cfg.Version = "test"
	m := New(cfg)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m = next.(Model)
	next, _ = m.Update(m.loadEntries())
	m = next.(Model)
	next, _ = m.Update(m.loadStats())
	return next.(Model)
}

func press(m Model, key string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return next.(Model)
}

func TestLoadsOldestFirst(t *testing.T) {
	m := newTestModel(t)

	if len(m.all) != 3 {
		t.Fatalf("loaded %d batches, want 3", len(m.all))
	}
	if m.all[0].BatchID != "batch-ok-1" || m.all[2].BatchID != "batch-ok-2" {
		t.Errorf("order = %s, %s, %s", m.all[0].BatchID, m.all[1].BatchID, m.all[2].BatchID)
	}
	if m.loading {
		t.Error("still loading after entries arrived")
	}
	if m.stats["failures"] != int64(1) {
		t.Errorf("stats = %v", m.stats)
	}
}

func TestFilters(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want int
	}{
		{"all", nil, 3},
		{"hide ok", []string{"1"}, 1},
		{"hide failed", []string{"2"}, 2},
		{"hide both", []string{"1", "2"}, 0},
		{"reset", []string{"1", "2", "0"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			for _, k := range tt.keys {
				m = press(m, k)
			}
			if len(m.filtered) != tt.want {
				t.Errorf("filtered = %d, want %d", len(m.filtered), tt.want)
			}
		})
	}
}

func TestPauseSkipsReload(t *testing.T) {
	m := press(newTestModel(t), "p")
	if !m.paused {
		t.Fatal("p did not pause")
	}
	next, cmd := m.Update(tickMsg(time.Now()))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("tick was not rescheduled")
	}
	if m.loading {
		t.Error("paused viewer started loading")
	}
}

func TestView(t *testing.T) {
	m := newTestModel(t)
	view := m.View()

	for _, want := range []string{Logo, "[3/3 batches]", "PATH_NOT_FOUND: no parent", "1 (+1 lines)", "batch-ok"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestRenderRow(t *testing.T) {
	row := renderRow(&history.Entry{BatchID: "0123456789", Output: []string{"x"}, Total: 1, Executed: 1, CreatedAt: time.Now()})
	if !strings.Contains(row, "01234567") || strings.Contains(row, "0123456789") {
		t.Errorf("renderRow() = %q", row)
	}
	if !strings.Contains(row, "[ OK ]") {
		t.Errorf("renderRow() = %q, want OK badge", row)
	}
}
