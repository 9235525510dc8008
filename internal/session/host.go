// File: host.go
// Title: Interpreter Host
// Description: Serializes batches from concurrent callers into a single
//              interpreter. Each batch holds the host exclusively from its
//              first action to its last, and its PRINT output goes to the
//              caller's writer only.
// Author: msto63
// Version: v0.1.2
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial host with output capture and stats
// - 2026-10-18 v0.1.1: Optional batch journal
// - 2026-10-18 v0.1.2: Decoded script cache

package session

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	mdwerror "github.com/msto63/actionvm/foundation/core/error"
	mdwlog "github.com/msto63/actionvm/foundation/core/log"
	"github.com/msto63/actionvm/internal/action"
	"github.com/msto63/actionvm/internal/history"
	"github.com/msto63/actionvm/internal/interp"
	"github.com/msto63/actionvm/internal/store"
	"github.com/msto63/actionvm/pkg/core/cache"
)

// Result describes one executed batch
type Result struct {
	BatchID  string
	Output   []string
	Executed int
	Duration time.Duration
	Err      error
}

// OK reports whether every action of the batch ran
func (r *Result) OK() bool {
	return r.Err == nil
}

// Stats are cumulative counters for a host
type Stats struct {
	SessionID string    `json:"session_id"`
	Started   time.Time `json:"started"`
	Batches   int64     `json:"batches"`
	Actions   int64     `json:"actions"`
	Failures  int64     `json:"failures"`
	LastBatch time.Time `json:"last_batch,omitempty"`
}

// Host owns an interpreter and hands it to one batch at a time
type Host struct {
	mu     sync.Mutex
	interp *interp.Interpreter
	logger *mdwlog.Logger
	stats  Stats

	journal    history.Journal
	lastFailed bool

	scripts *cache.Cache[[]action.Action]
}

// NewHost wraps in. A nil logger disables host logging.
func NewHost(in *interp.Interpreter, logger *mdwlog.Logger) *Host {
	if logger == nil {
		logger = mdwlog.NewNop()
	}
	id := uuid.New().String()
	return &Host{
		interp: in,
		logger: logger.WithSessionID(id).WithField("component", "session"),
		scripts: cache.New[[]action.Action](cache.Config{
			MaxItems: 128,
			TTL:      10 * time.Minute,
		}),
		stats: Stats{
			SessionID: id,
			Started:   time.Now(),
		},
	}
}

// SetJournal records every later batch in j
func (h *Host) SetJournal(j history.Journal) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.journal = j
}

// ID returns the session ID of the host
func (h *Host) ID() string {
	return h.stats.SessionID
}

// Execute runs actions and captures their output line by line
func (h *Host) Execute(ctx context.Context, actions []action.Action) *Result {
	var buf bytes.Buffer
	result := h.ExecuteTo(ctx, actions, &buf)
	result.Output = splitLines(buf.String())
	return result
}

// Parse decodes a JSON or YAML document. Decoded scripts are cached by
// content, and actions are never mutated by execution, so a cached list can
// be run again.
func (h *Host) Parse(data []byte, format action.Format) ([]action.Action, error) {
	sum := sha256.Sum256(data)
	key := string(format) + ":" + hex.EncodeToString(sum[:])
	return h.scripts.GetOrSet(key, func() ([]action.Action, error) {
		return action.Parse(data, format)
	})
}

// ExecuteScript decodes a JSON or YAML document and runs it
func (h *Host) ExecuteScript(ctx context.Context, data []byte, format action.Format) *Result {
	actions, err := h.Parse(data, format)
	if err != nil {
		return &Result{BatchID: uuid.New().String(), Err: err}
	}
	return h.Execute(ctx, actions)
}

// ExecuteTo runs actions with PRINT output written to w as it happens
func (h *Host) ExecuteTo(ctx context.Context, actions []action.Action, w io.Writer) *Result {
	return h.ExecuteBatch(ctx, uuid.New().String(), actions, w)
}

// ExecuteBatch is ExecuteTo with a caller-chosen batch ID
func (h *Host) ExecuteBatch(ctx context.Context, batchID string, actions []action.Action, w io.Writer) *Result {
	logger := h.logger.WithRequestID(batchID)

	h.mu.Lock()
	defer h.mu.Unlock()

	var captured *bytes.Buffer
	if h.journal != nil {
		captured = &bytes.Buffer{}
		w = io.MultiWriter(w, captured)
	}

	start := time.Now()
	err := h.interp.WithOutput(w).WithLogger(logger).RunAll(ctx, actions)
	result := &Result{
		BatchID:  batchID,
		Executed: executedCount(err, len(actions)),
		Duration: time.Since(start),
		Err:      err,
	}

	h.stats.Batches++
	h.stats.Actions += int64(result.Executed)
	h.stats.LastBatch = start
	h.lastFailed = err != nil
	if err != nil {
		h.stats.Failures++
		logger.LogError(err)
	}
	if captured != nil {
		h.record(ctx, logger, actions, splitLines(captured.String()), result)
	}
	return result
}

func (h *Host) record(ctx context.Context, logger *mdwlog.Logger, actions []action.Action, output []string, r *Result) {
	script, err := action.Marshal(actions)
	if err != nil {
		logger.WarnWithErr("batch not journaled", err)
		return
	}
	entry := &history.Entry{
		BatchID:   r.BatchID,
		SessionID: h.stats.SessionID,
		Actions:   string(script),
		Output:    output,
		Total:     len(actions),
		Executed:  r.Executed,
		Duration:  r.Duration,
	}
	if r.Err != nil {
		entry.ErrorCode = string(mdwerror.GetCode(r.Err))
		entry.ErrorMessage = r.Err.Error()
	}
	// the batch context may already be cancelled
	if err := h.journal.Record(context.WithoutCancel(ctx), entry); err != nil {
		logger.WarnWithErr("batch not journaled", err)
	}
}

// Lookup resolves a path while holding the host
func (h *Host) Lookup(path []string) (store.Value, bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interp.Store().Lookup(path)
}

// Render returns the canonical text of the value at path. An empty path
// renders the whole store.
func (h *Host) Render(path []string) (string, bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(path) == 0 {
		return store.Render(h.interp.Store().Root()), true, nil
	}
	v, found, err := h.interp.Store().Lookup(path)
	if err != nil || !found {
		return "", found, err
	}
	return store.Render(v), true, nil
}

// Stats returns a copy of the host counters
func (h *Host) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats
}

// executedCount derives how many actions completed from the index of the
// failing action
func executedCount(err error, total int) int {
	if err == nil {
		return total
	}
	if e, ok := mdwerror.As(err); ok {
		if idx, ok := e.Detail("index"); ok {
			if i, ok := idx.(int); ok {
				return i
			}
		}
	}
	return 0
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}
