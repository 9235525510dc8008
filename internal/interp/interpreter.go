// File: interpreter.go
// Title: Action Interpreter
// Description: Dispatches ASSIGN, CALL and PRINT actions against a data
//              store. Actions in a batch run strictly in order; the first
//              failure stops the batch and earlier effects stay in place.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial dispatcher

package interp

import (
	"context"
	"fmt"
	"io"
	"os"

	mdwerror "github.com/msto63/actionvm/foundation/core/error"
	mdwlog "github.com/msto63/actionvm/foundation/core/log"
	"github.com/msto63/actionvm/internal/action"
	"github.com/msto63/actionvm/internal/store"
)

// Options configures an Interpreter
type Options struct {
	// Logger receives per-action debug output and warnings about swallowed
	// failures. Defaults to a no-op logger.
	Logger *mdwlog.Logger

	// Output receives PRINT lines. Defaults to os.Stdout.
	Output io.Writer

	// StrictIdentifiers turns unresolved identifiers in content into
	// errors. When false, an ASSIGN of an unresolved identifier binds
	// nothing and unresolved parameters are passed as null.
	StrictIdentifiers bool

	// Audit logs an audit entry for every completed batch
	Audit bool
}

// Interpreter executes actions. It is not safe for concurrent use; callers
// driving one interpreter from several goroutines must serialize RunAll.
type Interpreter struct {
	store  *store.DataStore
	out    io.Writer
	logger *mdwlog.Logger
	strict bool
	audit  bool
}

// New creates an interpreter operating on ds. A nil ds gets a fresh store.
func New(ds *store.DataStore, opts Options) *Interpreter {
	if ds == nil {
		ds = store.New()
	}
	if opts.Logger == nil {
		opts.Logger = mdwlog.NewNop()
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return &Interpreter{
		store:  ds,
		out:    opts.Output,
		logger: opts.Logger.WithField("component", "interp"),
		strict: opts.StrictIdentifiers,
		audit:  opts.Audit,
	}
}

// Store returns the data store the interpreter operates on
func (in *Interpreter) Store() *store.DataStore {
	return in.store
}

// WithOutput returns an interpreter sharing the same store that prints to w
func (in *Interpreter) WithOutput(w io.Writer) *Interpreter {
	clone := *in
	clone.out = w
	return &clone
}

// WithLogger returns an interpreter sharing the same store that logs to l
func (in *Interpreter) WithLogger(l *mdwlog.Logger) *Interpreter {
	clone := *in
	clone.logger = l.WithField("component", "interp")
	return &clone
}

// Run executes a single action. Callables reach the interpreter output
// through store.OutputFrom.
func (in *Interpreter) Run(ctx context.Context, a action.Action) error {
	ctx = store.WithOutput(ctx, in.out)
	switch t := a.(type) {
	case *action.Assign:
		return in.runAssign(ctx, t)
	case *action.Call:
		return in.runCall(ctx, t)
	case *action.Print:
		return in.runPrint(t)
	case nil:
		return mdwerror.New("nil action").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("interp.Run")
	default:
		return mdwerror.Newf("unsupported action %T", a).
			WithCode(mdwerror.CodeUnknownTag).
			WithOperation("interp.Run")
	}
}

// RunAll executes actions in order. Each action, including its output,
// completes before the next starts. The first error stops the batch.
func (in *Interpreter) RunAll(ctx context.Context, actions []action.Action) error {
	timer := in.logger.StartTimer("batch").WithField("actions", len(actions))

	for i, a := range actions {
		if err := ctx.Err(); err != nil {
			timer.StopWithError(err)
			return mdwerror.Wrap(err, "batch cancelled").
				WithCode(mdwerror.CodeTimeout).
				WithDetail("index", i)
		}
		if err := in.Run(ctx, a); err != nil {
			timer.StopWithError(err)
			return mdwerror.Wrap(err, fmt.Sprintf("action %d (%s) failed", i, tagOf(a))).
				WithOperation("interp.RunAll").
				WithDetail("index", i)
		}
	}

	timer.Stop()
	if in.audit {
		in.logger.Audit("batch completed", mdwlog.Fields{"actions": len(actions)})
	}
	return nil
}

func (in *Interpreter) runAssign(ctx context.Context, a *action.Assign) error {
	v, err := in.Evaluate(ctx, a.Content)
	if err != nil {
		if !in.strict && mdwerror.HasCode(err, mdwerror.CodeUnresolvedIdentifier) {
			in.logger.WarnWithErr("assignment skipped", err, mdwlog.Fields{"identifier": a.Identifier.String()})
			return nil
		}
		return err
	}
	if store.IsVoid(v) {
		in.logger.Debug("assignment of void skipped", mdwlog.Fields{"identifier": a.Identifier.String()})
		return nil
	}

	created, err := in.store.Assign(a.Identifier, v)
	if err != nil {
		return err
	}
	in.logger.Debug("action executed", mdwlog.Fields{
		"action":     action.TagAssign,
		"identifier": a.Identifier.String(),
		"created":    created,
	})
	return nil
}

func (in *Interpreter) runCall(ctx context.Context, c *action.Call) error {
	_, err := in.Invoke(ctx, c.Identifier, c.Parameters)
	if mdwerror.HasCode(err, mdwerror.CodeNotCallable) {
		in.logger.DebugWithErr("call skipped", err, mdwlog.Fields{"identifier": c.Identifier.String()})
		return nil
	}
	if err != nil {
		return err
	}
	in.logger.Debug("action executed", mdwlog.Fields{
		"action":     action.TagCall,
		"identifier": c.Identifier.String(),
	})
	return nil
}

func tagOf(a action.Action) string {
	if a == nil {
		return "nil"
	}
	return a.Tag()
}
