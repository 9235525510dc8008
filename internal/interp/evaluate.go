// File: evaluate.go
// Title: Content Evaluation, Invocation and Instantiation
// Description: Evaluates content descriptions into values. Parameter lists
//              are evaluated left to right, each one completely before the
//              next, so side effects of nested calls are ordered.
// Author: msto63
// Version: v0.1.2
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial evaluator, invoker and instantiator
// - 2026-10-18 v0.1.1: Call content of a non-callable yields Void
// - 2026-10-18 v0.1.2: Literals are cloned per evaluation

package interp

import (
	"context"

	mdwerror "github.com/msto63/actionvm/foundation/core/error"
	mdwlog "github.com/msto63/actionvm/foundation/core/log"
	"github.com/msto63/actionvm/internal/action"
	"github.com/msto63/actionvm/internal/store"
)

// Evaluate turns c into a value. An identifier reference that does not
// resolve fails with UNRESOLVED_IDENTIFIER. A call of something that is not
// callable yields Void.
func (in *Interpreter) Evaluate(ctx context.Context, c action.Content) (store.Value, error) {
	switch t := c.(type) {
	case *action.Literal:
		return store.Clone(t.Value), nil
	case *action.Ref:
		return in.resolve(t.Identifier)
	case *action.CallContent:
		v, err := in.Invoke(ctx, t.Identifier, t.Parameters)
		if mdwerror.HasCode(err, mdwerror.CodeNotCallable) {
			in.logger.WarnWithErr("call yields nothing", err, mdwlog.Fields{"identifier": t.Identifier.String()})
			return store.Void, nil
		}
		return v, err
	case *action.New:
		ctor, found, err := in.store.Lookup(t.ObjectClass)
		if err != nil {
			return nil, err
		}
		args, err := in.evaluateParameters(ctx, t.Parameters)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, mdwerror.Newf("class %s is not bound", t.ObjectClass).
				WithCode(mdwerror.CodeNotConstructible).
				WithOperation("interp.Evaluate").
				WithDetail("class", t.ObjectClass.String())
		}
		return in.Instantiate(ctx, ctor, args)
	case nil:
		return nil, mdwerror.New("nil content").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("interp.Evaluate")
	default:
		return nil, mdwerror.Newf("unsupported content %T", c).
			WithCode(mdwerror.CodeUnknownTag).
			WithOperation("interp.Evaluate")
	}
}

// Invoke evaluates params, resolves the member named by the last segment
// of path on the owner addressed by the rest, and calls it. A member that
// is absent or not callable yields Void and a NOT_CALLABLE error; the
// store is left untouched.
func (in *Interpreter) Invoke(ctx context.Context, path action.Identifier, params []action.Content) (store.Value, error) {
	if len(path) == 0 {
		return store.Void, mdwerror.New("call target must have at least one segment").
			WithCode(mdwerror.CodeInvalidIdentifier).
			WithOperation("interp.Invoke")
	}

	args, err := in.evaluateParameters(ctx, params)
	if err != nil {
		return store.Void, err
	}

	owner, err := in.store.Owner(path.Parent())
	if err != nil {
		return store.Void, err
	}

	var member store.Value
	if container, ok := owner.(store.Container); ok {
		member, _ = container.Get(path.Leaf())
	}
	fn, ok := member.(store.Callable)
	if !ok {
		return store.Void, mdwerror.Newf("%s is not callable", path).
			WithCode(mdwerror.CodeNotCallable).
			WithOperation("interp.Invoke").
			WithDetail("identifier", path.String()).
			WithDetail("type", store.TypeName(member))
	}

	result, err := fn.Call(ctx, args)
	if err != nil {
		return store.Void, mdwerror.Wrap(err, "call "+path.String()).
			WithCode(mdwerror.CodeInvocationFailed).
			WithOperation("interp.Invoke")
	}
	return store.Normalize(result), nil
}

// Instantiate builds a new instance from ctor with already evaluated args
func (in *Interpreter) Instantiate(ctx context.Context, ctor store.Value, args []store.Value) (store.Value, error) {
	c, ok := ctor.(store.Constructor)
	if !ok {
		return nil, mdwerror.Newf("%s is not a constructor", store.TypeName(ctor)).
			WithCode(mdwerror.CodeNotConstructible).
			WithOperation("interp.Instantiate").
			WithDetail("type", store.TypeName(ctor))
	}

	instance, err := c.Construct(ctx, args)
	if err != nil {
		return nil, mdwerror.Wrap(err, "construct "+store.TypeName(ctor)).
			WithCode(mdwerror.CodeInvocationFailed).
			WithOperation("interp.Instantiate")
	}
	return store.Normalize(instance), nil
}

func (in *Interpreter) evaluateParameters(ctx context.Context, params []action.Content) ([]store.Value, error) {
	args := make([]store.Value, 0, len(params))
	for i, p := range params {
		v, err := in.Evaluate(ctx, p)
		if err != nil {
			if in.strict || !mdwerror.HasCode(err, mdwerror.CodeUnresolvedIdentifier) {
				return nil, err
			}
			in.logger.WarnWithErr("unresolved parameter passed as null", err, mdwlog.Fields{"parameter": i})
			v = nil
		}
		if store.IsVoid(v) {
			v = nil
		}
		args = append(args, v)
	}
	return args, nil
}

func (in *Interpreter) resolve(id action.Identifier) (store.Value, error) {
	v, found, err := in.store.Lookup(id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, mdwerror.Newf("identifier %s is not bound", id).
			WithCode(mdwerror.CodeUnresolvedIdentifier).
			WithOperation("interp.Evaluate").
			WithDetail("identifier", id.String())
	}
	return v, nil
}
