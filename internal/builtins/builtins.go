// File: builtins.go
// Title: Standard Bindings
// Description: Native callables and constructors that can be seeded into a
//              data store: Object and Array constructors plus the console,
//              math, strings and json namespaces.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial standard bindings

package builtins

import (
	"context"
	"fmt"
	"io"

	mdwerror "github.com/msto63/actionvm/foundation/core/error"
	"github.com/msto63/actionvm/internal/store"
)

// Variadic marks a native that accepts any number of arguments
const Variadic = -1

// Native is a named Go function exposed to actions
type Native struct {
	Name  string
	Arity int
	Impl  func(ctx context.Context, args []store.Value) (store.Value, error)
}

// Call implements store.Callable
func (n Native) Call(ctx context.Context, args []store.Value) (store.Value, error) {
	if n.Arity != Variadic && len(args) != n.Arity {
		return nil, mdwerror.Newf("%s expects %d argument(s), got %d", n.Name, n.Arity, len(args)).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("builtins." + n.Name)
	}
	return n.Impl(ctx, args)
}

// String returns the native's name
func (n Native) String() string {
	return "native " + n.Name
}

// Standard returns the standard bindings. console.log writes to the
// output of the running batch, or to out outside of one.
func Standard(out io.Writer) map[string]any {
	return map[string]any{
		"Object":  objectConstructor(),
		"Array":   arrayConstructor(),
		"console": consoleNamespace(out),
		"math":    mathNamespace(),
		"strings": stringsNamespace(),
		"json":    jsonNamespace(),
	}
}

// Install binds the standard set at the root of ds
func Install(ds *store.DataStore, out io.Writer) {
	ds.Seed(Standard(out))
}

func namespace(natives ...Native) *store.Map {
	m := store.NewMap()
	for _, n := range natives {
		m.Set(n.Name, n)
	}
	return m
}

func objectConstructor() store.Constructor {
	return store.ConstructorFunc(func(ctx context.Context, args []store.Value) (store.Value, error) {
		obj := store.NewMap()
		if len(args) == 0 {
			return obj, nil
		}
		src, ok := args[0].(*store.Map)
		if !ok {
			return obj, nil
		}
		src.Each(func(key string, v store.Value) {
			obj.Set(key, v)
		})
		return obj, nil
	})
}

func arrayConstructor() store.Constructor {
	return store.ConstructorFunc(func(ctx context.Context, args []store.Value) (store.Value, error) {
		out := make([]store.Value, len(args))
		copy(out, args)
		return out, nil
	})
}

func consoleNamespace(out io.Writer) *store.Map {
	return namespace(Native{
		Name:  "log",
		Arity: Variadic,
		Impl: func(ctx context.Context, args []store.Value) (store.Value, error) {
			parts := make([]any, len(args))
			for i, a := range args {
				parts[i] = display(a)
			}
			if _, err := fmt.Fprintln(store.OutputFrom(ctx, out), parts...); err != nil {
				return nil, err
			}
			return store.Void, nil
		},
	})
}

// display renders strings bare and everything else canonically
func display(v store.Value) string {
	if s, ok := v.(string); ok {
		return s
	}
	return store.Render(v)
}

func expectNumber(name string, v store.Value) (float64, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, mdwerror.Newf("%s expects a number, got %s", name, store.TypeName(v)).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("builtins." + name)
	}
	return f, nil
}

func expectString(name string, v store.Value) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", mdwerror.Newf("%s expects a string, got %s", name, store.TypeName(v)).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("builtins." + name)
	}
	return s, nil
}
