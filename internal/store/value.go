// File: value.go
// Title: Interpreter Value Model
// Description: Defines the dynamically-typed values held by the data store:
//              primitives, ordered maps, arrays, object instances and the
//              callable and constructor capabilities.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial value model
// - 2026-10-18 v0.1.1: Clone for decoded literals

package store

import (
	"context"
	"fmt"
	"io"
	"reflect"

	"github.com/msto63/actionvm/foundation/utils/mapx"
)

// Value is any value the store can hold. After Normalize it is one of:
// nil, bool, float64, string, []Value, *Map, *Instance, Callable,
// Constructor.
type Value = any

// Container is a value whose members can be resolved and bound by path
// segments. *Map and *Instance are containers.
type Container interface {
	Get(key string) (Value, bool)
	Set(key string, v Value)
}

// Callable is an invokable handle stored in the data graph.
type Callable interface {
	Call(ctx context.Context, args []Value) (Value, error)
}

// Constructor creates new instances from positional arguments.
type Constructor interface {
	Construct(ctx context.Context, args []Value) (Value, error)
}

type outputKey struct{}

// WithOutput attaches the writer receiving the printed output of the
// current batch, so callables can write next to PRINT.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

// OutputFrom returns the writer attached by WithOutput, or fallback
func OutputFrom(ctx context.Context, fallback io.Writer) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}
	return fallback
}

// Func adapts a Go function to the Callable interface.
type Func func(ctx context.Context, args []Value) (Value, error)

// Call implements Callable
func (f Func) Call(ctx context.Context, args []Value) (Value, error) {
	return f(ctx, args)
}

// ConstructorFunc adapts a Go function to the Constructor interface.
type ConstructorFunc func(ctx context.Context, args []Value) (Value, error)

// Construct implements Constructor
func (f ConstructorFunc) Construct(ctx context.Context, args []Value) (Value, error) {
	return f(ctx, args)
}

type voidValue struct{}

func (voidValue) String() string { return "void" }

// Void is the result of a call that produced no value. It is never bound
// in the store.
var Void Value = voidValue{}

// IsVoid reports whether v is the Void marker
func IsVoid(v Value) bool {
	_, ok := v.(voidValue)
	return ok
}

// IsCallable reports whether v can be invoked
func IsCallable(v Value) bool {
	_, ok := v.(Callable)
	return ok
}

// IsConstructor reports whether v can construct instances
func IsConstructor(v Value) bool {
	_, ok := v.(Constructor)
	return ok
}

// TypeName describes the dynamic type of v for messages and logs
func TypeName(v Value) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case voidValue:
		return "void"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []Value:
		return "array"
	case *Map:
		return "map"
	case *Instance:
		return "instance " + t.Class().Name
	case *Class:
		return "class " + t.Name
	case Constructor:
		return "constructor"
	case Callable:
		return "function"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Normalize converts native Go values into the store's value model.
// Integer and float kinds become float64, string-keyed maps become *Map
// with keys in sorted order, and slices become []Value. Values already in
// the model are returned unchanged.
func Normalize(v any) Value {
	switch t := v.(type) {
	case nil, bool, float64, string, *Map, *Instance, voidValue:
		return t
	case Callable, Constructor:
		return t
	case int:
		return float64(t)
	case int8:
		return float64(t)
	case int16:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case uint8:
		return float64(t)
	case uint16:
		return float64(t)
	case uint32:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	case []Value:
		out := make([]Value, len(t))
		for i, e := range t {
			out[i] = Normalize(e)
		}
		return out
	case map[string]any:
		m := NewMap()
		for _, k := range mapx.SortedKeys(t) {
			m.Set(k, Normalize(t[k]))
		}
		return m
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]Value, rv.Len())
		for i := range out {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		native := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			native[iter.Key().String()] = iter.Value().Interface()
		}
		return Normalize(native)
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	}
	return v
}

// Clone copies the maps and arrays of v so a decoded literal can be bound
// more than once without sharing state. Other values are normalized;
// instances and callables are shared.
func Clone(v any) Value {
	switch t := v.(type) {
	case *Map:
		m := NewMap()
		t.Each(func(key string, e Value) {
			m.Set(key, Clone(e))
		})
		return m
	case []Value:
		out := make([]Value, len(t))
		for i, e := range t {
			out[i] = Clone(e)
		}
		return out
	}
	return Normalize(v)
}
