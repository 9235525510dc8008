// File: render_test.go
// Title: Rendering Tests
// Description: Tests for canonical JSON rendering of store values.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial tests

package store

import (
	"context"
	"math"
	"testing"
)

func TestRender(t *testing.T) {
	fn := Func(func(ctx context.Context, args []Value) (Value, error) { return nil, nil })

	nested := NewMap()
	nested.Set("z", 1.0)
	nested.Set("a", []Value{"x", true, nil})
	nested.Set("fn", fn)

	tests := []struct {
		name string
		in   Value
		want string
	}{
		{"integer", float64(1), "1"},
		{"fraction", 2.5, "2.5"},
		{"negative", -42.0, "-42"},
		{"large", 1e21, "1e+21"},
		{"small", 1e-7, "1e-7"},
		{"nan", math.NaN(), "null"},
		{"string", "hi <b>", `"hi <b>"`},
		{"bool", false, "false"},
		{"nil", nil, "null"},
		{"nested map", nested, `{"z":1,"a":["x",true,null]}`},
		{"callable in array", []Value{fn, 1.0}, "[null,1]"},
		{"top-level callable", fn, Undefined},
		{"void", Void, Undefined},
		{"class", NewClass("Point", "x"), Undefined},
		{"empty map", NewMap(), "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.in); got != tt.want {
				t.Errorf("Render() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRenderCycle(t *testing.T) {
	m := NewMap()
	m.Set("self", m)
	if got := Render(m); got != Undefined {
		t.Errorf("Render(cyclic) = %s, want %s", got, Undefined)
	}
}
