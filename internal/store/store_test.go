// File: store_test.go
// Title: Data Store Tests
// Description: Tests for path resolution, create-only-if-absent assignment,
//              owner lookup and instance traversal.
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
	"testing"

	mdwerror "github.com/msto63/actionvm/foundation/core/error"
)

func newTestStore() *DataStore {
	return NewSeeded(map[string]any{
		"x": 3,
		"a": map[string]any{
			"b": map[string]any{"c": "deep"},
			"n": nil,
		},
	})
}

func TestLookup(t *testing.T) {
	s := newTestStore()

	tests := []struct {
		name      string
		path      []string
		want      Value
		wantFound bool
		wantCode  mdwerror.Code
	}{
		{"top level", []string{"x"}, float64(3), true, ""},
		{"nested", []string{"a", "b", "c"}, "deep", true, ""},
		{"present nil", []string{"a", "n"}, nil, true, ""},
		{"absent leaf", []string{"a", "missing"}, nil, false, ""},
		{"absent top level", []string{"nope"}, nil, false, ""},
		{"absent intermediate", []string{"a", "zz", "c"}, nil, false, mdwerror.CodePathNotFound},
		{"member of primitive", []string{"x", "y"}, nil, false, ""},
		{"through primitive", []string{"x", "y", "z"}, nil, false, mdwerror.CodePathNotFound},
		{"empty path", []string{}, nil, false, mdwerror.CodeInvalidIdentifier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found, err := s.Lookup(tt.path)
			if tt.wantCode != "" {
				if !mdwerror.HasCode(err, tt.wantCode) {
					t.Fatalf("Lookup() error = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup() unexpected error = %v", err)
			}
			if found != tt.wantFound {
				t.Errorf("Lookup() found = %v, want %v", found, tt.wantFound)
			}
			if got != tt.want {
				t.Errorf("Lookup() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAssignCreatesOnlyIfAbsent(t *testing.T) {
	s := New()
	path := []string{"p"}

	created, err := s.Assign(path, 1)
	if err != nil || !created {
		t.Fatalf("first Assign() = %v, %v", created, err)
	}

	created, err = s.Assign(path, 2)
	if err != nil {
		t.Fatalf("second Assign() error = %v", err)
	}
	if created {
		t.Error("second Assign() should not create a binding")
	}

	got, _, _ := s.Lookup(path)
	if got != float64(1) {
		t.Errorf("value at p = %v, want 1", got)
	}
}

func TestAssignKeepsExistingNil(t *testing.T) {
	s := newTestStore()

	created, err := s.Assign([]string{"a", "n"}, "replaced")
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	if created {
		t.Error("Assign() over a present nil should be a no-op")
	}
	got, found, _ := s.Lookup([]string{"a", "n"})
	if !found || got != nil {
		t.Errorf("Lookup() = %v, %v, want nil, true", got, found)
	}
}

func TestAssignThenLookup(t *testing.T) {
	s := newTestStore()
	path := []string{"a", "b", "fresh"}

	if _, err := s.Assign(path, "value"); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	got, found, err := s.Lookup(path)
	if err != nil || !found || got != "value" {
		t.Errorf("Lookup() = %v, %v, %v", got, found, err)
	}
}

func TestAssignDoesNotCreateIntermediates(t *testing.T) {
	s := New()

	_, err := s.Assign([]string{"m", "k"}, 1)
	if !mdwerror.HasCode(err, mdwerror.CodePathNotFound) {
		t.Fatalf("Assign() error = %v, want PATH_NOT_FOUND", err)
	}
	if s.Root().Has("m") {
		t.Error("Assign() created an intermediate segment")
	}
}

func TestAssignIntoPrimitiveFails(t *testing.T) {
	s := newTestStore()

	_, err := s.Assign([]string{"x", "y"}, 1)
	if !mdwerror.HasCode(err, mdwerror.CodePathNotFound) {
		t.Fatalf("Assign() error = %v, want PATH_NOT_FOUND", err)
	}
}

func TestOwner(t *testing.T) {
	s := newTestStore()

	root, err := s.Owner(nil)
	if err != nil || root != s.Root() {
		t.Fatalf("Owner(nil) = %v, %v", root, err)
	}

	owner, err := s.Owner([]string{"a", "b"})
	if err != nil {
		t.Fatalf("Owner() error = %v", err)
	}
	if _, ok := owner.(*Map); !ok {
		t.Errorf("Owner() = %T, want *Map", owner)
	}

	if _, err := s.Owner([]string{"a", "missing"}); !mdwerror.HasCode(err, mdwerror.CodePathNotFound) {
		t.Errorf("Owner() error = %v, want PATH_NOT_FOUND", err)
	}
}

func TestInstanceTraversal(t *testing.T) {
	point := NewClass("Point", "x", "y").WithMethod("sum",
		func(ctx context.Context, self *Instance, args []Value) (Value, error) {
			x, _ := self.Get("x")
			y, _ := self.Get("y")
			return x.(float64) + y.(float64), nil
		})

	inst, err := point.Construct(context.Background(), []Value{float64(3)})
	if err != nil {
		t.Fatalf("Construct() error = %v", err)
	}

	s := New()
	s.Bind("p", inst)

	y, found, err := s.Lookup([]string{"p", "y"})
	if err != nil || !found || y != nil {
		t.Errorf("missing constructor arg should bind nil, got %v, %v, %v", y, found, err)
	}

	if _, err := s.Assign([]string{"p", "label"}, "origin"); err != nil {
		t.Fatalf("Assign() into instance error = %v", err)
	}
	if got := Render(inst); got != `{"x":3,"y":null,"label":"origin"}` {
		t.Errorf("Render() = %s", got)
	}

	m, found, _ := s.Lookup([]string{"p", "sum"})
	if !found || !IsCallable(m) {
		t.Fatalf("method lookup = %v, %v", m, found)
	}
}

func TestMapPreservesInsertionOrder(t *testing.T) {
	m := NewMap()
	m.Set("b", 1.0)
	m.Set("a", 2.0)
	m.Set("b", 3.0)

	keys := m.Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Errorf("Keys() = %v, want [b a]", keys)
	}
	if v, _ := m.Get("b"); v != 3.0 {
		t.Errorf("Get(b) = %v, want 3", v)
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize(int64(7)); got != float64(7) {
		t.Errorf("Normalize(int64) = %#v", got)
	}
	if got := Normalize([]int{1, 2}); len(got.([]Value)) != 2 {
		t.Errorf("Normalize([]int) = %#v", got)
	}
	m, ok := Normalize(map[string]int{"z": 1, "a": 2}).(*Map)
	if !ok {
		t.Fatalf("Normalize(map) returned %T", m)
	}
	if keys := m.Keys(); keys[0] != "a" {
		t.Errorf("normalized map keys = %v, want sorted", keys)
	}
}

func TestArrayIndexSegments(t *testing.T) {
	s := NewSeeded(map[string]any{
		"arr":  []any{10, 20},
		"list": []any{map[string]any{"name": "first"}},
	})

	tests := []struct {
		name      string
		path      []string
		want      Value
		wantFound bool
		wantCode  mdwerror.Code
	}{
		{"first element", []string{"arr", "0"}, float64(10), true, ""},
		{"last element", []string{"arr", "1"}, float64(20), true, ""},
		{"past the end", []string{"arr", "2"}, nil, false, ""},
		{"leading zero", []string{"arr", "01"}, nil, false, ""},
		{"negative", []string{"arr", "-1"}, nil, false, ""},
		{"named member", []string{"arr", "length"}, nil, false, ""},
		{"member of element", []string{"list", "0", "name"}, "first", true, ""},
		{"through missing element", []string{"list", "3", "name"}, nil, false, mdwerror.CodePathNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found, err := s.Lookup(tt.path)
			if tt.wantCode != "" {
				if !mdwerror.HasCode(err, tt.wantCode) {
					t.Fatalf("Lookup() error = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup() unexpected error = %v", err)
			}
			if found != tt.wantFound || got != tt.want {
				t.Errorf("Lookup() = %v, %v, want %v, %v", got, found, tt.want, tt.wantFound)
			}
		})
	}
}

func TestAssignThroughArray(t *testing.T) {
	s := NewSeeded(map[string]any{
		"arr":  []any{10, 20},
		"list": []any{map[string]any{}},
	})

	created, err := s.Assign([]string{"arr", "1"}, 99)
	if err != nil || created {
		t.Errorf("Assign() over an existing element = %v, %v, want no-op", created, err)
	}
	if got, _, _ := s.Lookup([]string{"arr", "1"}); got != float64(20) {
		t.Errorf("arr[1] = %v, want 20", got)
	}

	_, err = s.Assign([]string{"arr", "2"}, 1)
	if !mdwerror.HasCode(err, mdwerror.CodePathNotFound) {
		t.Errorf("Assign() past the end error = %v, want PATH_NOT_FOUND", err)
	}

	created, err = s.Assign([]string{"list", "0", "k"}, "v")
	if err != nil || !created {
		t.Fatalf("Assign() into an element = %v, %v", created, err)
	}
	if got, _, _ := s.Lookup([]string{"list", "0", "k"}); got != "v" {
		t.Errorf("list[0].k = %v, want v", got)
	}
}

func TestParseJSONKeepsKeyOrder(t *testing.T) {
	v, err := ParseJSON([]byte(`{"b":1,"a":{"z":true,"y":null},"b":[2,"x"]}`))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	m, ok := v.(*Map)
	if !ok {
		t.Fatalf("ParseJSON() = %T, want *Map", v)
	}
	if got := Render(m); got != `{"b":[2,"x"],"a":{"z":true,"y":null}}` {
		t.Errorf("Render() = %s", got)
	}

	for _, bad := range []string{``, `{"a":`, `1 2`, `[1,]`} {
		if _, err := ParseJSON([]byte(bad)); err == nil {
			t.Errorf("ParseJSON(%q) should fail", bad)
		}
	}
}

func TestCloneCopiesMapsAndArrays(t *testing.T) {
	original := NewMap()
	original.Set("list", []Value{1.0})
	original.Set("n", 2)

	copied := Clone(original).(*Map)
	copied.Set("extra", true)
	list, _ := copied.Get("list")
	list.([]Value)[0] = 5.0

	if original.Has("extra") {
		t.Error("Clone() shares keys with the original")
	}
	if l, _ := original.Get("list"); l.([]Value)[0] != 1.0 {
		t.Errorf("original list = %v, want [1]", l)
	}
	if n, _ := copied.Get("n"); n != float64(2) {
		t.Errorf("cloned n = %#v, want normalized 2", n)
	}
}
