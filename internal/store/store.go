// File: store.go
// Title: Data Store and Identifier Resolver
// Description: The DataStore is the single mutable tree of program state.
//              Lookup, Assign and Owner walk identifier paths from the root
//              and report missing intermediate segments as PATH_NOT_FOUND
//              errors instead of traversing absent values. Arrays are
//              stepped into by decimal index segments.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial resolver with create-only-if-absent assignment
// - 2026-10-18 v0.1.1: Index segments resolve array elements

package store

import (
	"strconv"
	"strings"

	mdwerror "github.com/msto63/actionvm/foundation/core/error"
)

// DataStore holds all bindings reachable by the interpreter. It performs no
// locking; callers that share a store between goroutines must serialize
// access themselves.
type DataStore struct {
	root *Map
}

// New creates an empty data store
func New() *DataStore {
	return &DataStore{root: NewMap()}
}

// NewSeeded creates a data store with the given initial bindings. Keys are
// bound in sorted order.
func NewSeeded(bindings map[string]any) *DataStore {
	s := New()
	s.Seed(bindings)
	return s
}

// Root returns the root mapping
func (s *DataStore) Root() *Map {
	return s.root
}

// Bind sets a top-level binding unconditionally. It is meant for seeding
// before any actions run; actions go through Assign.
func (s *DataStore) Bind(name string, v any) {
	s.root.Set(name, Normalize(v))
}

// Seed binds every entry of bindings at the root
func (s *DataStore) Seed(bindings map[string]any) {
	seeded, _ := Normalize(bindings).(*Map)
	if seeded == nil {
		return
	}
	seeded.Each(func(key string, v Value) {
		s.root.Set(key, v)
	})
}

// Lookup resolves path. found is false when the final segment is absent,
// or when its parent is a value that cannot hold members. A missing
// intermediate segment fails with PATH_NOT_FOUND.
func (s *DataStore) Lookup(path []string) (Value, bool, error) {
	if err := validatePath(path, "store.Lookup"); err != nil {
		return nil, false, err
	}

	parent, err := s.walk(path[:len(path)-1], path, "store.Lookup")
	if err != nil {
		return nil, false, err
	}

	v, found, _ := member(parent, path[len(path)-1])
	return v, found, nil
}

// Assign binds v at path if and only if the final segment is absent.
// created reports whether a binding was made; an existing binding, whatever
// its value, is left untouched. Intermediate segments are never created.
func (s *DataStore) Assign(path []string, v Value) (created bool, err error) {
	if err := validatePath(path, "store.Assign"); err != nil {
		return false, err
	}

	parent, err := s.walk(path[:len(path)-1], path, "store.Assign")
	if err != nil {
		return false, err
	}

	key := path[len(path)-1]
	if list, isArray := parent.([]Value); isArray {
		// elements are never added, so an existing index is a no-op
		if _, ok := arrayIndex(key, len(list)); ok {
			return false, nil
		}
		return false, pathNotFound(path, len(path)-1, "store.Assign").
			WithDetail("length", len(list))
	}

	container, ok := parent.(Container)
	if !ok {
		return false, pathNotFound(path, len(path)-1, "store.Assign").
			WithDetail("parent_type", TypeName(parent))
	}

	if _, exists := container.Get(key); exists {
		return false, nil
	}
	container.Set(key, Normalize(v))
	return true, nil
}

// Owner resolves the value that holds members addressed under prefix. An
// empty prefix is the root mapping.
func (s *DataStore) Owner(prefix []string) (Value, error) {
	if len(prefix) == 0 {
		return s.root, nil
	}
	parent, err := s.walk(prefix[:len(prefix)-1], prefix, "store.Owner")
	if err != nil {
		return nil, err
	}
	owner, found, _ := member(parent, prefix[len(prefix)-1])
	if !found {
		return nil, pathNotFound(prefix, len(prefix)-1, "store.Owner")
	}
	return owner, nil
}

// walk follows segments from the root and returns the value reached. full
// is the complete path, used for error reporting.
func (s *DataStore) walk(segments, full []string, op string) (Value, error) {
	var current Value = s.root
	for i, seg := range segments {
		next, found, holds := member(current, seg)
		if !holds {
			return nil, pathNotFound(full, i, op).WithDetail("parent_type", TypeName(current))
		}
		if !found {
			return nil, pathNotFound(full, i, op)
		}
		current = next
	}
	return current, nil
}

// member resolves key on v. holds is false when v has no members at all.
func member(v Value, key string) (value Value, found, holds bool) {
	switch t := v.(type) {
	case Container:
		value, found = t.Get(key)
		return value, found, true
	case []Value:
		i, ok := arrayIndex(key, len(t))
		if !ok {
			return nil, false, true
		}
		return t[i], true, true
	}
	return nil, false, false
}

// arrayIndex parses a canonical decimal index below n. "01", "-1" and
// "+1" are not indices.
func arrayIndex(key string, n int) (int, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return 0, false
		}
	}
	i, err := strconv.Atoi(key)
	if err != nil || i >= n {
		return 0, false
	}
	return i, true
}

func validatePath(path []string, op string) error {
	if len(path) == 0 {
		return mdwerror.New("identifier must have at least one segment").
			WithCode(mdwerror.CodeInvalidIdentifier).
			WithOperation(op)
	}
	return nil
}

func pathNotFound(path []string, at int, op string) *mdwerror.Error {
	return mdwerror.Newf("path %s: segment %q not found", FormatPath(path), path[at]).
		WithCode(mdwerror.CodePathNotFound).
		WithOperation(op).
		WithDetail("path", FormatPath(path)).
		WithDetail("segment", at)
}

// FormatPath renders a path in dotted form for logs and errors
func FormatPath(path []string) string {
	return strings.Join(path, ".")
}
