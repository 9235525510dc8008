// File: render.go
// Title: Canonical Value Rendering
// Description: Renders store values as canonical JSON text: maps in
//              insertion order, integral numbers without a fraction,
//              callables dropped from objects and rendered as null inside
//              arrays, and no HTML escaping.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial renderer

package store

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Undefined is what Render produces for values with no JSON form
const Undefined = "undefined"

// Render returns the canonical text of v as printed by PRINT actions
func Render(v Value) string {
	if !representable(v) {
		return Undefined
	}
	out, err := marshalCanonical(v)
	if err != nil {
		return Undefined
	}
	return string(out)
}

func marshalCanonical(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v, map[any]bool{}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func representable(v Value) bool {
	switch v.(type) {
	case voidValue:
		return false
	case *Map, *Instance:
		return true
	case Callable, Constructor:
		return false
	}
	return true
}

func encode(buf *bytes.Buffer, v Value, seen map[any]bool) error {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	case float64:
		buf.WriteString(formatNumber(t))
	case string:
		return encodeString(buf, t)
	case []Value:
		buf.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if !representable(e) {
				buf.WriteString("null")
				continue
			}
			if err := encode(buf, e, seen); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *Map:
		if seen[t] {
			return &json.UnsupportedValueError{Str: "cyclic map"}
		}
		seen[t] = true
		defer delete(seen, t)
		return encodeMembers(buf, t, seen)
	case *Instance:
		if seen[t] {
			return &json.UnsupportedValueError{Str: "cyclic instance"}
		}
		seen[t] = true
		defer delete(seen, t)
		return encodeMembers(buf, t.fields, seen)
	default:
		native, err := json.Marshal(Normalize(t))
		if err != nil {
			return err
		}
		buf.Write(native)
	}
	return nil
}

func encodeMembers(buf *bytes.Buffer, m *Map, seen map[any]bool) error {
	buf.WriteByte('{')
	first := true
	for _, k := range m.keys {
		v := m.values[k]
		if !representable(v) {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err := encodeString(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := encode(buf, v, seen); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates with a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}

// formatNumber prints numbers the way JSON.stringify does
func formatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	s = strings.Replace(s, "e-0", "e-", 1)
	s = strings.Replace(s, "e+0", "e+", 1)
	return s
}
