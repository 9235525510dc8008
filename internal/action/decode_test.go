// File: decode_test.go
// Title: Action Decoding Tests
// Description: Tests for decoding JSON and YAML action scripts, content
//              discrimination and tag validation.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial tests

package action

import (
	"reflect"
	"testing"

	mdwerror "github.com/msto63/actionvm/foundation/core/error"
	"github.com/msto63/actionvm/internal/store"
)

func TestParseJSONScript(t *testing.T) {
	script := `[
		{"action": "ASSIGN", "identifier": ["a"], "content": 1},
		{"action": "ASSIGN", "identifier": ["p"], "content": {
			"action": "NEW", "objectClass": "Point",
			"parameters": [{"identifier": ["x"]}, 5]
		}},
		{"action": "CALL", "identifier": ["console", "log"], "parameters": ["hi"]},
		{"action": "PRINT", "identifier": "a"}
	]`

	actions, err := Parse([]byte(script), FormatJSON)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(actions) != 4 {
		t.Fatalf("Parse() returned %d actions, want 4", len(actions))
	}

	assign, ok := actions[0].(*Assign)
	if !ok {
		t.Fatalf("actions[0] = %T, want *Assign", actions[0])
	}
	if lit, ok := assign.Content.(*Literal); !ok || lit.Value != float64(1) {
		t.Errorf("assign content = %#v", assign.Content)
	}

	newContent, ok := actions[1].(*Assign).Content.(*New)
	if !ok {
		t.Fatalf("actions[1] content = %T, want *New", actions[1].(*Assign).Content)
	}
	if !reflect.DeepEqual(newContent.ObjectClass, Identifier{"Point"}) {
		t.Errorf("objectClass = %v", newContent.ObjectClass)
	}
	if _, ok := newContent.Parameters[0].(*Ref); !ok {
		t.Errorf("parameter 0 = %T, want *Ref", newContent.Parameters[0])
	}
	if _, ok := newContent.Parameters[1].(*Literal); !ok {
		t.Errorf("parameter 1 = %T, want *Literal", newContent.Parameters[1])
	}

	call := actions[2].(*Call)
	if !reflect.DeepEqual(call.Identifier, Identifier{"console", "log"}) {
		t.Errorf("call identifier = %v", call.Identifier)
	}

	printAction := actions[3].(*Print)
	if !reflect.DeepEqual(printAction.Identifier, Identifier{"a"}) {
		t.Errorf("print identifier = %v", printAction.Identifier)
	}
}

func TestParseYAMLScript(t *testing.T) {
	script := `
- action: ASSIGN
  identifier: [config, name]
  content: demo
- action: PRINT
  identifier: config.name
`
	actions, err := Parse([]byte(script), FormatYAML)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(actions) != 2 {
		t.Fatalf("Parse() returned %d actions", len(actions))
	}
	want := Identifier{"config", "name"}
	if got := actions[0].Target(); !reflect.DeepEqual(got, want) {
		t.Errorf("assign target = %v, want %v", got, want)
	}
	if got := actions[1].Target(); !reflect.DeepEqual(got, want) {
		t.Errorf("print target = %v, want %v", got, want)
	}
}

func TestParseSingleAction(t *testing.T) {
	actions, err := Parse([]byte(`{"action":"PRINT","identifier":["x"]}`), FormatJSON)
	if err != nil || len(actions) != 1 {
		t.Fatalf("Parse() = %v, %v", actions, err)
	}
}

func TestContentFromValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Content
	}{
		{"number literal", 5.0, &Literal{Value: 5.0}},
		{"string literal", "text", &Literal{Value: "text"}},
		{"object literal", map[string]any{"k": "v"}, &Literal{Value: map[string]any{"k": "v"}}},
		{"reference", map[string]any{"identifier": []any{"a", "b"}}, &Ref{Identifier: Identifier{"a", "b"}}},
		{"call", map[string]any{"action": "call", "identifier": "m.f"}, &CallContent{Identifier: Identifier{"m", "f"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ContentFromValue(tt.in)
			if err != nil {
				t.Fatalf("ContentFromValue() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ContentFromValue() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		wantCode mdwerror.Code
	}{
		{"unknown action tag", `{"action":"DELETE","identifier":["a"]}`, mdwerror.CodeUnknownTag},
		{"unknown content tag", `{"action":"ASSIGN","identifier":["a"],"content":{"action":"SPAWN"}}`, mdwerror.CodeUnknownTag},
		{"missing identifier", `{"action":"PRINT"}`, mdwerror.CodeInvalidIdentifier},
		{"empty identifier", `{"action":"PRINT","identifier":[]}`, mdwerror.CodeInvalidIdentifier},
		{"missing tag", `{"identifier":["a"]}`, mdwerror.CodeInvalidInput},
		{"not an object", `[1]`, mdwerror.CodeInvalidInput},
		{"malformed json", `{"action":`, mdwerror.CodeInvalidInput},
		{"bad parameters", `{"action":"CALL","identifier":["f"],"parameters":3}`, mdwerror.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.script), FormatJSON)
			if !mdwerror.HasCode(err, tt.wantCode) {
				t.Errorf("Parse() error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	original := []Action{
		&Assign{Identifier: Identifier{"p"}, Content: &New{
			ObjectClass: Identifier{"Point"},
			Parameters:  []Content{RefTo("x"), Lit(5.0)},
		}},
		&Call{Identifier: Identifier{"f"}, Parameters: []Content{&CallContent{Identifier: Identifier{"g"}}}},
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	decoded, err := Parse(data, FormatJSON)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	inner := decoded[1].(*Call).Parameters[0].(*CallContent)
	if inner.Parameters == nil || len(inner.Parameters) != 0 {
		t.Errorf("nested call parameters = %#v, want empty list", inner.Parameters)
	}
	if !reflect.DeepEqual(decoded[0], original[0]) {
		t.Errorf("decoded = %v, want %v", decoded[0], original[0])
	}
}

func TestParseKeepsLiteralKeyOrder(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		script string
	}{
		{"json", FormatJSON, `{"action":"ASSIGN","identifier":["o"],"content":{"b":1,"a":{"d":2,"c":3}}}`},
		{"yaml", FormatYAML, "action: ASSIGN\nidentifier: [o]\ncontent:\n  b: 1\n  a:\n    d: 2\n    c: 3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions, err := Parse([]byte(tt.script), tt.format)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			lit, ok := actions[0].(*Assign).Content.(*Literal)
			if !ok {
				t.Fatalf("content = %T, want *Literal", actions[0].(*Assign).Content)
			}
			if got := store.Render(lit.Value); got != `{"b":1,"a":{"d":2,"c":3}}` {
				t.Errorf("literal = %s", got)
			}
		})
	}
}

func TestParseYAMLAliasAndMerge(t *testing.T) {
	script := `
- action: ASSIGN
  identifier: [base]
  content: &base {x: 1, y: 2}
- action: ASSIGN
  identifier: [derived]
  content:
    <<: *base
    y: 5
    z: 6
`
	actions, err := Parse([]byte(script), FormatYAML)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	derived := actions[1].(*Assign).Content.(*Literal)
	if got := store.Render(derived.Value); got != `{"x":1,"y":5,"z":6}` {
		t.Errorf("merged literal = %s", got)
	}
}

func TestFormatFromPath(t *testing.T) {
	if FormatFromPath("demo.YML") != FormatYAML {
		t.Error("FormatFromPath(.YML) should be YAML")
	}
	if FormatFromPath("demo.json") != FormatJSON {
		t.Error("FormatFromPath(.json) should be JSON")
	}
}
