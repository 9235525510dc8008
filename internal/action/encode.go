// File: encode.go
// Title: Action Encoding
// Description: Converts actions and contents back into their JSON-like wire
//              shape for transport and display.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial encoding

package action

import (
	"encoding/json"
)

// ToValue returns the wire shape of an action
func ToValue(a Action) map[string]any {
	switch t := a.(type) {
	case *Assign:
		return map[string]any{
			"action":     TagAssign,
			"identifier": segments(t.Identifier),
			"content":    ContentToValue(t.Content),
		}
	case *Call:
		return map[string]any{
			"action":     TagCall,
			"identifier": segments(t.Identifier),
			"parameters": parametersToValue(t.Parameters),
		}
	case *Print:
		return map[string]any{
			"action":     TagPrint,
			"identifier": segments(t.Identifier),
		}
	}
	return nil
}

// ContentToValue returns the wire shape of a content
func ContentToValue(c Content) any {
	switch t := c.(type) {
	case *New:
		return map[string]any{
			"action":      TagNew,
			"objectClass": t.ObjectClass.String(),
			"parameters":  parametersToValue(t.Parameters),
		}
	case *CallContent:
		return map[string]any{
			"action":     TagCall,
			"identifier": segments(t.Identifier),
			"parameters": parametersToValue(t.Parameters),
		}
	case *Ref:
		return map[string]any{"identifier": segments(t.Identifier)}
	case *Literal:
		return t.Value
	}
	return nil
}

// ListToValue returns the wire shape of a sequence of actions
func ListToValue(actions []Action) []any {
	out := make([]any, len(actions))
	for i, a := range actions {
		out[i] = ToValue(a)
	}
	return out
}

// Marshal encodes actions as a JSON array
func Marshal(actions []Action) ([]byte, error) {
	return json.Marshal(ListToValue(actions))
}

func (a *Assign) MarshalJSON() ([]byte, error) { return json.Marshal(ToValue(a)) }
func (c *Call) MarshalJSON() ([]byte, error)   { return json.Marshal(ToValue(c)) }
func (p *Print) MarshalJSON() ([]byte, error)  { return json.Marshal(ToValue(p)) }

func (a *Assign) String() string { return describe(a) }
func (c *Call) String() string   { return describe(c) }
func (p *Print) String() string  { return describe(p) }

func describe(a Action) string {
	out, err := json.Marshal(ToValue(a))
	if err != nil {
		return a.Tag() + " " + a.Target().String()
	}
	return string(out)
}

func segments(id Identifier) []any {
	out := make([]any, len(id))
	for i, s := range id {
		out[i] = s
	}
	return out
}

func parametersToValue(params []Content) []any {
	out := make([]any, len(params))
	for i, p := range params {
		out[i] = ContentToValue(p)
	}
	return out
}
