// File: decode.go
// Title: Action Decoding
// Description: Builds actions and contents from their JSON-like wire shape,
//              decoded from JSON or YAML documents. A content carrying
//              neither a recognised "action" tag nor an "identifier" key is
//              a literal and is kept verbatim.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial JSON and YAML decoding
// - 2026-10-18 v0.1.1: Literal objects keep their document key order

package action

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	mdwerror "github.com/msto63/actionvm/foundation/core/error"
	"github.com/msto63/actionvm/internal/store"
)

// Format is the document encoding of an action script
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension. Unknown extensions
// are treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes a document holding either one action or a list of actions.
// Any format other than YAML is read as JSON.
func Parse(data []byte, format Format) ([]Action, error) {
	var (
		doc any
		err error
	)
	switch Format(strings.ToLower(string(format))) {
	case FormatYAML:
		if doc, err = readYAML(data); err != nil {
			return nil, mdwerror.Wrap(err, "invalid YAML document").
				WithCode(mdwerror.CodeInvalidInput).
				WithOperation("action.Parse")
		}
	default:
		if doc, err = store.ParseJSON(bytes.TrimSpace(data)); err != nil {
			return nil, mdwerror.Wrap(err, "invalid JSON document").
				WithCode(mdwerror.CodeInvalidInput).
				WithOperation("action.Parse")
		}
	}
	return FromDocument(doc)
}

// FromDocument builds actions from an already decoded document
func FromDocument(doc any) ([]Action, error) {
	switch t := doc.(type) {
	case nil:
		return nil, nil
	case []any:
		actions := make([]Action, 0, len(t))
		for i, raw := range t {
			a, err := ActionFromValue(raw)
			if err != nil {
				return nil, mdwerror.Wrap(err, fmt.Sprintf("action %d", i)).
					WithDetail("index", i)
			}
			actions = append(actions, a)
		}
		return actions, nil
	default:
		a, err := ActionFromValue(doc)
		if err != nil {
			return nil, err
		}
		return []Action{a}, nil
	}
}

// ActionFromValue builds one action from its decoded wire shape
func ActionFromValue(v any) (Action, error) {
	obj, ok := asObject(v)
	if !ok {
		return nil, invalid("action must be an object, got %T", v)
	}

	tag, err := tagOf(obj)
	if err != nil {
		return nil, err
	}

	id, err := identifierField(obj, "identifier")
	if err != nil {
		return nil, err
	}

	switch tag {
	case TagAssign:
		rawContent, present := obj.Get("content")
		if !present {
			return nil, invalid("ASSIGN action without content")
		}
		content, err := ContentFromValue(rawContent)
		if err != nil {
			return nil, err
		}
		return &Assign{Identifier: id, Content: content}, nil
	case TagCall:
		params, err := parametersField(obj)
		if err != nil {
			return nil, err
		}
		return &Call{Identifier: id, Parameters: params}, nil
	case TagPrint:
		return &Print{Identifier: id}, nil
	case "":
		return nil, invalid("action without an action tag")
	default:
		return nil, unknownTag(tag, "action.ActionFromValue")
	}
}

// ContentFromValue builds one content from its decoded wire shape
func ContentFromValue(v any) (Content, error) {
	obj, ok := asObject(v)
	if !ok {
		return &Literal{Value: v}, nil
	}

	tag, err := tagOf(obj)
	if err != nil {
		return nil, err
	}

	switch tag {
	case TagNew:
		class, err := identifierField(obj, "objectClass")
		if err != nil {
			return nil, err
		}
		params, err := parametersField(obj)
		if err != nil {
			return nil, err
		}
		return &New{ObjectClass: class, Parameters: params}, nil
	case TagCall:
		id, err := identifierField(obj, "identifier")
		if err != nil {
			return nil, err
		}
		params, err := parametersField(obj)
		if err != nil {
			return nil, err
		}
		return &CallContent{Identifier: id, Parameters: params}, nil
	case "":
		if obj.Has("identifier") {
			id, err := identifierField(obj, "identifier")
			if err != nil {
				return nil, err
			}
			return &Ref{Identifier: id}, nil
		}
		return &Literal{Value: v}, nil
	default:
		return nil, unknownTag(tag, "action.ContentFromValue")
	}
}

// asObject views decoded objects as a map. Native Go maps come from
// already decoded documents such as gRPC requests.
func asObject(v any) (*store.Map, bool) {
	switch t := v.(type) {
	case *store.Map:
		return t, true
	case map[string]any:
		obj := store.NewMap()
		for k, val := range t {
			obj.Set(k, val)
		}
		return obj, true
	case map[any]any:
		obj := store.NewMap()
		for k, val := range t {
			obj.Set(fmt.Sprint(k), val)
		}
		return obj, true
	}
	return nil, false
}

func tagOf(obj *store.Map) (string, error) {
	raw, present := obj.Get("action")
	if !present || raw == nil {
		return "", nil
	}
	tag, ok := raw.(string)
	if !ok {
		return "", unknownTag(fmt.Sprint(raw), "action.tag")
	}
	return strings.ToUpper(strings.TrimSpace(tag)), nil
}

func identifierField(obj *store.Map, field string) (Identifier, error) {
	raw, present := obj.Get(field)
	if !present {
		return nil, mdwerror.Newf("missing %q", field).
			WithCode(mdwerror.CodeInvalidIdentifier).
			WithOperation("action.decode")
	}
	id, err := IdentifierFromValue(raw)
	if err != nil {
		return nil, err
	}
	if len(id) == 0 {
		return nil, mdwerror.Newf("%q must have at least one segment", field).
			WithCode(mdwerror.CodeInvalidIdentifier).
			WithOperation("action.decode")
	}
	return id, nil
}

// IdentifierFromValue accepts a list of segments or a dotted string. An
// empty string yields an empty identifier.
func IdentifierFromValue(raw any) (Identifier, error) {
	switch t := raw.(type) {
	case string:
		if t == "" {
			return nil, nil
		}
		return ParseIdentifier(t), nil
	case []string:
		return Identifier(t), nil
	case []any:
		id := make(Identifier, 0, len(t))
		for _, seg := range t {
			switch s := seg.(type) {
			case string:
				id = append(id, s)
			case float64, int:
				// numeric segments address array-like keys by their text
				id = append(id, fmt.Sprint(s))
			default:
				return nil, mdwerror.Newf("identifier segment must be a string, got %T", seg).
					WithCode(mdwerror.CodeInvalidIdentifier).
					WithOperation("action.decode")
			}
		}
		return id, nil
	default:
		return nil, mdwerror.Newf("identifier must be a list of segments, got %T", raw).
			WithCode(mdwerror.CodeInvalidIdentifier).
			WithOperation("action.decode")
	}
}

func parametersField(obj *store.Map) ([]Content, error) {
	raw, present := obj.Get("parameters")
	if !present || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, invalid("parameters must be a list, got %T", raw)
	}
	params := make([]Content, 0, len(list))
	for i, p := range list {
		c, err := ContentFromValue(p)
		if err != nil {
			return nil, mdwerror.Wrap(err, fmt.Sprintf("parameter %d", i))
		}
		params = append(params, c)
	}
	return params, nil
}

func invalid(format string, args ...any) *mdwerror.Error {
	return mdwerror.Newf(format, args...).
		WithCode(mdwerror.CodeInvalidInput).
		WithOperation("action.decode")
}

func unknownTag(tag, op string) *mdwerror.Error {
	return mdwerror.Newf("unknown action tag %q", tag).
		WithCode(mdwerror.CodeUnknownTag).
		WithOperation(op).
		WithDetail("tag", tag)
}
