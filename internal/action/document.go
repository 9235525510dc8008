// File: document.go
// Title: Ordered YAML Reading
// Description: Reads YAML documents into generic values whose mappings are
//              ordered store maps, so literal objects keep the key order
//              they were written in. JSON goes through store.ParseJSON.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: YAML node walk

package action

import (
	"gopkg.in/yaml.v3"

	"github.com/msto63/actionvm/internal/store"
)

// readYAML decodes the first YAML document. Mappings become *store.Map in
// document order and scalars are normalized to the store value model.
func readYAML(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	return fromNode(&root)
}

func fromNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromNode(n.Content[0])
	case yaml.AliasNode:
		return fromNode(n.Alias)
	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromNode(c)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case yaml.MappingNode:
		m := store.NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valueNode := n.Content[i], n.Content[i+1]
			v, err := fromNode(valueNode)
			if err != nil {
				return nil, err
			}
			if keyNode.ShortTag() == "!!merge" {
				mergeInto(m, v)
				continue
			}
			m.Set(keyNode.Value, v)
		}
		return m, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return store.Normalize(v), nil
	}
	return nil, nil
}

// mergeInto applies a "<<" merge: keys already present win
func mergeInto(m *store.Map, v any) {
	switch t := v.(type) {
	case *store.Map:
		t.Each(func(key string, val store.Value) {
			if !m.Has(key) {
				m.Set(key, val)
			}
		})
	case []any:
		for _, e := range t {
			mergeInto(m, e)
		}
	}
}
