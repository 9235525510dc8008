// File: seed.go
// Title: Store Seeding
// Description: Loads initial bindings for a data store from TOML or YAML
//              files: plain values, classes declared by their ordered field
//              names, and optionally the standard bindings.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial TOML and YAML seed files

package seed

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/actionvm/foundation/core/error"
	"github.com/msto63/actionvm/internal/builtins"
	"github.com/msto63/actionvm/internal/store"
)

// File is the decoded content of a seed file
type File struct {
	// Builtins installs the standard bindings before values and classes
	Builtins bool `toml:"builtins" yaml:"builtins"`

	// Values are bound at the root as-is
	Values map[string]any `toml:"values" yaml:"values"`

	// Classes become constructors bound under their name
	Classes []Class `toml:"classes" yaml:"classes"`
}

// Class declares a constructor that binds positional arguments to fields
type Class struct {
	Name   string   `toml:"name" yaml:"name"`
	Fields []string `toml:"fields" yaml:"fields"`

	// Defaults are applied to fields left null by the constructor call
	Defaults map[string]any `toml:"defaults" yaml:"defaults"`
}

// Load reads a seed file, choosing the decoder by extension
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mdwerror.Wrap(err, "read seed file").
			WithCode(mdwerror.CodeMissingConfig).
			WithOperation("seed.Load").
			WithDetail("path", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseTOML(data)
	}
}

// ParseTOML decodes a TOML seed document
func ParseTOML(data []byte) (*File, error) {
	var f File
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, mdwerror.Wrap(err, "invalid TOML seed").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("seed.ParseTOML")
	}
	return &f, f.Validate()
}

// ParseYAML decodes a YAML seed document
func ParseYAML(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, mdwerror.Wrap(err, "invalid YAML seed").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("seed.ParseYAML")
	}
	return &f, f.Validate()
}

// Validate checks class declarations for missing or clashing names
func (f *File) Validate() error {
	seen := make(map[string]bool, len(f.Classes))
	for i, c := range f.Classes {
		if c.Name == "" {
			return invalidSeed("class %d has no name", i)
		}
		if seen[c.Name] {
			return invalidSeed("class %s declared twice", c.Name)
		}
		if _, clash := f.Values[c.Name]; clash {
			return invalidSeed("class %s clashes with a value of the same name", c.Name)
		}
		seen[c.Name] = true

		fields := make(map[string]bool, len(c.Fields))
		for _, field := range c.Fields {
			if field == "" || fields[field] {
				return invalidSeed("class %s has an empty or duplicate field %q", c.Name, field)
			}
			fields[field] = true
		}
	}
	return nil
}

// Apply binds the file's content into ds. out receives console output of
// the standard bindings.
func (f *File) Apply(ds *store.DataStore, out io.Writer) {
	if f.Builtins {
		builtins.Install(ds, out)
	}
	ds.Seed(f.Values)
	for _, c := range f.Classes {
		ds.Bind(c.Name, c.Build())
	}
}

// Build creates the constructor for a declared class
func (c Class) Build() *store.Class {
	class := store.NewClass(c.Name, c.Fields...)
	if len(c.Defaults) == 0 {
		return class
	}

	defaults := store.Normalize(c.Defaults).(*store.Map)
	class.Init = func(ctx context.Context, self *store.Instance, args []store.Value) error {
		defaults.Each(func(key string, v store.Value) {
			if current, ok := self.Fields().Get(key); !ok || current == nil {
				self.Set(key, v)
			}
		})
		return nil
	}
	return class
}

func invalidSeed(format string, args ...any) error {
	return mdwerror.Newf(format, args...).
		WithCode(mdwerror.CodeInvalidConfig).
		WithOperation("seed.Validate")
}
