// File: class.go
// Title: Classes and Instances
// Description: A Class is a Constructor declared by an ordered field list
//              and a method table. Instances are containers: fields can be
//              read and bound by path, methods resolve as callables bound to
//              the instance.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial class and instance model

package store

import (
	"context"
)

// Method is the implementation of a class method
type Method func(ctx context.Context, self *Instance, args []Value) (Value, error)

// Class constructs instances. Positional constructor arguments are bound to
// Fields in order; missing arguments bind null and extra arguments are
// ignored. Init, when set, runs after field binding and may adjust the
// instance.
type Class struct {
	Name    string
	Fields  []string
	Methods map[string]Method
	Init    func(ctx context.Context, self *Instance, args []Value) error
}

// NewClass creates a class with the given fields and no methods
func NewClass(name string, fields ...string) *Class {
	return &Class{
		Name:    name,
		Fields:  fields,
		Methods: make(map[string]Method),
	}
}

// WithMethod registers a method and returns the class for chaining
func (c *Class) WithMethod(name string, m Method) *Class {
	if c.Methods == nil {
		c.Methods = make(map[string]Method)
	}
	c.Methods[name] = m
	return c
}

// Construct implements Constructor
func (c *Class) Construct(ctx context.Context, args []Value) (Value, error) {
	inst := &Instance{class: c, fields: NewMap()}
	for i, field := range c.Fields {
		var v Value
		if i < len(args) {
			v = Normalize(args[i])
		}
		inst.fields.Set(field, v)
	}
	if c.Init != nil {
		if err := c.Init(ctx, inst, args); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// Instance is an object created by a Class
type Instance struct {
	class  *Class
	fields *Map
}

// Class returns the class the instance was built from
func (i *Instance) Class() *Class {
	return i.class
}

// Fields returns the instance's field map
func (i *Instance) Fields() *Map {
	return i.fields
}

// Get resolves a field, or a method bound to this instance
func (i *Instance) Get(key string) (Value, bool) {
	if v, ok := i.fields.Get(key); ok {
		return v, true
	}
	if m, ok := i.class.Methods[key]; ok {
		return boundMethod{self: i, method: m}, true
	}
	return nil, false
}

// Set binds a field on the instance
func (i *Instance) Set(key string, v Value) {
	i.fields.Set(key, v)
}

// MarshalJSON renders the instance's fields; methods are not data
func (i *Instance) MarshalJSON() ([]byte, error) {
	return marshalCanonical(i)
}

type boundMethod struct {
	self   *Instance
	method Method
}

func (b boundMethod) Call(ctx context.Context, args []Value) (Value, error) {
	return b.method(ctx, b.self, args)
}
