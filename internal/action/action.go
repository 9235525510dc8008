// File: action.go
// Title: Action and Content Model
// Description: Sealed variants for the instructions the interpreter runs
//              (ASSIGN, CALL, PRINT) and the expressions they evaluate (NEW,
//              CALL, identifier references and literals).
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial action model

package action

import (
	"strings"
)

// Tag values of the "action" discriminator on the wire
const (
	TagAssign = "ASSIGN"
	TagCall   = "CALL"
	TagPrint  = "PRINT"
	TagNew    = "NEW"
)

// Identifier is a path of segments from the store root. A valid identifier
// has at least one segment.
type Identifier []string

// ParseIdentifier splits a dotted name into segments
func ParseIdentifier(s string) Identifier {
	return Identifier(strings.Split(s, "."))
}

// String renders the identifier in dotted form
func (id Identifier) String() string {
	return strings.Join(id, ".")
}

// Leaf returns the last segment
func (id Identifier) Leaf() string {
	if len(id) == 0 {
		return ""
	}
	return id[len(id)-1]
}

// Parent returns all segments but the last
func (id Identifier) Parent() Identifier {
	if len(id) == 0 {
		return nil
	}
	return id[:len(id)-1]
}

// Action is one of *Assign, *Call or *Print
type Action interface {
	Tag() string
	Target() Identifier
	isAction()
}

// Assign evaluates Content and binds it at Identifier if nothing is bound
// there yet.
type Assign struct {
	Identifier Identifier
	Content    Content
}

// Call invokes the callable at Identifier and discards its result
type Call struct {
	Identifier Identifier
	Parameters []Content
}

// Print writes the canonical text of the value at Identifier
type Print struct {
	Identifier Identifier
}

func (*Assign) Tag() string { return TagAssign }
func (*Call) Tag() string   { return TagCall }
func (*Print) Tag() string  { return TagPrint }

func (a *Assign) Target() Identifier { return a.Identifier }
func (c *Call) Target() Identifier   { return c.Identifier }
func (p *Print) Target() Identifier  { return p.Identifier }

func (*Assign) isAction() {}
func (*Call) isAction()   {}
func (*Print) isAction()  {}

// Content is one of *New, *CallContent, *Ref or *Literal
type Content interface {
	isContent()
}

// New constructs an instance of the constructor bound at ObjectClass
type New struct {
	ObjectClass Identifier
	Parameters  []Content
}

// CallContent evaluates to the result of invoking the callable at Identifier
type CallContent struct {
	Identifier Identifier
	Parameters []Content
}

// Ref evaluates to the value bound at Identifier
type Ref struct {
	Identifier Identifier
}

// Literal evaluates to Value unchanged
type Literal struct {
	Value any
}

func (*New) isContent()         {}
func (*CallContent) isContent() {}
func (*Ref) isContent()         {}
func (*Literal) isContent()     {}

// Lit is shorthand for a literal content
func Lit(v any) *Literal {
	return &Literal{Value: v}
}

// RefTo is shorthand for an identifier reference
func RefTo(segments ...string) *Ref {
	return &Ref{Identifier: Identifier(segments)}
}
