// Package symtab implements the Symbol Store: a stack of lexical scopes
// supporting declare/resolve with shadowing and scope-local duplicate
// detection.
//
// KEY DESIGN CHOICE: the store is a literal stack of Scopes (innermost on
// top), never a flat map with copy/restore around function bodies. Earlier
// revisions of the language this analyzer serves leaked declarations
// between scopes by reverting to exactly that flat-map-plus-snapshot
// pattern; committing to a real stack throughout, including inside plain
// blocks, is what keeps `if`/`while`/`for` bodies from leaking locals into
// the surrounding scope.
package symtab

import (
	"fmt"

	"github.com/compiscript-lang/compiscript/internal/types"
)

// Kind distinguishes variable symbols from function symbols.
//
// DESIGN CHOICE: an enum rather than modeling Kind through the type system
// because callers need to switch on it directly ("expected variable, got
// function") and an enum keeps that switch exhaustive and cheap.
type Kind int

const (
	KindVariable Kind = iota
	KindFunction
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindVariable:
		return "variable"
	case KindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Param is one entry of a function symbol's ordered parameter list.
type Param struct {
	Name string
	Type types.Type
}

// Symbol is the record a scope holds for one name: its type, its
// mutability, and — for functions — its signature.
//
// DESIGN CHOICE: one struct for both variables and functions rather than
// separate types, matching the declarative model of §3: functions are just
// symbols with Kind == KindFunction, Constant == true, and Params/
// ReturnType populated.
type Symbol struct {
	Name     string
	Type     types.Type
	Constant bool
	Kind     Kind

	// Line is the source line of the declaration.
	Line int

	// Params and ReturnType are populated only when Kind == KindFunction.
	Params     []Param
	ReturnType types.Type
}

// String renders "<kind> <name>: <type>", e.g. "variable x: integer".
func (s *Symbol) String() string {
	return fmt.Sprintf("%s %s: %s", s.Kind, s.Name, s.Type)
}

// CanAssign reports whether this symbol may be the target of an assignment:
// true only for mutable variables. Constants and function symbols can
// never be reassigned.
func (s *Symbol) CanAssign() bool {
	if s.Kind != KindVariable {
		return false
	}
	return !s.Constant
}
