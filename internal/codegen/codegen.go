// Package codegen implements the Code Generator Helpers: fresh-temporary
// and fresh-label generators, and the CodeFragment record threaded through
// every visit of the semantic walker.
package codegen

import (
	"fmt"

	"github.com/compiscript-lang/compiscript/internal/types"
)

// Fragment is the unit of code returned by visiting a subtree: an ordered
// sequence of TAC lines plus the place and type of the subtree's value.
//
// DESIGN CHOICE: one struct for both expressions and statements, rather
// than the dynamic "sometimes a type string, sometimes a fragment,
// sometimes nil" polymorphism of the original walker. For a statement,
// Place is the empty string and Type is types.Void; callers that need to
// tell "no place" apart from "place is the empty-string literal" should
// check HasPlace.
type Fragment struct {
	Code     []string
	Place    string
	hasPlace bool
	Type     types.Type
}

// HasPlace reports whether Place names a value (identifier, literal, or
// temporary) as opposed to being the unused placeholder of a statement
// fragment.
func (f Fragment) HasPlace() bool {
	return f.hasPlace
}

// NewFragment builds an expression fragment with the given code, place,
// and type.
func NewFragment(code []string, place string, t types.Type) Fragment {
	return Fragment{Code: code, Place: place, hasPlace: true, Type: t}
}

// StatementFragment builds a statement fragment: place unused, type Void.
func StatementFragment(code []string) Fragment {
	return Fragment{Code: code, Type: types.Void}
}

// EmptyFragment is the no-op fragment returned on recoverable error paths.
func EmptyFragment() Fragment {
	return Fragment{Type: types.Unknown}
}

// Concat returns a new fragment whose code is the concatenation of the
// given fragments' code, in order, with the given trailing lines appended.
// This implements the "L.code ++ R.code ++ [new instruction]" rule used
// throughout the expression visitors.
func Concat(place string, t types.Type, trailing []string, fragments ...Fragment) Fragment {
	var code []string
	for _, f := range fragments {
		code = append(code, f.Code...)
	}
	code = append(code, trailing...)
	return NewFragment(code, place, t)
}

// Generator produces fresh temporaries and labels, monotonically
// increasing and never reset within one analysis run.
type Generator struct {
	tempCount  int
	labelCount int
}

// NewGenerator returns a Generator starting both counters at zero; the
// first call to NewTemp/NewLabel yields t1/L1.
func NewGenerator() *Generator {
	return &Generator{}
}

// NewTemp returns the next fresh temporary name: t1, t2, …
func (g *Generator) NewTemp() string {
	g.tempCount++
	return fmt.Sprintf("t%d", g.tempCount)
}

// NewLabel returns the next fresh label name: L1, L2, …
func (g *Generator) NewLabel() string {
	g.labelCount++
	return fmt.Sprintf("L%d", g.labelCount)
}
