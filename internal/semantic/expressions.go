package semantic

import (
	"fmt"
	"strings"

	"github.com/compiscript-lang/compiscript/internal/codegen"
	"github.com/compiscript-lang/compiscript/internal/parsetree"
	"github.com/compiscript-lang/compiscript/internal/types"
)

// unknownOperand reports whether either operand is Unknown — if so, the
// result propagates Unknown with no code and no new diagnostic, per the
// absorbing-type rule centralized in package types rather than re-checked
// at every call site the way the walker this replaces did.
func unknownOperand(l, r codegen.Fragment) bool {
	return types.IsUnknown(l.Type) || types.IsUnknown(r.Type)
}

func (a *Analyzer) visitLogicalExpr(node parsetree.Node) codegen.Fragment {
	children := node.Children()
	l := a.visitExpression(children[0])
	r := a.visitExpression(children[1])
	if unknownOperand(l, r) {
		return codegen.EmptyFragment()
	}
	if !types.Equal(l.Type, types.Boolean) || !types.Equal(r.Type, types.Boolean) {
		a.diags.Add(node.Line(), "type error: operator '%s' requires boolean operands, got %s and %s", node.Text(), l.Type, r.Type)
		return codegen.EmptyFragment()
	}
	temp := a.gen.NewTemp()
	line := fmt.Sprintf("%s = %s %s %s", temp, l.Place, node.Text(), r.Place)
	return codegen.Concat(temp, types.Boolean, []string{line}, l, r)
}

func (a *Analyzer) visitEqualityExpr(node parsetree.Node) codegen.Fragment {
	children := node.Children()
	l := a.visitExpression(children[0])
	r := a.visitExpression(children[1])
	if unknownOperand(l, r) {
		return codegen.EmptyFragment()
	}
	if !types.Comparable(l.Type, r.Type, true) {
		a.diags.Add(node.Line(), "type error: cannot compare %s and %s with '%s'", l.Type, r.Type, node.Text())
		return codegen.EmptyFragment()
	}
	temp := a.gen.NewTemp()
	line := fmt.Sprintf("%s = %s %s %s", temp, l.Place, node.Text(), r.Place)
	return codegen.Concat(temp, types.Boolean, []string{line}, l, r)
}

func (a *Analyzer) visitRelationalExpr(node parsetree.Node) codegen.Fragment {
	children := node.Children()
	l := a.visitExpression(children[0])
	r := a.visitExpression(children[1])
	if unknownOperand(l, r) {
		return codegen.EmptyFragment()
	}
	if !types.Comparable(l.Type, r.Type, false) {
		a.diags.Add(node.Line(), "type error: cannot compare %s and %s with '%s'", l.Type, r.Type, node.Text())
		return codegen.EmptyFragment()
	}
	temp := a.gen.NewTemp()
	line := fmt.Sprintf("%s = %s %s %s", temp, l.Place, node.Text(), r.Place)
	return codegen.Concat(temp, types.Boolean, []string{line}, l, r)
}

func (a *Analyzer) visitArithmeticExpr(node parsetree.Node) codegen.Fragment {
	children := node.Children()
	l := a.visitExpression(children[0])
	r := a.visitExpression(children[1])
	if unknownOperand(l, r) {
		return codegen.EmptyFragment()
	}
	if !types.Numeric(l.Type) || !types.Numeric(r.Type) {
		a.diags.Add(node.Line(), "type error: operator '%s' requires numeric operands, got %s and %s", node.Text(), l.Type, r.Type)
		return codegen.EmptyFragment()
	}
	result := types.ArithResult(l.Type, r.Type)
	temp := a.gen.NewTemp()
	line := fmt.Sprintf("%s = %s %s %s", temp, l.Place, node.Text(), r.Place)
	return codegen.Concat(temp, result, []string{line}, l, r)
}

func (a *Analyzer) visitUnaryExpr(node parsetree.Node) codegen.Fragment {
	operand := a.visitExpression(node.Children()[0])
	if types.IsUnknown(operand.Type) {
		return codegen.EmptyFragment()
	}

	op := node.Text()
	if op == "-" {
		if !types.Numeric(operand.Type) {
			a.diags.Add(node.Line(), "type error: unary '-' requires a numeric operand, got %s", operand.Type)
			return codegen.EmptyFragment()
		}
		temp := a.gen.NewTemp()
		line := fmt.Sprintf("%s = -%s", temp, operand.Place)
		return codegen.Concat(temp, operand.Type, []string{line}, operand)
	}

	// op == "!"
	if !types.Equal(operand.Type, types.Boolean) {
		a.diags.Add(node.Line(), "type error: unary '!' requires a boolean operand, got %s", operand.Type)
		return codegen.EmptyFragment()
	}
	temp := a.gen.NewTemp()
	line := fmt.Sprintf("%s = !%s", temp, operand.Place)
	return codegen.Concat(temp, types.Boolean, []string{line}, operand)
}

func (a *Analyzer) visitIdentifierExpr(node parsetree.Node) codegen.Fragment {
	name := node.Text()
	sym := a.store.Resolve(name)
	if sym == nil {
		a.diags.Add(node.Line(), "Variable '%s' not declared", name)
		return codegen.EmptyFragment()
	}
	return codegen.NewFragment(nil, name, sym.Type)
}

// visitLiteralExpr classifies a literal by its surface spelling: an
// all-digit run is an Integer, a run with exactly one '.' between digits
// is a Float, quoted text is a String, and "true"/"false" is a Boolean.
// The lexer has already validated the lexeme; this only classifies it.
func (a *Analyzer) visitLiteralExpr(node parsetree.Node) codegen.Fragment {
	text := node.Text()

	switch text {
	case "true", "false":
		return codegen.NewFragment(nil, text, types.Boolean)
	}

	if strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		return codegen.NewFragment(nil, text, types.String)
	}

	if strings.Contains(text, ".") {
		return codegen.NewFragment(nil, text, types.Float)
	}
	return codegen.NewFragment(nil, text, types.Integer)
}
