// Package semantic implements the Semantic Walker: a single tree-directed
// pass over a parsetree.Node that performs name resolution, type checking,
// and three-address-code generation together.
//
// DESIGN PHILOSOPHY (unchanged from the walker this replaces):
//   - Collect every diagnostic; never stop at the first one.
//   - One pass. Compiscript requires declaration-before-use, so there is no
//     need for a separate forward-declaration pass over top-level names.
//   - Dispatch on parsetree.Kind rather than a typed per-node visitor
//     interface, since the walker is built against the generic parse-tree
//     contract (see package parsetree) and not a fixed AST type.
package semantic

import (
	"fmt"
	"strings"

	"github.com/compiscript-lang/compiscript/internal/codegen"
	"github.com/compiscript-lang/compiscript/internal/diag"
	"github.com/compiscript-lang/compiscript/internal/parsetree"
	"github.com/compiscript-lang/compiscript/internal/symtab"
	"github.com/compiscript-lang/compiscript/internal/types"
)

// loopContext records the two labels a break/continue inside a loop body
// needs: continueLabel is where "continue" jumps (the loop's next
// condition check, or — for `for`/`foreach` — the step that must still
// run first), breakLabel is where "break" jumps (just past the loop).
type loopContext struct {
	continueLabel string
	breakLabel    string
}

// Analyzer walks a parse tree and accumulates diagnostics, a symbol table,
// and three-address code as it goes.
//
// DESIGN CHOICE: no separate "resolved AST" output. Each visit returns a
// codegen.Fragment and mutates the Analyzer's own state (symbol store,
// diagnostics, generator); the Driver reads the accumulated state back out
// once Analyze returns. This mirrors the original walker's single pass,
// generalized onto the stack-of-scopes symbol store.
type Analyzer struct {
	store *symtab.Store
	diags *diag.Collector
	gen   *codegen.Generator

	loops       []loopContext
	returnTypes []types.Type
}

// New returns an Analyzer ready to walk one program.
func New() *Analyzer {
	return &Analyzer{
		store: symtab.NewStore(),
		diags: diag.NewCollector(),
		gen:   codegen.NewGenerator(),
	}
}

// Diagnostics returns every diagnostic recorded during Analyze, in the
// order semantic errors were found.
func (a *Analyzer) Diagnostics() []diag.Diagnostic {
	return a.diags.Diagnostics()
}

// Symbols returns the global scope's symbol table, for the Driver's
// symbol-table snapshot.
func (a *Analyzer) Symbols() map[string]*symtab.Symbol {
	return a.store.GlobalSnapshot()
}

// Analyze walks a Program node and returns the concatenated three-address
// code of every top-level statement, in source order.
func (a *Analyzer) Analyze(program parsetree.Node) []string {
	var code []string
	for _, stmt := range program.Children() {
		f := a.visitStatement(stmt)
		code = append(code, f.Code...)
	}
	return code
}

func (a *Analyzer) visitStatement(node parsetree.Node) codegen.Fragment {
	switch node.Kind() {
	case parsetree.VariableDeclaration:
		return a.visitVarOrConstDecl(node, false)
	case parsetree.ConstantDeclaration:
		return a.visitVarOrConstDecl(node, true)
	case parsetree.Assignment:
		return a.visitAssignment(node)
	case parsetree.ExpressionStatement:
		return a.visitExpressionStatement(node)
	case parsetree.Block:
		return a.visitBlock(node)
	case parsetree.IfStatement:
		return a.visitIfStatement(node)
	case parsetree.WhileStatement:
		return a.visitWhileStatement(node)
	case parsetree.DoWhileStatement:
		return a.visitDoWhileStatement(node)
	case parsetree.ForStatement:
		return a.visitForStatement(node)
	case parsetree.ForeachStatement:
		return a.visitForeachStatement(node)
	case parsetree.BreakStatement:
		return a.visitBreakStatement(node)
	case parsetree.ContinueStatement:
		return a.visitContinueStatement(node)
	case parsetree.ReturnStatement:
		return a.visitReturnStatement(node)
	case parsetree.FunctionDeclaration:
		return a.visitFunctionDeclaration(node)
	default:
		a.diags.Add(node.Line(), "internal error: unexpected statement node %s", node.Kind())
		return codegen.StatementFragment(nil)
	}
}

func (a *Analyzer) visitExpression(node parsetree.Node) codegen.Fragment {
	switch node.Kind() {
	case parsetree.LogicalOrExpr, parsetree.LogicalAndExpr:
		return a.visitLogicalExpr(node)
	case parsetree.EqualityExpr:
		return a.visitEqualityExpr(node)
	case parsetree.RelationalExpr:
		return a.visitRelationalExpr(node)
	case parsetree.AdditiveExpr, parsetree.MultiplicativeExpr:
		return a.visitArithmeticExpr(node)
	case parsetree.UnaryExpr:
		return a.visitUnaryExpr(node)
	case parsetree.CallExpr:
		return a.visitCallExpr(node)
	case parsetree.IndexExpr:
		return a.visitIndexExpr(node)
	case parsetree.IdentifierExpr:
		return a.visitIdentifierExpr(node)
	case parsetree.LiteralExpr:
		return a.visitLiteralExpr(node)
	case parsetree.ArrayLiteral:
		return a.visitArrayLiteral(node)
	default:
		a.diags.Add(node.Line(), "internal error: unexpected expression node %s", node.Kind())
		return codegen.EmptyFragment()
	}
}

// findChild returns the first child of node with the given kind, or nil.
// Nodes with optional components (a declaration's type annotation, a
// function's return-type annotation) are addressed this way rather than by
// fixed position, since the component may be entirely absent.
func findChild(node parsetree.Node, kind parsetree.Kind) parsetree.Node {
	for _, c := range node.Children() {
		if c == nil {
			continue
		}
		if c.Kind() == kind {
			return c
		}
	}
	return nil
}

// parseTypeText converts a TypeAnnotation node's surface text ("integer",
// "string[]", "float[][]", …) into a lattice Type, trimming one "[]" suffix
// per array dimension.
func parseTypeText(text string) types.Type {
	depth := 0
	for strings.HasSuffix(text, "[]") {
		text = strings.TrimSuffix(text, "[]")
		depth++
	}

	var base types.Type
	switch text {
	case "integer":
		base = types.Integer
	case "float":
		base = types.Float
	case "string":
		base = types.String
	case "boolean":
		base = types.Boolean
	default:
		base = types.Unknown
	}

	for i := 0; i < depth; i++ {
		base = types.NewArray(base)
	}
	return base
}

func (a *Analyzer) requireBoolean(f codegen.Fragment, line int) {
	if types.IsUnknown(f.Type) {
		return
	}
	if !types.Equal(f.Type, types.Boolean) {
		a.diags.Add(line, "condition must be boolean, got %s", f.Type)
	}
}

func (a *Analyzer) pushLoop(continueLabel, breakLabel string) {
	a.loops = append(a.loops, loopContext{continueLabel: continueLabel, breakLabel: breakLabel})
}

func (a *Analyzer) popLoop() {
	a.loops = a.loops[:len(a.loops)-1]
}

func (a *Analyzer) currentLoop() (loopContext, bool) {
	if len(a.loops) == 0 {
		return loopContext{}, false
	}
	return a.loops[len(a.loops)-1], true
}

// exprDisplayName renders a short, human-readable name for an expression
// node used as the subject of a diagnostic: its identifier when it is one,
// otherwise the generic "expression".
func exprDisplayName(node parsetree.Node) string {
	if node.Kind() == parsetree.IdentifierExpr {
		return fmt.Sprintf("'%s'", node.Text())
	}
	return "expression"
}
