package semantic

import (
	"github.com/compiscript-lang/compiscript/internal/codegen"
	"github.com/compiscript-lang/compiscript/internal/parsetree"
	"github.com/compiscript-lang/compiscript/internal/symtab"
	"github.com/compiscript-lang/compiscript/internal/types"
)

// visitFunctionDeclaration declares the function symbol in the enclosing
// scope (so recursive calls resolve), then walks the body in a fresh scope
// with the parameters declared into it.
//
// The body's three-address code is deliberately discarded: the bit-exact
// instruction grammar (§6 in the spec this walker implements) has no call
// or function-entry form, so a function's code never appears in the
// top-level TAC listing. Walking the body still drives every diagnostic
// and symbol-table effect inside it; only the emitted code is thrown away.
func (a *Analyzer) visitFunctionDeclaration(node parsetree.Node) codegen.Fragment {
	name := node.Text()
	paramsNode := findChild(node, parsetree.Parameters)
	returnAnnotation := findChild(node, parsetree.TypeAnnotation)
	bodyNode := findChild(node, parsetree.Block)

	returnType := types.Unknown
	if returnAnnotation != nil {
		returnType = parseTypeText(returnAnnotation.Text())
	}

	seen := make(map[string]bool)
	var params []symtab.Param
	for _, p := range paramsNode.Children() {
		pname := p.Text()
		if seen[pname] {
			a.diags.Add(p.Line(), "duplicate parameter name '%s'", pname)
		}
		seen[pname] = true

		ptype := types.Unknown
		if ann := findChild(p, parsetree.TypeAnnotation); ann != nil {
			ptype = parseTypeText(ann.Text())
		}
		params = append(params, symtab.Param{Name: pname, Type: ptype})
	}

	fn := &symtab.Symbol{
		Name:       name,
		Type:       returnType,
		Constant:   true,
		Kind:       symtab.KindFunction,
		Line:       node.Line(),
		Params:     params,
		ReturnType: returnType,
	}
	if !a.store.Declare(name, fn) {
		a.diags.Add(node.Line(), "Identifier '%s' already declared in this scope", name)
	}

	a.store.EnterScope()
	for _, p := range params {
		a.store.Declare(p.Name, &symtab.Symbol{Name: p.Name, Type: p.Type, Kind: symtab.KindVariable, Line: node.Line()})
	}
	a.returnTypes = append(a.returnTypes, returnType)
	a.visitStatement(bodyNode)
	a.returnTypes = a.returnTypes[:len(a.returnTypes)-1]
	a.store.ExitScope()

	return codegen.StatementFragment(nil)
}

func (a *Analyzer) visitReturnStatement(node parsetree.Node) codegen.Fragment {
	if len(a.returnTypes) == 0 {
		a.diags.Add(node.Line(), "'return' used outside of function")
		return codegen.StatementFragment(nil)
	}
	expected := a.returnTypes[len(a.returnTypes)-1]

	if len(node.Children()) == 0 {
		if !types.Equal(expected, types.Void) {
			a.diags.Add(node.Line(), "function must return a value of type %s", expected)
		}
		return codegen.StatementFragment(nil)
	}

	value := a.visitExpression(node.Children()[0])
	if !types.Equal(expected, value.Type) {
		a.diags.Add(node.Line(), "type error: return value is %s, expected %s", value.Type, expected)
	}
	return codegen.StatementFragment(value.Code)
}

// visitCallExpr checks arity and per-argument types. Like function bodies,
// calls have no instruction form in the bit-exact grammar, so the result
// fragment carries only the code needed to evaluate the arguments; the
// call itself contributes no instruction, and the result place is a fresh
// temporary that callers may use as a type-checked placeholder.
func (a *Analyzer) visitCallExpr(node parsetree.Node) codegen.Fragment {
	children := node.Children()
	callee := children[0]
	if callee.Kind() != parsetree.IdentifierExpr {
		a.diags.Add(node.Line(), "call target must be a function name")
		return codegen.EmptyFragment()
	}

	name := callee.Text()
	sym := a.store.Resolve(name)
	if sym == nil {
		a.diags.Add(node.Line(), "Function '%s' not declared", name)
		return codegen.EmptyFragment()
	}
	if sym.Kind != symtab.KindFunction {
		a.diags.Add(node.Line(), "'%s' is not a function", name)
		return codegen.EmptyFragment()
	}

	args := children[1:]
	if len(args) != len(sym.Params) {
		a.diags.Add(node.Line(), "Function '%s' expects %d arguments but got %d", name, len(sym.Params), len(args))
	}

	var code []string
	for i, argNode := range args {
		arg := a.visitExpression(argNode)
		code = append(code, arg.Code...)
		if i < len(sym.Params) && !types.Equal(sym.Params[i].Type, arg.Type) {
			a.diags.Add(argNode.Line(), "type error: argument %d to '%s' expected %s but got %s", i+1, name, sym.Params[i].Type, arg.Type)
		}
	}

	place := a.gen.NewTemp()
	return codegen.NewFragment(code, place, sym.ReturnType)
}
