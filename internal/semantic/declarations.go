package semantic

import (
	"fmt"

	"github.com/compiscript-lang/compiscript/internal/codegen"
	"github.com/compiscript-lang/compiscript/internal/parsetree"
	"github.com/compiscript-lang/compiscript/internal/symtab"
	"github.com/compiscript-lang/compiscript/internal/types"
)

// visitVarOrConstDecl handles both VariableDeclaration and
// ConstantDeclaration: they share every rule except mutability.
func (a *Analyzer) visitVarOrConstDecl(node parsetree.Node, isConst bool) codegen.Fragment {
	name := node.Text()

	var annotation, initNode parsetree.Node
	for _, c := range node.Children() {
		if c.Kind() == parsetree.TypeAnnotation {
			annotation = c
		} else {
			initNode = c
		}
	}

	var init codegen.Fragment
	hasInit := initNode != nil
	if hasInit {
		init = a.visitExpression(initNode)
	}

	var declared types.Type
	switch {
	case annotation != nil:
		declared = parseTypeText(annotation.Text())
		if hasInit && !types.Equal(declared, init.Type) {
			a.diags.Add(node.Line(), "Type error: variable '%s' declared as %s but initialized with %s", name, declared, init.Type)
		}
	case hasInit:
		declared = init.Type
	default:
		declared = types.Unknown
	}

	symbol := &symtab.Symbol{
		Name:     name,
		Type:     declared,
		Constant: isConst,
		Kind:     symtab.KindVariable,
		Line:     node.Line(),
	}
	if !a.store.Declare(name, symbol) {
		a.diags.Add(node.Line(), "Identifier '%s' already declared in this scope", name)
		return codegen.StatementFragment(nil)
	}

	if !hasInit {
		return codegen.StatementFragment(nil)
	}
	code := append(append([]string{}, init.Code...), fmt.Sprintf("%s = %s", name, init.Place))
	return codegen.StatementFragment(code)
}

func (a *Analyzer) visitAssignment(node parsetree.Node) codegen.Fragment {
	name := node.Text()

	sym := a.store.Resolve(name)
	if sym == nil {
		a.diags.Add(node.Line(), "Variable '%s' not declared", name)
		return codegen.StatementFragment(nil)
	}
	if !sym.CanAssign() {
		a.diags.Add(node.Line(), "Reassignment to constant '%s' is not allowed", name)
	}
	value := a.visitExpression(node.Children()[0])
	if !types.Equal(sym.Type, value.Type) {
		a.diags.Add(node.Line(), "type error: cannot assign %s to '%s' of type %s", value.Type, name, sym.Type)
	}

	code := append(append([]string{}, value.Code...), fmt.Sprintf("%s = %s", name, value.Place))
	return codegen.StatementFragment(code)
}

func (a *Analyzer) visitExpressionStatement(node parsetree.Node) codegen.Fragment {
	f := a.visitExpression(node.Children()[0])
	return codegen.StatementFragment(f.Code)
}

func (a *Analyzer) visitBlock(node parsetree.Node) codegen.Fragment {
	a.store.EnterScope()
	var code []string
	for _, stmt := range node.Children() {
		f := a.visitStatement(stmt)
		code = append(code, f.Code...)
	}
	a.store.ExitScope()
	return codegen.StatementFragment(code)
}
