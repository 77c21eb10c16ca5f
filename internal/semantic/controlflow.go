package semantic

import (
	"fmt"

	"github.com/compiscript-lang/compiscript/internal/codegen"
	"github.com/compiscript-lang/compiscript/internal/parsetree"
	"github.com/compiscript-lang/compiscript/internal/symtab"
	"github.com/compiscript-lang/compiscript/internal/types"
)

func (a *Analyzer) visitIfStatement(node parsetree.Node) codegen.Fragment {
	children := node.Children()
	cond := a.visitExpression(children[0])
	a.requireBoolean(cond, node.Line())

	code := append([]string{}, cond.Code...)

	if len(children) > 2 {
		lelse := a.gen.NewLabel()
		lend := a.gen.NewLabel()
		code = append(code, fmt.Sprintf("ifFalse %s goto %s", cond.Place, lelse))
		code = append(code, a.visitStatement(children[1]).Code...)
		code = append(code, fmt.Sprintf("goto %s", lend))
		code = append(code, lelse+":")
		code = append(code, a.visitStatement(children[2]).Code...)
		code = append(code, lend+":")
		return codegen.StatementFragment(code)
	}

	lend := a.gen.NewLabel()
	code = append(code, fmt.Sprintf("ifFalse %s goto %s", cond.Place, lend))
	code = append(code, a.visitStatement(children[1]).Code...)
	code = append(code, lend+":")
	return codegen.StatementFragment(code)
}

func (a *Analyzer) visitWhileStatement(node parsetree.Node) codegen.Fragment {
	children := node.Children()
	lstart := a.gen.NewLabel()
	lend := a.gen.NewLabel()

	cond := a.visitExpression(children[0])
	a.requireBoolean(cond, node.Line())

	a.pushLoop(lstart, lend)
	body := a.visitStatement(children[1])
	a.popLoop()

	code := []string{lstart + ":"}
	code = append(code, cond.Code...)
	code = append(code, fmt.Sprintf("ifFalse %s goto %s", cond.Place, lend))
	code = append(code, body.Code...)
	code = append(code, fmt.Sprintf("goto %s", lstart))
	code = append(code, lend+":")
	return codegen.StatementFragment(code)
}

// visitDoWhileStatement differs from while in that the condition is
// checked after the body, so "continue" must jump to the condition check
// (Lcond), not back to the top of the body.
func (a *Analyzer) visitDoWhileStatement(node parsetree.Node) codegen.Fragment {
	children := node.Children()
	lstart := a.gen.NewLabel()
	lcond := a.gen.NewLabel()
	lend := a.gen.NewLabel()

	a.pushLoop(lcond, lend)
	body := a.visitStatement(children[0])
	a.popLoop()

	cond := a.visitExpression(children[1])
	a.requireBoolean(cond, node.Line())

	code := []string{lstart + ":"}
	code = append(code, body.Code...)
	code = append(code, lcond+":")
	code = append(code, cond.Code...)
	code = append(code, fmt.Sprintf("ifTrue %s goto %s", cond.Place, lstart))
	code = append(code, lend+":")
	return codegen.StatementFragment(code)
}

// visitForStatement desugars the C-style three-clause for loop. Continue
// jumps to Lcontinue, just before the step clause, so the step always runs
// before the condition is re-checked.
func (a *Analyzer) visitForStatement(node parsetree.Node) codegen.Fragment {
	children := node.Children()
	initNode, condNode, postNode, bodyNode := children[0], children[1], children[2], children[3]

	a.store.EnterScope()

	var initCode []string
	if initNode != nil {
		initCode = a.visitStatement(initNode).Code
	}

	lstart := a.gen.NewLabel()
	lcontinue := a.gen.NewLabel()
	lend := a.gen.NewLabel()

	var cond codegen.Fragment
	hasCond := condNode != nil
	if hasCond {
		cond = a.visitExpression(condNode)
		a.requireBoolean(cond, node.Line())
	}

	a.pushLoop(lcontinue, lend)
	body := a.visitStatement(bodyNode)
	var postCode []string
	if postNode != nil {
		postCode = a.visitStatement(postNode).Code
	}
	a.popLoop()

	a.store.ExitScope()

	code := append([]string{}, initCode...)
	code = append(code, lstart+":")
	if hasCond {
		code = append(code, cond.Code...)
		code = append(code, fmt.Sprintf("ifFalse %s goto %s", cond.Place, lend))
	}
	code = append(code, body.Code...)
	code = append(code, lcontinue+":")
	code = append(code, postCode...)
	code = append(code, fmt.Sprintf("goto %s", lstart))
	code = append(code, lend+":")
	return codegen.StatementFragment(code)
}

// visitForeachStatement desugars `foreach (x in arr) body` into a
// counter-based loop over a hidden index temporary, using len(...) as an
// opaque intrinsic (outside the bit-exact instruction grammar, but the one
// deliberate exception to it — see "foreach desugaring" in DESIGN.md).
func (a *Analyzer) visitForeachStatement(node parsetree.Node) codegen.Fragment {
	children := node.Children()
	varName := node.Text()

	arr := a.visitExpression(children[0])
	elemType := types.Unknown
	switch {
	case types.IsUnknown(arr.Type):
		// propagate silently
	case types.IsArray(arr.Type):
		elemType = types.ElementOf(arr.Type)
	default:
		a.diags.Add(node.Line(), "%s is not an array", exprDisplayName(children[0]))
	}

	idx := a.gen.NewTemp()
	lstart := a.gen.NewLabel()
	lcontinue := a.gen.NewLabel()
	lend := a.gen.NewLabel()

	a.store.EnterScope()
	a.store.Declare(varName, &symtab.Symbol{Name: varName, Type: elemType, Kind: symtab.KindVariable, Line: node.Line()})
	a.pushLoop(lcontinue, lend)
	body := a.visitStatement(children[1])
	a.popLoop()
	a.store.ExitScope()

	condTemp := a.gen.NewTemp()
	stepTemp := a.gen.NewTemp()

	code := append([]string{}, arr.Code...)
	code = append(code, fmt.Sprintf("%s = 0", idx))
	code = append(code, lstart+":")
	code = append(code, fmt.Sprintf("%s = %s < len(%s)", condTemp, idx, arr.Place))
	code = append(code, fmt.Sprintf("ifFalse %s goto %s", condTemp, lend))
	code = append(code, fmt.Sprintf("%s = %s[%s]", varName, arr.Place, idx))
	code = append(code, body.Code...)
	code = append(code, lcontinue+":")
	code = append(code, fmt.Sprintf("%s = %s + 1", stepTemp, idx))
	code = append(code, fmt.Sprintf("%s = %s", idx, stepTemp))
	code = append(code, fmt.Sprintf("goto %s", lstart))
	code = append(code, lend+":")
	return codegen.StatementFragment(code)
}

func (a *Analyzer) visitBreakStatement(node parsetree.Node) codegen.Fragment {
	loop, ok := a.currentLoop()
	if !ok {
		a.diags.Add(node.Line(), "'break' used outside of loop")
		return codegen.StatementFragment(nil)
	}
	return codegen.StatementFragment([]string{fmt.Sprintf("goto %s", loop.breakLabel)})
}

func (a *Analyzer) visitContinueStatement(node parsetree.Node) codegen.Fragment {
	loop, ok := a.currentLoop()
	if !ok {
		a.diags.Add(node.Line(), "'continue' used outside of loop")
		return codegen.StatementFragment(nil)
	}
	return codegen.StatementFragment([]string{fmt.Sprintf("goto %s", loop.continueLabel)})
}
