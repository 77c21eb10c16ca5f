package semantic

import (
	"fmt"

	"github.com/compiscript-lang/compiscript/internal/codegen"
	"github.com/compiscript-lang/compiscript/internal/parsetree"
	"github.com/compiscript-lang/compiscript/internal/types"
)

// visitArrayLiteral emits t = [] followed by push(t, e.place) for each
// element in order, so that TAC invariant 5 — one t = [] plus exactly n
// push instructions, in input order — holds regardless of whether the
// elements' types turn out to agree.
func (a *Analyzer) visitArrayLiteral(node parsetree.Node) codegen.Fragment {
	temp := a.gen.NewTemp()
	elems := node.Children()

	if len(elems) == 0 {
		return codegen.NewFragment([]string{fmt.Sprintf("%s = []", temp)}, temp, types.NewArray(types.Unknown))
	}

	fragments := make([]codegen.Fragment, len(elems))
	elemType := types.Unknown
	uniform := true
	for i, e := range elems {
		fragments[i] = a.visitExpression(e)
		switch {
		case i == 0:
			elemType = fragments[i].Type
		case !types.Equal(elemType, fragments[i].Type):
			uniform = false
		}
	}

	code := []string{fmt.Sprintf("%s = []", temp)}
	for _, f := range fragments {
		code = append(code, f.Code...)
		code = append(code, fmt.Sprintf("push(%s, %s)", temp, f.Place))
	}

	if !uniform {
		a.diags.Add(node.Line(), "array literal has inconsistent element types")
		return codegen.NewFragment(code, temp, types.NewArray(types.Unknown))
	}
	return codegen.NewFragment(code, temp, types.NewArray(elemType))
}

// visitIndexExpr checks that the base is an array and the index is an
// integer, then emits t = base[index].
func (a *Analyzer) visitIndexExpr(node parsetree.Node) codegen.Fragment {
	children := node.Children()
	base := a.visitExpression(children[0])
	index := a.visitExpression(children[1])

	if !types.IsArray(base.Type) {
		a.diags.Add(node.Line(), "%s is not an array", exprDisplayName(children[0]))
	}
	if !types.IsUnknown(index.Type) && !types.Equal(index.Type, types.Integer) {
		a.diags.Add(node.Line(), "array index must be an integer, got %s", index.Type)
	}

	elemType := types.ElementOf(base.Type)
	temp := a.gen.NewTemp()
	code := append(append([]string{}, base.Code...), index.Code...)
	code = append(code, fmt.Sprintf("%s = %s[%s]", temp, base.Place, index.Place))
	return codegen.NewFragment(code, temp, elemType)
}
