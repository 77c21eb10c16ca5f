package semantic_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compiscript-lang/compiscript/internal/lexer"
	"github.com/compiscript-lang/compiscript/internal/parser"
	"github.com/compiscript-lang/compiscript/internal/parsetree"
	"github.com/compiscript-lang/compiscript/internal/semantic"
)

func analyze(t *testing.T, source string) (*semantic.Analyzer, []string) {
	t.Helper()
	p := parser.New(lexer.New(source, "test.csc"))
	program, parseErrs := p.ParseProgram()
	require.Empty(t, parseErrs, "unexpected parse errors: %v", parseErrs)

	a := semantic.New()
	code := a.Analyze(program)
	return a, code
}

func diagStrings(a *semantic.Analyzer) []string {
	out := make([]string, 0, len(a.Diagnostics()))
	for _, d := range a.Diagnostics() {
		out = append(out, d.Message)
	}
	return out
}

func TestAnalyzer_S1_DeclarationAndArithmetic(t *testing.T) {
	a, code := analyze(t, `var x: integer = 1 + 2 * 3;`)
	require.Empty(t, a.Diagnostics())
	assert.Equal(t, []string{
		"t1 = 2 * 3",
		"t2 = 1 + t1",
		"x = t2",
	}, code)

	sym := a.Symbols()["x"]
	require.NotNil(t, sym)
	assert.Equal(t, "integer", sym.Type.String())
	assert.False(t, sym.Constant)
}

func TestAnalyzer_S2_TypeMismatch(t *testing.T) {
	a, _ := analyze(t, `var x: integer = "hi";`)
	require.Len(t, a.Diagnostics(), 1)
	assert.Contains(t, a.Diagnostics()[0].Message, "Type error: variable 'x' declared as integer but initialized with string")

	sym := a.Symbols()["x"]
	require.NotNil(t, sym)
	assert.Equal(t, "integer", sym.Type.String())
}

func TestAnalyzer_S3_WhileLoop(t *testing.T) {
	a, code := analyze(t, `var i: integer = 0; while (i < 10) { i = i + 1; }`)
	require.Empty(t, a.Diagnostics())
	assert.Equal(t, []string{
		"i = 0",
		"L1:",
		"t1 = i < 10",
		"ifFalse t1 goto L2",
		"t2 = i + 1",
		"i = t2",
		"goto L1",
		"L2:",
	}, code)
}

func TestAnalyzer_S4_UndeclaredIdentifier(t *testing.T) {
	a, code := analyze(t, `y = 1;`)
	require.Len(t, a.Diagnostics(), 1)
	assert.Equal(t, "Variable 'y' not declared", a.Diagnostics()[0].Message)
	assert.Empty(t, code)
}

func TestAnalyzer_S5_CallWrongArity(t *testing.T) {
	a, _ := analyze(t, `function add(a: integer, b: integer): integer { return a + b; } add(1);`)
	require.Contains(t, diagStrings(a), "Function 'add' expects 2 arguments but got 1")

	sym := a.Symbols()["add"]
	require.NotNil(t, sym)
	require.Len(t, sym.Params, 2)
	assert.Equal(t, "a", sym.Params[0].Name)
	assert.Equal(t, "integer", sym.Params[0].Type.String())
	assert.Equal(t, "b", sym.Params[1].Name)
	assert.Equal(t, "integer", sym.Params[1].Type.String())
	assert.Equal(t, "integer", sym.ReturnType.String())
}

func TestAnalyzer_S6_BreakOutsideLoop(t *testing.T) {
	a, _ := analyze(t, `break;`)
	require.Len(t, a.Diagnostics(), 1)
	assert.Equal(t, "'break' used outside of loop", a.Diagnostics()[0].Message)
}

func TestAnalyzer_S7_BreakInsideLoopEmitsJump(t *testing.T) {
	a, code := analyze(t, `while (true) { break; }`)
	require.Empty(t, a.Diagnostics())
	assert.Contains(t, code, "goto L2")
}

func TestAnalyzer_ContinueOutsideLoop(t *testing.T) {
	a, _ := analyze(t, `continue;`)
	require.Len(t, a.Diagnostics(), 1)
	assert.Equal(t, "'continue' used outside of loop", a.Diagnostics()[0].Message)
}

func TestAnalyzer_DuplicateDeclarationInSameScope(t *testing.T) {
	a, _ := analyze(t, `var x: integer = 1; var x: integer = 2;`)
	require.Contains(t, diagStrings(a), "Identifier 'x' already declared in this scope")
}

func TestAnalyzer_ShadowingAcrossScopesAllowed(t *testing.T) {
	a, _ := analyze(t, `var x: integer = 1; { var x: string = "shadow"; }`)
	assert.Empty(t, a.Diagnostics())
}

func TestAnalyzer_ReassignConstant(t *testing.T) {
	a, _ := analyze(t, `const x: integer = 1; x = 2;`)
	assert.Contains(t, diagStrings(a), "Reassignment to constant 'x' is not allowed")
}

func TestAnalyzer_ArrayLiteralUniformType(t *testing.T) {
	a, code := analyze(t, `var a: integer[] = [1, 2, 3];`)
	require.Empty(t, a.Diagnostics())
	assert.Equal(t, []string{
		"t1 = []",
		"push(t1, 1)",
		"push(t1, 2)",
		"push(t1, 3)",
		"a = t1",
	}, code)

	sym := a.Symbols()["a"]
	require.NotNil(t, sym)
	assert.Equal(t, "integer[]", sym.Type.String())
}

func TestAnalyzer_ArrayLiteralInconsistentTypes(t *testing.T) {
	a, _ := analyze(t, `var a: integer[] = [1, "two"];`)
	assert.Contains(t, diagStrings(a), "array literal has inconsistent element types")
}

func TestAnalyzer_ArrayIndex(t *testing.T) {
	a, code := analyze(t, `var a: integer[] = [1, 2]; var b: integer = a[0];`)
	require.Empty(t, a.Diagnostics())
	assert.Contains(t, code, "t2 = a[0]")
	assert.Contains(t, code, "b = t2")
}

func TestAnalyzer_IndexNonArray(t *testing.T) {
	a, _ := analyze(t, `var x: integer = 1; var y: integer = x[0];`)
	assert.Contains(t, diagStrings(a), "'x' is not an array")
}

func TestAnalyzer_IndexWithNonIntegerIndex(t *testing.T) {
	a, _ := analyze(t, `var a: integer[] = [1]; var b: integer = a["0"];`)
	assert.Contains(t, diagStrings(a), "array index must be an integer, got string")
}

func TestAnalyzer_ForeachDesugaring(t *testing.T) {
	a, code := analyze(t, `var a: integer[] = [1, 2]; foreach (x in a) { var z: integer = x; }`)
	assert.Empty(t, a.Diagnostics())
	assert.Contains(t, code, "t2 = 0")
	assert.Contains(t, code, "goto L1")
}

func TestAnalyzer_ScopeDoesNotLeakForeachVariable(t *testing.T) {
	a, _ := analyze(t, `var a: integer[] = [1]; foreach (x in a) { } var y: integer = x;`)
	assert.Contains(t, diagStrings(a), "Variable 'x' not declared")
}

func TestAnalyzer_UnknownPropagatesWithoutSecondDiagnostic(t *testing.T) {
	a, _ := analyze(t, `var x: integer = y + 1;`)
	require.Len(t, a.Diagnostics(), 1)
	assert.Equal(t, "Variable 'y' not declared", a.Diagnostics()[0].Message)
}

func TestAnalyzer_ParametersVisibleInFunctionBody(t *testing.T) {
	a, _ := analyze(t, `function id(a: integer): integer { return a; }`)
	assert.Empty(t, a.Diagnostics())
}

func TestAnalyzer_ReturnOutsideFunction(t *testing.T) {
	a, _ := analyze(t, `return;`)
	assert.Contains(t, diagStrings(a), "'return' used outside of function")
}

func TestAnalyzer_ReturnTypeMismatch(t *testing.T) {
	a, _ := analyze(t, `function f(): integer { return "hi"; }`)
	assert.Contains(t, diagStrings(a), "type error: return value is string, expected integer")
}

func TestAnalyzer_IfElseEmitsBothBranchLabels(t *testing.T) {
	a, code := analyze(t, `var x: integer = 0; if (x < 1) { x = 1; } else { x = 2; }`)
	require.Empty(t, a.Diagnostics())
	assert.Contains(t, code, "ifFalse t1 goto L1")
	assert.Contains(t, code, "goto L2")
	assert.Contains(t, code, "L1:")
	assert.Contains(t, code, "L2:")
}

func TestAnalyzer_DoWhileChecksConditionAfterBody(t *testing.T) {
	a, code := analyze(t, `var i: integer = 0; do { i = i + 1; } while (i < 3);`)
	require.Empty(t, a.Diagnostics())
	var sawIfTrue bool
	for _, line := range code {
		if strings.HasPrefix(line, "ifTrue ") && strings.HasSuffix(line, "goto L1") {
			sawIfTrue = true
		}
	}
	assert.True(t, sawIfTrue, "expected an ifTrue back-edge in do-while TAC, got %v", code)
}

func TestAnalyzer_ForLoopContinueRunsStepFirst(t *testing.T) {
	_, code := analyze(t, `for (var i: integer = 0; i < 10; i = i + 1) { continue; }`)
	var continueIdx, labelIdx int
	for i, line := range code {
		if line == "goto L2" {
			continueIdx = i
		}
		if line == "L2:" {
			labelIdx = i
		}
	}
	assert.Less(t, continueIdx, labelIdx)
}

func TestAnalyzer_NestedScopeDepthRestoredAfterBlock(t *testing.T) {
	a, _ := analyze(t, `{ var x: integer = 1; { var y: integer = 2; } }`)
	assert.Empty(t, a.Diagnostics())
	assert.NotContains(t, a.Symbols(), "x")
	assert.NotContains(t, a.Symbols(), "y")
}

func TestAnalyzer_TopLevelProgram_ReferencesOnlyFreshTempsAndLabels(t *testing.T) {
	program := parseOnly(t, `var x: integer = 1 + 2; var y: integer = x * 3;`)
	a := semantic.New()
	code := a.Analyze(program)
	require.Empty(t, a.Diagnostics())
	want := []string{
		"t1 = 1 + 2",
		"x = t1",
		"t2 = x * 3",
		"y = t2",
	}
	if diff := cmp.Diff(want, code); diff != "" {
		t.Errorf("intermediate code mismatch (-want +got):\n%s", diff)
	}
}

func parseOnly(t *testing.T, source string) parsetree.Node {
	t.Helper()
	p := parser.New(lexer.New(source, "test.csc"))
	program, errs := p.ParseProgram()
	require.Empty(t, errs)
	return program
}
