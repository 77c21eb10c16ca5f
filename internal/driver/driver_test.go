package driver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compiscript-lang/compiscript/internal/config"
	"github.com/compiscript-lang/compiscript/internal/driver"
)

func TestDriver_Analyze_WellTypedProgram(t *testing.T) {
	d := driver.New(config.Default())
	result, err := d.Analyze(`var x: integer = 1 + 2 * 3;`, "test.csc")
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Empty(t, result.SyntaxErrors)
	assert.Empty(t, result.SemanticErrors)
	assert.Equal(t, []string{"t1 = 2 * 3", "t2 = 1 + t1", "x = t2"}, result.IntermediateCode)

	sym, ok := result.SymbolTable["x"]
	require.True(t, ok)
	assert.Equal(t, "integer", sym.Type)
	assert.False(t, sym.Constant)
}

func TestDriver_Analyze_SyntaxErrorSkipsSemanticWalk(t *testing.T) {
	d := driver.New(config.Default())
	result, err := d.Analyze(`var x: ;`, "test.csc")
	require.NoError(t, err)

	assert.NotEmpty(t, result.SyntaxErrors)
	assert.Empty(t, result.SemanticErrors)
	assert.Empty(t, result.IntermediateCode)
}

func TestDriver_Analyze_SemanticErrorSurfaced(t *testing.T) {
	d := driver.New(config.Default())
	result, err := d.Analyze(`y = 1;`, "test.csc")
	require.NoError(t, err)

	require.Len(t, result.SemanticErrors, 1)
	assert.Contains(t, result.SemanticErrors[0], "Variable 'y' not declared")
}

func TestDriver_Analyze_RunIDsDifferAcrossCalls(t *testing.T) {
	d := driver.New(config.Default())
	first, err := d.Analyze(`var x: integer = 1;`, "test.csc")
	require.NoError(t, err)
	second, err := d.Analyze(`var x: integer = 1;`, "test.csc")
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.IntermediateCode, second.IntermediateCode)
}
