// Package driver orchestrates one end-to-end analysis: parse, walk, and
// assemble the result the CLI (or any other caller) reports.
package driver

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/compiscript-lang/compiscript/internal/config"
	"github.com/compiscript-lang/compiscript/internal/lexer"
	"github.com/compiscript-lang/compiscript/internal/parser"
	"github.com/compiscript-lang/compiscript/internal/semantic"
)

// SymbolInfo is the Driver's flattened view of one global-scope symbol,
// stable across internal symtab representation changes.
type SymbolInfo struct {
	Type     string
	Constant bool
}

// Result is the outcome of one Driver.Analyze call.
type Result struct {
	RunID            string
	SyntaxErrors     []string
	SemanticErrors   []string
	SymbolTable      map[string]SymbolInfo
	IntermediateCode []string
}

// Driver runs the parser and semantic walker over one source text.
//
// DESIGN CHOICE: stateless and reusable across calls — unlike the
// Analyzer, which is single-use per walk, the Driver holds no per-run
// state of its own, so one Driver value can service many Analyze calls
// (e.g. the CLI's `analyze` command constructs one and calls it once, but
// a long-lived service could share it across requests).
type Driver struct {
	cfg config.Config
}

// New returns a Driver configured per cfg. The zero Driver is usable with
// config.Default() semantics.
func New(cfg config.Config) *Driver {
	return &Driver{cfg: cfg}
}

// Analyze parses source, walks the resulting parse tree, and returns the
// combined result. Syntax errors short-circuit the semantic walk — a
// program not worth parsing is not worth analyzing — but are still
// reported alongside an empty semantic result rather than as a Go error.
func (d *Driver) Analyze(source, filename string) (result Result, err error) {
	result.RunID = uuid.New().String()

	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(fmt.Errorf("%v", r), "unexpected error analyzing %s", filename)
			result.SemanticErrors = append(result.SemanticErrors, "internal error: analysis did not complete")
		}
	}()

	p := parser.New(lexer.New(source, filename))
	program, parseErrs := p.ParseProgram()
	for _, e := range parseErrs {
		result.SyntaxErrors = append(result.SyntaxErrors, e.Error())
	}
	if len(parseErrs) > 0 {
		return result, nil
	}

	analyzer := semantic.New()
	result.IntermediateCode = analyzer.Analyze(program)

	for _, d := range analyzer.Diagnostics() {
		result.SemanticErrors = append(result.SemanticErrors, d.String())
	}
	result.SymbolTable = make(map[string]SymbolInfo)
	for name, sym := range analyzer.Symbols() {
		result.SymbolTable[name] = SymbolInfo{
			Type:     sym.Type.String(),
			Constant: sym.Constant,
		}
	}
	return result, nil
}
