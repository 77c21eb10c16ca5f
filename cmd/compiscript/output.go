package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/compiscript-lang/compiscript/internal/config"
	"github.com/compiscript-lang/compiscript/internal/driver"
)

// errAnalysisFailed signals a non-zero exit without printing its own
// message — the diagnostics already reported to stderr are the message.
var errAnalysisFailed = errors.New("analysis reported errors")

type jsonReport struct {
	RunID            string                       `json:"runId"`
	SyntaxErrors     []string                     `json:"syntaxErrors"`
	SemanticErrors   []string                     `json:"semanticErrors"`
	IntermediateCode []string                     `json:"intermediateCode"`
	SymbolTable      map[string]driver.SymbolInfo `json:"symbolTable,omitempty"`
}

func renderJSON(w io.Writer, cfg config.Config, result driver.Result) error {
	report := jsonReport{
		RunID:            result.RunID,
		SyntaxErrors:     result.SyntaxErrors,
		SemanticErrors:   result.SemanticErrors,
		IntermediateCode: result.IntermediateCode,
	}
	if cfg.PrintSymbolTable {
		report.SymbolTable = result.SymbolTable
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func renderText(w io.Writer, cfg config.Config, result driver.Result) {
	for _, line := range result.IntermediateCode {
		fmt.Fprintln(w, line)
	}
	if !cfg.PrintSymbolTable {
		return
	}

	names := make([]string, 0, len(result.SymbolTable))
	for name := range result.SymbolTable {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "--- symbol table ---")
	for _, name := range names {
		sym := result.SymbolTable[name]
		kind := "var"
		if sym.Constant {
			kind = "const"
		}
		fmt.Fprintf(w, "%s %s: %s\n", kind, name, sym.Type)
	}
}
