package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/compiscript-lang/compiscript/internal/config"
	"github.com/compiscript-lang/compiscript/internal/driver"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		format           string
		printSymbolTable bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Parse and semantically analyze a Compiscript source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("format") {
				cfg.Format = format
			}
			if cmd.Flags().Changed("print-symbol-table") {
				cfg.PrintSymbolTable = printSymbolTable
			}

			source, filename, err := readSource(args[0])
			if err != nil {
				return err
			}

			result, err := driver.New(cfg).Analyze(source, filename)
			if err != nil {
				return err
			}

			return render(cmd, cfg, result)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", `output format: "text" or "json" (overrides config)`)
	cmd.Flags().BoolVar(&printSymbolTable, "print-symbol-table", false, "also print the resolved symbol table")
	return cmd
}

func readSource(path string) (source, filename string, err error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), path, nil
}

// render prints diagnostics to stderr and the analysis report to stdout,
// truncating diagnostics per cfg.MaxDiagnostics when it is positive.
func render(cmd *cobra.Command, cfg config.Config, result driver.Result) error {
	diags := append(append([]string{}, result.SyntaxErrors...), result.SemanticErrors...)
	shown := truncate(diags, cfg.MaxDiagnostics)

	for _, e := range shown {
		fmt.Fprintln(cmd.ErrOrStderr(), e)
	}
	if dropped := len(diags) - len(shown); dropped > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "... and %d more diagnostic(s)\n", dropped)
	}

	switch cfg.Format {
	case "json":
		if err := renderJSON(cmd.OutOrStdout(), cfg, result); err != nil {
			return err
		}
	default:
		renderText(cmd.OutOrStdout(), cfg, result)
	}

	if len(result.SyntaxErrors) > 0 || len(result.SemanticErrors) > 0 {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		return errAnalysisFailed
	}
	return nil
}

func truncate(diags []string, max int) []string {
	if max <= 0 || len(diags) <= max {
		return diags
	}
	return diags[:max]
}
