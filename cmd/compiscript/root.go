package main

import (
	"github.com/spf13/cobra"
)

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "compiscript",
		Short: "Semantic analyzer and three-address-code generator for Compiscript",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to compiscript.yaml (optional)")
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newVersionCmd())
	return root
}
