// Command compiscript parses and semantically analyzes Compiscript source
// files, emitting diagnostics and three-address intermediate code.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if err != errAnalysisFailed {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
