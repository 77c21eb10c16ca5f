// Package config loads the CLI's runtime configuration: output format,
// whether to print the symbol table alongside the TAC listing, and how
// many diagnostics to show before truncating.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level compiscript.yaml configuration.
type Config struct {
	// Format selects the CLI's output rendering: "text" or "json".
	Format string `yaml:"format,omitempty"`

	// PrintSymbolTable controls whether `analyze` also prints the
	// resolved global symbol table.
	PrintSymbolTable bool `yaml:"print_symbol_table,omitempty"`

	// MaxDiagnostics caps how many diagnostics the CLI prints before
	// truncating the rest with a summary count. Zero means unlimited.
	MaxDiagnostics int `yaml:"max_diagnostics,omitempty"`
}

// Default returns the configuration used when no file is present and no
// flags override it.
func Default() Config {
	return Config{
		Format:           "text",
		PrintSymbolTable: false,
		MaxDiagnostics:   0,
	}
}

// Load reads and parses a YAML config file, filling in defaults for any
// field the file omits. A missing file is not an error: Load returns
// Default() unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown format %q, want \"text\" or \"json\"", c.Format)
	}
	if c.MaxDiagnostics < 0 {
		return fmt.Errorf("max_diagnostics must be >= 0, got %d", c.MaxDiagnostics)
	}
	return nil
}
