// Package diag implements the Error Collector: an ordered list of
// source-line-tagged diagnostics accumulated over one analysis run.
package diag

import "fmt"

// Diagnostic is a single machine-ordered, human-readable message pointing
// at a source line.
type Diagnostic struct {
	Line    int
	Message string
}

// String renders the diagnostic in the surface form used by the driver and
// CLI: "Error at line <L>: <message>".
func (d Diagnostic) String() string {
	return fmt.Sprintf("Error at line %d: %s", d.Line, d.Message)
}

// Collector accumulates diagnostics in insertion order. It never
// de-duplicates and never discards: every Add call is one more reported
// error, matching the "continue after diagnostic" policy of the walker.
//
// DESIGN CHOICE: a thin slice wrapper rather than a channel or shared
// buffer, because one Collector lives for exactly one single-threaded
// analysis run (see the concurrency model: no locks, no sharing).
type Collector struct {
	diagnostics []Diagnostic
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add records a diagnostic at the given line.
func (c *Collector) Add(line int, format string, args ...interface{}) {
	c.diagnostics = append(c.diagnostics, Diagnostic{
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	})
}

// Diagnostics returns the accumulated diagnostics in insertion order.
func (c *Collector) Diagnostics() []Diagnostic {
	return c.diagnostics
}

// Empty reports whether no diagnostic has been recorded.
func (c *Collector) Empty() bool {
	return len(c.diagnostics) == 0
}

// Strings renders every diagnostic via String, in insertion order.
func (c *Collector) Strings() []string {
	out := make([]string, len(c.diagnostics))
	for i, d := range c.diagnostics {
		out[i] = d.String()
	}
	return out
}
