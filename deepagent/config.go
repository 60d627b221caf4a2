package deepagent

import "time"

// Config holds the tunables for a session tree.
type Config struct {
	// MaxIterations caps oracle calls per session, independent of recursion
	// depth. Exceeding it fails with a RecursionLimitError.
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`

	// MaxDepth caps sub-agent nesting across the whole tree. The top-level
	// session runs at depth 0.
	MaxDepth int `json:"max_depth" yaml:"max_depth"`

	// ParallelActions allows a batch with no interrupt-gated and no spawn
	// actions to be dispatched concurrently. Results are still appended to
	// the transcript in request order.
	ParallelActions bool `json:"parallel_actions" yaml:"parallel_actions"`

	// Model names the oracle model for this session; empty uses the
	// oracle's default. Sub-agent specs may override it per child.
	Model string `json:"model,omitempty" yaml:"model"`

	// OracleTimeout bounds each individual oracle call; 0 means no bound.
	// A timeout surfaces as an oracle error, not a core-level concept.
	OracleTimeout time.Duration `json:"oracle_timeout,omitempty" yaml:"oracle_timeout"`

	// Interrupts maps action names to interrupt policies. Actions without
	// an entry proceed unattended.
	Interrupts PolicyTable `json:"interrupts,omitempty" yaml:"interrupts"`
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		MaxIterations:   100,
		MaxDepth:        3,
		ParallelActions: true,
	}
}
