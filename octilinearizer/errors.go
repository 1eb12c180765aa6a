package octilinearizer

import "errors"

// Sentinel errors per the taxonomy in spec.md §7. Heuristic.Draw returns
// ErrEmbeddingInfeasible and ErrInvalidConfig; budget-exceeded routing
// failures are handled locally (attempt retry, node-relocation fallback).
// Structural errors are reported earlier, by combgraph.Build, as plain
// errors; nothing in this package returns ErrStructural.
var (
	// ErrEmbeddingInfeasible means no attempt, across the initial try and
	// every randomized retry, found a complete embedding.
	ErrEmbeddingInfeasible = errors.New("octilinearizer: no planar octilinear embedding found at the configured grid size")
	// ErrInvalidConfig means Config.Validate found at least one
	// unacceptable value.
	ErrInvalidConfig = errors.New("octilinearizer: invalid configuration")
	// ErrStructural flags a combinatorial graph the router cannot embed
	// regardless of grid size or retries (e.g. a degenerate self-loop
	// edge; see combgraph.Build).
	ErrStructural = errors.New("octilinearizer: structural error in combinatorial graph")
)
