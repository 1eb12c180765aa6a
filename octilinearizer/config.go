package octilinearizer

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/lolpro11-org/loom/gridgraph"
)

// Config holds every tunable the outer scheduler (spec.md §4.5) and its
// GridGraph recognize, matching the "Configuration recognized by the
// scheduler" list in spec.md §6.
type Config struct {
	GridSize  float64
	BorderRad int
	Penalties gridgraph.Penalties

	// Retries is the number of additional randomized-ordering attempts
	// beyond the initial one (spec.md §4.5, default 10).
	Retries int
	// Iters is the maximum number of node-relocation sweeps (default 100).
	Iters int
	// ConvergenceEps is the minimum per-sweep improvement below which the
	// relocation loop stops (default 0.05).
	ConvergenceEps float64
	// Seed drives every random ordering and relocation choice; the same
	// seed must reproduce byte-identical Drawings (spec.md §4.5, §8).
	Seed int64
	// Workers bounds how many randomized-retry attempts run concurrently.
	// Default 1 (sequential), matching the original's observed
	// `cores = 1` (spec.md §9, open question).
	Workers int
}

// DefaultConfig returns the spec.md §6 defaults, with DefaultPenalties for
// the cost model.
func DefaultConfig() Config {
	return Config{
		GridSize:       100,
		BorderRad:      2,
		Penalties:      gridgraph.DefaultPenalties(),
		Retries:        10,
		Iters:          100,
		ConvergenceEps: 0.05,
		Seed:           1,
		Workers:        1,
	}
}

// Validate aggregates every configuration error via multierr (spec.md §7
// class 4, "fatal before any work begins"), matching the teacher's own
// CLI option validation style.
func (c Config) Validate() error {
	var err error
	if c.GridSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("octilinearizer: gridSize must be > 0, got %v", c.GridSize))
	}
	if c.BorderRad < 0 {
		err = multierr.Append(err, fmt.Errorf("octilinearizer: borderRad must be >= 0, got %d", c.BorderRad))
	}
	if c.Retries < 0 {
		err = multierr.Append(err, fmt.Errorf("octilinearizer: retries must be >= 0, got %d", c.Retries))
	}
	if c.Iters < 0 {
		err = multierr.Append(err, fmt.Errorf("octilinearizer: iters must be >= 0, got %d", c.Iters))
	}
	if c.ConvergenceEps <= 0 {
		err = multierr.Append(err, fmt.Errorf("octilinearizer: convergenceEps must be > 0, got %v", c.ConvergenceEps))
	}
	if c.Workers < 1 {
		err = multierr.Append(err, fmt.Errorf("octilinearizer: workers must be >= 1, got %d", c.Workers))
	}
	if perr := c.Penalties.Validate(); perr != nil {
		err = multierr.Append(err, perr)
	}
	return err
}
