package sim

import "context"

// Simulation is what a launcher builds and runs once arguments are stored.
type Simulation interface {
	// Run executes the simulation until completion, failure or cancellation
	// of ctx.
	Run(ctx context.Context) error
}

// SimulationFunc adapts a function to the Simulation interface.
type SimulationFunc func(ctx context.Context) error

// Run calls f(ctx).
func (f SimulationFunc) Run(ctx context.Context) error { return f(ctx) }
