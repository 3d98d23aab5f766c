package simulator

import "time"

// Config represents simulation driver configuration
type Config struct {
	// Tick is the simulated time step.
	Tick time.Duration
	// Consumption is the water used per tick by an active unit.
	Consumption float64
	// Seed is the base of every per-unit random source.
	Seed uint64
}

// DefaultConfig returns the default simulation configuration
func DefaultConfig() Config {
	return Config{
		Tick:        time.Second,
		Consumption: 5,
	}
}
