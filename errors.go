package hydrogrid

import "errors"

var (
	// ErrInvalidProbability is returned when rain probabilities are out of [0,1] or do not sum to 1.
	ErrInvalidProbability = errors.New("invalid rain probability")
	// ErrInsufficientCapacity is returned when all units together cannot reach minimum generation.
	ErrInsufficientCapacity = errors.New("insufficient capacity")
	// ErrInvalidBand is returned for a unit type whose water band or capacity is malformed.
	ErrInvalidBand = errors.New("invalid unit band")
	// ErrInvalidCount is returned for negative unit counts or an empty inventory.
	ErrInvalidCount = errors.New("invalid unit count")
	// ErrInvalidGeneration is returned when the generation band is malformed.
	ErrInvalidGeneration = errors.New("invalid generation band")
	// ErrInvalidSimulation is returned for a non-positive tick, negative consumption or negative retries.
	ErrInvalidSimulation = errors.New("invalid simulation settings")
)
