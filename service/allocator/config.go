package allocator

import "time"

// Config represents allocator service configuration
type Config struct {
	MinGeneration float64
	MaxGeneration float64
	// Retries is the number of extra passes allowed while below MinGeneration.
	Retries int
	// RetryDelay is the wait between passes.
	RetryDelay time.Duration
}

// DefaultConfig returns the default allocator configuration
func DefaultConfig() Config {
	return Config{
		MinGeneration: 100,
		MaxGeneration: 150,
		Retries:       3,
		RetryDelay:    time.Second,
	}
}
