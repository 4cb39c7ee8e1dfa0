package tasks

import "time"

// Config holds configuration for the task queue system.
type Config struct {
	// Workers is the number of concurrent task workers. Default: 2
	Workers int

	// ReleaseAfter is when stuck tasks are released back to queue. Default: 15m
	ReleaseAfter time.Duration

	// CleanupInterval is how often to clean up completed tasks. Default: 1h
	CleanupInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:         2,
		ReleaseAfter:    15 * time.Minute,
		CleanupInterval: 1 * time.Hour,
	}
}

// FromSettings builds a Config from the TASK_* settings, keeping defaults
// for anything unset.
func FromSettings(workers int, releaseAfter, cleanupInterval time.Duration) Config {
	cfg := DefaultConfig()
	if workers > 0 {
		cfg.Workers = workers
	}
	if releaseAfter > 0 {
		cfg.ReleaseAfter = releaseAfter
	}
	if cleanupInterval > 0 {
		cfg.CleanupInterval = cleanupInterval
	}
	return cfg
}
