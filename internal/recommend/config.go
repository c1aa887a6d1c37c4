// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"fmt"
	"time"
)

// Config tunes the training and recommendation pipelines.
type Config struct {
	// MaxNeighbors caps k for the neighbor query. The effective k is
	// min(MaxNeighbors, training sample count).
	MaxNeighbors int

	// TopN is the number of recommendations returned.
	TopN int

	// TrainTimeout bounds one training run, including persistence.
	TrainTimeout time.Duration

	// ParallelThreshold is the sample count above which neighbor queries
	// fan out across goroutines.
	ParallelThreshold int
}

// DefaultConfig returns the defaults used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		MaxNeighbors:      5,
		TopN:              5,
		TrainTimeout:      5 * time.Minute,
		ParallelThreshold: 2048,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.MaxNeighbors < 1 {
		return fmt.Errorf("max_neighbors must be positive, got %d", c.MaxNeighbors)
	}
	if c.TopN < 1 {
		return fmt.Errorf("top_n must be positive, got %d", c.TopN)
	}
	if c.TrainTimeout <= 0 {
		return fmt.Errorf("train_timeout must be positive, got %s", c.TrainTimeout)
	}
	if c.ParallelThreshold < 1 {
		return fmt.Errorf("parallel_threshold must be positive, got %d", c.ParallelThreshold)
	}
	return nil
}
