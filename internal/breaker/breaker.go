// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package breaker wraps sony/gobreaker with the logging and Prometheus
// instrumentation shared by every outbound dependency (artifact stores,
// the ML service client).
package breaker

import (
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/questwise/internal/logging"
	"github.com/tomtom215/questwise/internal/metrics"
)

// ErrOpen is returned when the breaker rejects a call.
var ErrOpen = errors.New("circuit breaker open")

// Config controls when a breaker trips and recovers.
type Config struct {
	// MaxRequests is the number of trial calls allowed while half-open.
	MaxRequests uint32
	// Interval resets the closed-state counts.
	Interval time.Duration
	// Timeout is how long the breaker stays open.
	Timeout time.Duration
	// MinRequests is the sample size required before tripping.
	MinRequests uint32
	// FailureRatio trips the breaker once reached.
	FailureRatio float64
}

// DefaultConfig opens after a 60% failure rate over at least 10 calls and
// probes again after two minutes.
func DefaultConfig() Config {
	return Config{
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      2 * time.Minute,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// Breaker is a named circuit breaker.
type Breaker struct {
	cb   *gobreaker.CircuitBreaker[any]
	name string
}

// New creates a breaker. isSuccessful decides which errors do not count as
// failures; nil counts every error.
func New(name string, cfg Config, isSuccessful func(error) bool) *Breaker {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			trip := ratio >= cfg.FailureRatio
			if trip {
				logging.Warn().Str("breaker", name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return trip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
		IsSuccessful: isSuccessful,
	}

	return &Breaker{cb: gobreaker.NewCircuitBreaker[any](settings), name: name}
}

// Name returns the breaker name.
func (b *Breaker) Name() string { return b.name }

// State returns closed, half-open or open.
func (b *Breaker) State() string { return stateToString(b.cb.State()) }

func (b *Breaker) execute(fn func() (any, error)) (any, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			logging.Warn().Str("breaker", b.name).Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, fmt.Errorf("%s: %w: %w", b.name, ErrOpen, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		counts := b.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(counts.ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	return result, nil
}

// Call runs fn through the breaker and returns its typed result.
func Call[R any](b *Breaker, fn func() (R, error)) (R, error) {
	var zero R
	result, err := b.execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	typed, ok := result.(R)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// Do runs fn through the breaker.
func Do(b *Breaker, fn func() error) error {
	_, err := b.execute(func() (any, error) {
		return nil, fn()
	})
	return err
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
