// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package breaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/questwise/internal/metrics"
)

func TestBreaker_OpensAfterFailures(t *testing.T) {
	name := "test-opens"
	b := New(name, DefaultConfig(), nil)

	if got := b.State(); got != "closed" {
		t.Fatalf("initial State() = %q, want closed", got)
	}

	boom := errors.New("simulated failure")
	for i := 0; i < 10; i++ {
		if err := Do(b, func() error { return boom }); !errors.Is(err, boom) {
			t.Fatalf("call %d error = %v, want %v", i, err, boom)
		}
	}

	if got := b.State(); got != "open" {
		t.Fatalf("State() after 10 failures = %q, want open", got)
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues(name)); got != 2 {
		t.Errorf("state gauge = %v, want 2", got)
	}

	called := false
	err := Do(b, func() error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrOpen) {
		t.Errorf("open breaker error = %v, want ErrOpen", err)
	}
	if called {
		t.Error("open breaker ran the call")
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerRequests.WithLabelValues(name, "rejected")); got != 1 {
		t.Errorf("rejected counter = %v, want 1", got)
	}
}

func TestBreaker_StaysClosedBelowMinimum(t *testing.T) {
	b := New("test-minimum", DefaultConfig(), nil)
	for i := 0; i < 9; i++ {
		_ = Do(b, func() error { return errors.New("fail") })
	}
	if got := b.State(); got != "closed" {
		t.Errorf("State() = %q, want closed below the minimum request count", got)
	}
}

func TestBreaker_IsSuccessfulExcludesErrors(t *testing.T) {
	b := New("test-successful", DefaultConfig(), func(err error) bool {
		return err == nil || errors.Is(err, context.Canceled)
	})
	for i := 0; i < 20; i++ {
		_ = Do(b, func() error { return context.Canceled })
	}
	if got := b.State(); got != "closed" {
		t.Errorf("State() = %q, want closed when errors are not failures", got)
	}
}

func TestBreaker_HalfOpenRecovery(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 20 * time.Millisecond
	cfg.MinRequests = 1
	b := New("test-recovery", cfg, nil)

	_ = Do(b, func() error { return errors.New("fail") })
	if got := b.State(); got != "open" {
		t.Fatalf("State() = %q, want open", got)
	}

	time.Sleep(40 * time.Millisecond)
	for i := 0; i < int(cfg.MaxRequests); i++ {
		if err := Do(b, func() error { return nil }); err != nil {
			t.Fatalf("half-open call %d error = %v", i, err)
		}
	}
	if got := b.State(); got != "closed" {
		t.Errorf("State() after successful probes = %q, want closed", got)
	}
}

func TestCall_TypedResult(t *testing.T) {
	t.Parallel()

	b := New("test-call", DefaultConfig(), nil)

	n, err := Call(b, func() (int64, error) { return 42, nil })
	if err != nil || n != 42 {
		t.Errorf("Call() = %d, %v, want 42, nil", n, err)
	}

	type payload struct{ V string }
	p, err := Call(b, func() (*payload, error) { return &payload{V: "ok"}, nil })
	if err != nil || p == nil || p.V != "ok" {
		t.Errorf("Call() = %+v, %v", p, err)
	}

	s, err := Call(b, func() (string, error) { return "", errors.New("nope") })
	if err == nil || s != "" {
		t.Errorf("Call() = %q, %v, want zero value and error", s, err)
	}
}
