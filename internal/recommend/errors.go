// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrModelNotTrained is returned when no artifact bundle has been
	// published yet. Callers must train first.
	ErrModelNotTrained error = &labeledError{msg: "recommendation model has not been trained", label: "not_trained"}

	// ErrNoArtifacts is returned by an ArtifactStore that holds no bundle.
	ErrNoArtifacts = errors.New("no persisted artifacts")
)

type labeledError struct {
	msg   string
	label string
}

func (e *labeledError) Error() string { return e.msg }

// MetricLabel names the error in result metrics.
func (e *labeledError) MetricLabel() string { return e.label }

// InvalidInputError reports malformed or missing request data. It is
// returned to the caller as is and never retried.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// MetricLabel names the error in result metrics.
func (e *InvalidInputError) MetricLabel() string { return "invalid_input" }

// FeatureMismatchError means an inference vector does not have the
// dimensionality of the trained index. The schema drifted; retrain.
type FeatureMismatchError struct {
	Expected int
	Actual   int
}

func (e *FeatureMismatchError) Error() string {
	return fmt.Sprintf("feature vector length %d does not match model dimensionality %d", e.Actual, e.Expected)
}

// MetricLabel names the error in result metrics.
func (e *FeatureMismatchError) MetricLabel() string { return "feature_mismatch" }

// TransformError wraps an encoder or index failure.
type TransformError struct {
	Stage string
	Err   error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// StorageError wraps a failure to persist or load the artifact bundle.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("artifact store %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// MetricLabel names the error in result metrics.
func (e *StorageError) MetricLabel() string { return "storage" }

func invalidInput(field, format string, args ...any) error {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
