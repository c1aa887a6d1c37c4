// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"errors"

	"github.com/tomtom215/questwise/internal/features"
)

// VectorBuilder turns a completed-quest set and a user feature map into
// the positional vector the index was trained on. Schema, Encoder and Dim
// always come from the same Bundle; never assemble a builder from parts
// of different training runs.
type VectorBuilder struct {
	Schema  Schema
	Encoder *features.CategoricalEncoder
	Dim     int
}

// Build lays out the vector as:
//
//	[0, len(QuestIDs))          1.0 if the quest is completed, else 0.0
//	next len(Numerical)         numeric feature value, 0.0 when missing
//	remaining                   encoder output for the categorical features
//
// A result whose length differs from Dim is a FeatureMismatchError.
func (b VectorBuilder) Build(completed QuestSet, userFeatures UserFeatures) ([]float64, error) {
	vec := make([]float64, 0, b.Dim)
	for _, id := range b.Schema.QuestIDs {
		if completed.Has(id) {
			vec = append(vec, 1.0)
		} else {
			vec = append(vec, 0.0)
		}
	}

	vec, err := appendUserFeatures(vec, b.Schema, b.Encoder, userFeatures)
	if err != nil {
		return nil, err
	}

	if len(vec) != b.Dim {
		return nil, &FeatureMismatchError{Expected: b.Dim, Actual: len(vec)}
	}
	return vec, nil
}

// appendUserFeatures appends the numerical and categorical blocks. Training
// rows go through this too, so both sides share one layout.
func appendUserFeatures(dst []float64, schema Schema, enc *features.CategoricalEncoder, userFeatures UserFeatures) ([]float64, error) {
	for _, name := range schema.Numerical {
		v, ok := features.ToFloat64(userFeatures[name])
		if !ok {
			v = 0.0
		}
		dst = append(dst, v)
	}

	if enc == nil {
		return nil, ErrModelNotTrained
	}

	row := make([]string, len(schema.Categorical))
	for i, name := range schema.Categorical {
		// Absent keys and nil values both land on the "" category.
		row[i] = features.ToCategory(userFeatures[name])
	}

	out, err := enc.Transform(dst, row)
	if err != nil {
		if errors.Is(err, features.ErrNotFitted) {
			return nil, ErrModelNotTrained
		}
		return nil, &TransformError{Stage: "categorical transform", Err: err}
	}
	return out, nil
}
