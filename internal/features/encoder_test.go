// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package features

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fittedEncoder(t *testing.T) *CategoricalEncoder {
	t.Helper()
	enc := NewCategoricalEncoder()
	err := enc.Fit([]string{"gender", "tier"}, [][]string{
		{"male", "gold"},
		{"female", ""},
		{"", "silver"},
		{"male", "silver"},
	})
	require.NoError(t, err)
	return enc
}

func TestCategoricalEncoder_FitSortsCategories(t *testing.T) {
	t.Parallel()

	enc := fittedEncoder(t)

	assert.Equal(t, []string{"gender", "tier"}, enc.Columns)
	assert.Equal(t, [][]string{{"", "female", "male"}, {"", "gold", "silver"}}, enc.Categories)
	assert.Equal(t, 6, enc.Width())
	assert.Equal(t, []string{
		"gender=", "gender=female", "gender=male",
		"tier=", "tier=gold", "tier=silver",
	}, enc.FeatureNames())
}

func TestCategoricalEncoder_Transform(t *testing.T) {
	t.Parallel()

	enc := fittedEncoder(t)

	tests := []struct {
		name string
		row  []string
		want []float64
	}{
		{name: "known values", row: []string{"female", "gold"}, want: []float64{0, 1, 0, 0, 1, 0}},
		{name: "empty sentinel", row: []string{"", ""}, want: []float64{1, 0, 0, 1, 0, 0}},
		{name: "unknown value encodes to zeros", row: []string{"other", "silver"}, want: []float64{0, 0, 0, 0, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := enc.Transform(nil, tt.row)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoricalEncoder_TransformAppends(t *testing.T) {
	t.Parallel()

	enc := fittedEncoder(t)
	prefix := []float64{7, 8}

	got, err := enc.Transform(prefix, []string{"male", "silver"})
	require.NoError(t, err)
	assert.Equal(t, []float64{7, 8, 0, 0, 1, 0, 0, 1}, got)
}

func TestCategoricalEncoder_Errors(t *testing.T) {
	t.Parallel()

	t.Run("transform before fit", func(t *testing.T) {
		t.Parallel()
		_, err := NewCategoricalEncoder().Transform(nil, []string{"x"})
		assert.ErrorIs(t, err, ErrNotFitted)
	})

	t.Run("row width mismatch", func(t *testing.T) {
		t.Parallel()
		_, err := fittedEncoder(t).Transform(nil, []string{"male"})
		var widthErr *RowWidthError
		require.True(t, errors.As(err, &widthErr))
		assert.Equal(t, 2, widthErr.Expected)
		assert.Equal(t, 1, widthErr.Actual)
	})

	t.Run("fit twice", func(t *testing.T) {
		t.Parallel()
		err := fittedEncoder(t).Fit([]string{"a"}, [][]string{{"x"}})
		assert.ErrorIs(t, err, ErrAlreadyFitted)
	})

	t.Run("ragged fit rows", func(t *testing.T) {
		t.Parallel()
		err := NewCategoricalEncoder().Fit([]string{"a", "b"}, [][]string{{"x", "y"}, {"x"}})
		var widthErr *RowWidthError
		assert.True(t, errors.As(err, &widthErr))
	})
}

func TestCategoricalEncoder_ZeroColumns(t *testing.T) {
	t.Parallel()

	enc := NewCategoricalEncoder()
	require.NoError(t, enc.Fit(nil, [][]string{{}, {}}))

	got, err := enc.Transform([]float64{1}, []string{})
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, got)
	assert.Zero(t, enc.Width())
}

func TestCategoricalEncoder_FitCategories(t *testing.T) {
	t.Parallel()

	enc := NewCategoricalEncoder()
	require.NoError(t, enc.FitCategories(
		[]string{"diet"},
		[][]string{{"poor", "balanced", "poor", "vegan"}},
	))

	assert.Equal(t, [][]string{{"balanced", "poor", "vegan"}}, enc.Categories)

	got, err := enc.Transform(nil, []string{"vegan"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 1}, got)
}
