// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package features

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrNotFitted is returned by Transform before Fit has run.
	ErrNotFitted = errors.New("categorical encoder has not been fitted")

	// ErrAlreadyFitted is returned by a second call to Fit.
	ErrAlreadyFitted = errors.New("categorical encoder is already fitted")
)

// RowWidthError reports a transform row whose length differs from the
// number of columns the encoder was fitted on.
type RowWidthError struct {
	Expected int
	Actual   int
}

func (e *RowWidthError) Error() string {
	return fmt.Sprintf("row has %d categorical columns, encoder was fitted on %d", e.Actual, e.Expected)
}

// CategoricalEncoder is a one-hot encoder over a fixed, ordered set of
// categorical columns.
//
// Categories are learned once by Fit and are sorted per column, so the
// output layout is a pure function of the training data. Values unseen
// during Fit encode to an all-zero block for that column. The empty string
// is an ordinary category and is how absent values are represented.
//
// Fields are exported for gob persistence; treat a fitted encoder as
// read-only.
type CategoricalEncoder struct {
	Columns    []string
	Categories [][]string
	Fitted     bool
}

// NewCategoricalEncoder returns an unfitted encoder.
func NewCategoricalEncoder() *CategoricalEncoder {
	return &CategoricalEncoder{}
}

// Fit learns the category set of each column. rows[i][j] is the value of
// columns[j] for sample i. Fit may only be called once.
func (e *CategoricalEncoder) Fit(columns []string, rows [][]string) error {
	if e.Fitted {
		return ErrAlreadyFitted
	}

	seen := make([]map[string]struct{}, len(columns))
	for j := range columns {
		seen[j] = make(map[string]struct{})
	}

	for i, row := range rows {
		if len(row) != len(columns) {
			return fmt.Errorf("fit row %d: %w", i, &RowWidthError{Expected: len(columns), Actual: len(row)})
		}
		for j, v := range row {
			seen[j][v] = struct{}{}
		}
	}

	categories := make([][]string, len(columns))
	for j := range columns {
		cats := make([]string, 0, len(seen[j]))
		for v := range seen[j] {
			cats = append(cats, v)
		}
		sort.Strings(cats)
		categories[j] = cats
	}

	e.Columns = append([]string(nil), columns...)
	e.Categories = categories
	e.Fitted = true
	return nil
}

// FitCategories fits the encoder from explicit category lists instead of
// sample rows. Used when the categories come from a model definition.
func (e *CategoricalEncoder) FitCategories(columns []string, categories [][]string) error {
	if e.Fitted {
		return ErrAlreadyFitted
	}
	if len(columns) != len(categories) {
		return &RowWidthError{Expected: len(columns), Actual: len(categories)}
	}

	cats := make([][]string, len(categories))
	for j, list := range categories {
		dedup := make(map[string]struct{}, len(list))
		for _, v := range list {
			dedup[v] = struct{}{}
		}
		sorted := make([]string, 0, len(dedup))
		for v := range dedup {
			sorted = append(sorted, v)
		}
		sort.Strings(sorted)
		cats[j] = sorted
	}

	e.Columns = append([]string(nil), columns...)
	e.Categories = cats
	e.Fitted = true
	return nil
}

// Width is the number of output columns Transform produces.
func (e *CategoricalEncoder) Width() int {
	w := 0
	for _, cats := range e.Categories {
		w += len(cats)
	}
	return w
}

// Transform appends the one-hot encoding of row to dst and returns the
// extended slice. row must be aligned with the fitted Columns.
func (e *CategoricalEncoder) Transform(dst []float64, row []string) ([]float64, error) {
	if !e.Fitted {
		return dst, ErrNotFitted
	}
	if len(row) != len(e.Columns) {
		return dst, &RowWidthError{Expected: len(e.Columns), Actual: len(row)}
	}

	for j, v := range row {
		cats := e.Categories[j]
		hit := sort.SearchStrings(cats, v)
		for k := range cats {
			if k == hit && cats[k] == v {
				dst = append(dst, 1.0)
			} else {
				dst = append(dst, 0.0)
			}
		}
	}
	return dst, nil
}

// FeatureNames returns the output column names in Transform order,
// formatted as column=category.
func (e *CategoricalEncoder) FeatureNames() []string {
	names := make([]string, 0, e.Width())
	for j, col := range e.Columns {
		for _, cat := range e.Categories[j] {
			names = append(names, col+"="+cat)
		}
	}
	return names
}
