// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package insurance

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/tomtom215/questwise/internal/features"
)

//go:embed default_model.yaml
var defaultModelYAML []byte

// modelFile is the on-disk layout of a cost model.
type modelFile struct {
	Version     string                        `yaml:"version"`
	Intercept   float64                       `yaml:"intercept"`
	MinCost     float64                       `yaml:"min_cost"`
	Numeric     map[string]float64            `yaml:"numeric"`
	Categorical map[string]map[string]float64 `yaml:"categorical"`
}

// CostModel is a linear cost predictor over Applicant fields.
//
// Numeric fields are weighted directly. Categorical fields are one-hot
// encoded with a CategoricalEncoder fitted from the model's category
// lists, so a category the model does not know contributes nothing.
type CostModel struct {
	Version   string
	Intercept float64
	MinCost   float64

	numericNames   []string
	numericWeights []float64
	encoder        *features.CategoricalEncoder
	oneHotWeights  []float64
}

// DefaultCostModel returns the compiled-in model.
func DefaultCostModel() (*CostModel, error) {
	return ParseCostModel(defaultModelYAML)
}

// LoadCostModel reads a model from path, or the compiled-in model when
// path is empty.
func LoadCostModel(path string) (*CostModel, error) {
	if path == "" {
		return DefaultCostModel()
	}
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("read cost model: %w", err)
	}
	m, err := ParseCostModel(data)
	if err != nil {
		return nil, fmt.Errorf("cost model %s: %w", path, err)
	}
	return m, nil
}

// ParseCostModel decodes a YAML cost model. Unknown keys and feature
// names are rejected.
func ParseCostModel(data []byte) (*CostModel, error) {
	var f modelFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode cost model: %w", err)
	}
	return newCostModel(&f)
}

func newCostModel(f *modelFile) (*CostModel, error) {
	if f.MinCost < 0 {
		return nil, errors.New("min_cost must not be negative")
	}

	m := &CostModel{
		Version:   f.Version,
		Intercept: f.Intercept,
		MinCost:   f.MinCost,
		encoder:   features.NewCategoricalEncoder(),
	}

	for _, name := range sortedNames(f.Numeric) {
		if !slices.Contains(NumericFeatures, name) {
			return nil, fmt.Errorf("unknown numeric feature %q", name)
		}
		m.numericNames = append(m.numericNames, name)
		m.numericWeights = append(m.numericWeights, f.Numeric[name])
	}

	columns := sortedNames(f.Categorical)
	categories := make([][]string, len(columns))
	for j, col := range columns {
		if !slices.Contains(CategoricalFeatures, col) {
			return nil, fmt.Errorf("unknown categorical feature %q", col)
		}
		if len(f.Categorical[col]) == 0 {
			return nil, fmt.Errorf("categorical feature %q has no categories", col)
		}
		categories[j] = sortedNames(f.Categorical[col])
	}
	if err := m.encoder.FitCategories(columns, categories); err != nil {
		return nil, fmt.Errorf("fit category encoder: %w", err)
	}

	// Encoder output is column-major with sorted categories, matching the
	// order the weights are laid out here.
	m.oneHotWeights = make([]float64, 0, m.encoder.Width())
	for j, col := range columns {
		for _, cat := range m.encoder.Categories[j] {
			m.oneHotWeights = append(m.oneHotWeights, f.Categorical[col][cat])
		}
	}
	return m, nil
}

// Predict returns the predicted annual cost for a.
func (m *CostModel) Predict(a *Applicant) (float64, error) {
	cost := m.Intercept
	for i, name := range m.numericNames {
		v, _ := a.numeric(name)
		cost += m.numericWeights[i] * v
	}

	row := make([]string, len(m.encoder.Columns))
	for j, col := range m.encoder.Columns {
		row[j], _ = a.categorical(col)
	}
	oneHot, err := m.encoder.Transform(make([]float64, 0, len(m.oneHotWeights)), row)
	if err != nil {
		return 0, fmt.Errorf("encode applicant: %w", err)
	}
	for i, v := range oneHot {
		cost += m.oneHotWeights[i] * v
	}

	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		return 0, fmt.Errorf("cost model produced %v", cost)
	}
	return math.Max(cost, m.MinCost), nil
}

// FeatureNames lists the model inputs in evaluation order.
func (m *CostModel) FeatureNames() []string {
	names := slices.Clone(m.numericNames)
	return append(names, m.encoder.FeatureNames()...)
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
