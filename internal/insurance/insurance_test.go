// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package insurance

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// healthyApplicant costs 14830 under the default model.
func healthyApplicant() *Applicant {
	return &Applicant{
		Age:                30,
		BMI:                22,
		Smoker:             false,
		ExerciseFrequency:  4,
		Diet:               "healthy",
		AlcoholConsumption: 1,
		SleepQuality:       8,
		BloodPressure:      "normal",
		Cholesterol:        "normal",
		Diabetes:           false,
		Gender:             "female",
		Region:             "northwest",
		DrivingHabits:      "safe",
		SafetyDeviceUsage:  true,
	}
}

func TestDefaultCostModel_Predict(t *testing.T) {
	t.Parallel()

	model, err := DefaultCostModel()
	require.NoError(t, err)

	cost, err := model.Predict(healthyApplicant())
	require.NoError(t, err)
	assert.InDelta(t, 14830.0, cost, 1e-9)

	smoker := healthyApplicant()
	smoker.Smoker = true
	smoker.DrivingHabits = "risky"
	cost, err = model.Predict(smoker)
	require.NoError(t, err)
	assert.InDelta(t, 14830.0+18000+2200, cost, 1e-9)
}

func TestCostModel_UnknownCategoryContributesNothing(t *testing.T) {
	t.Parallel()

	model, err := DefaultCostModel()
	require.NoError(t, err)

	known := healthyApplicant()
	known.Region = "northeast"
	unknown := healthyApplicant()
	unknown.Region = "atlantis"

	knownCost, err := model.Predict(known)
	require.NoError(t, err)
	unknownCost, err := model.Predict(unknown)
	require.NoError(t, err)

	assert.InDelta(t, 14830.0+400, knownCost, 1e-9)
	assert.InDelta(t, 14830.0, unknownCost, 1e-9)
}

func TestCostModel_FloorsAtMinCost(t *testing.T) {
	t.Parallel()

	model, err := ParseCostModel([]byte(`
version: test
intercept: -5000
min_cost: 250
numeric:
  age: 10
`))
	require.NoError(t, err)

	cost, err := model.Predict(healthyApplicant())
	require.NoError(t, err)
	assert.InDelta(t, 250.0, cost, 1e-9)
	assert.Equal(t, []string{"age"}, model.FeatureNames())
}

func TestCostModel_FeatureNamesOrder(t *testing.T) {
	t.Parallel()

	model, err := ParseCostModel([]byte(`
intercept: 0
numeric:
  smoker: 1
  age: 1
categorical:
  region: {south: 1, north: 2}
  diet: {poor: 1}
`))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"age", "smoker",
		"diet=poor", "region=north", "region=south",
	}, model.FeatureNames())

	a := healthyApplicant()
	a.Region = "north"
	a.Diet = "poor"
	cost, err := model.Predict(a)
	require.NoError(t, err)
	assert.InDelta(t, 30.0+0+1+2, cost, 1e-9)
}

func TestParseCostModel_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{name: "unknown numeric feature", yaml: "numeric: {height: 1}", wantErr: `unknown numeric feature "height"`},
		{name: "unknown categorical feature", yaml: "categorical: {eye_color: {blue: 1}}", wantErr: `unknown categorical feature "eye_color"`},
		{name: "empty category list", yaml: "categorical: {diet: {}}", wantErr: `categorical feature "diet" has no categories`},
		{name: "negative min cost", yaml: "min_cost: -1", wantErr: "min_cost must not be negative"},
		{name: "unknown top-level key", yaml: "interceptt: 5", wantErr: "decode cost model"},
		{name: "malformed yaml", yaml: "numeric: [", wantErr: "decode cost model"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseCostModel([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadCostModel(t *testing.T) {
	t.Parallel()

	t.Run("empty path uses builtin", func(t *testing.T) {
		t.Parallel()
		model, err := LoadCostModel("")
		require.NoError(t, err)
		assert.Equal(t, "builtin-2026.1", model.Version)
	})

	t.Run("file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "model.yaml")
		require.NoError(t, os.WriteFile(path, []byte("version: custom\nintercept: 1234\n"), 0o600))

		model, err := LoadCostModel(path)
		require.NoError(t, err)
		assert.Equal(t, "custom", model.Version)

		cost, err := model.Predict(healthyApplicant())
		require.NoError(t, err)
		assert.InDelta(t, 1234.0, cost, 1e-9)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadCostModel(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestEligibilityRule_DefaultThresholdIsStrict(t *testing.T) {
	t.Parallel()

	rule, err := NewEligibilityRule("")
	require.NoError(t, err)
	assert.Equal(t, DefaultEligibilityRule, rule.Expression())

	ok, err := rule.Eval(healthyApplicant(), 19999, DefaultCostThreshold)
	require.NoError(t, err)
	assert.True(t, ok, "19999 should be eligible")

	ok, err = rule.Eval(healthyApplicant(), 20000, DefaultCostThreshold)
	require.NoError(t, err)
	assert.False(t, ok, "20000 should not be eligible")
}

func TestEligibilityRule_EachConditionIsRequired(t *testing.T) {
	t.Parallel()

	rule, err := NewEligibilityRule("")
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(a *Applicant)
	}{
		{name: "exercise below 3", mutate: func(a *Applicant) { a.ExerciseFrequency = 2 }},
		{name: "alcohol above 2", mutate: func(a *Applicant) { a.AlcoholConsumption = 3 }},
		{name: "sleep below 7", mutate: func(a *Applicant) { a.SleepQuality = 6 }},
		{name: "blood pressure", mutate: func(a *Applicant) { a.BloodPressure = "high" }},
		{name: "cholesterol", mutate: func(a *Applicant) { a.Cholesterol = "borderline" }},
		{name: "diabetes", mutate: func(a *Applicant) { a.Diabetes = true }},
		{name: "driving habits", mutate: func(a *Applicant) { a.DrivingHabits = "moderate" }},
		{name: "no safety device", mutate: func(a *Applicant) { a.SafetyDeviceUsage = false }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := healthyApplicant()
			tt.mutate(a)
			ok, err := rule.Eval(a, 10000, DefaultCostThreshold)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestNewEligibilityRule_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		expr    string
		wantErr string
	}{
		{name: "non-bool result", expr: "predicted_cost + 1.0", wantErr: "must return bool"},
		{name: "unknown variable", expr: "income > 5", wantErr: "failed to compile"},
		{name: "type error", expr: `age == "thirty"`, wantErr: "failed to compile"},
		{name: "syntax error", expr: "age >=", wantErr: "failed to compile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewEligibilityRule(tt.expr)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEligibilityRule_Custom(t *testing.T) {
	t.Parallel()

	rule, err := NewEligibilityRule(`!smoker && bmi < 25.0 && region in ["northwest", "northeast"]`)
	require.NoError(t, err)

	ok, err := rule.Eval(healthyApplicant(), 99999, DefaultCostThreshold)
	require.NoError(t, err)
	assert.True(t, ok)

	a := healthyApplicant()
	a.Region = "southeast"
	ok, err = rule.Eval(a, 0, DefaultCostThreshold)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScorer_Predict(t *testing.T) {
	t.Parallel()

	model, err := DefaultCostModel()
	require.NoError(t, err)
	rule, err := NewEligibilityRule("")
	require.NoError(t, err)

	t.Run("eligible", func(t *testing.T) {
		t.Parallel()
		s := NewScorer(model, rule, 0, zerolog.Nop())
		assert.InDelta(t, DefaultCostThreshold, s.Threshold(), 0)

		p, err := s.Predict(healthyApplicant())
		require.NoError(t, err)
		assert.InDelta(t, 14830.0, p.PredictedCost, 1e-9)
		assert.True(t, p.Eligible)
		assert.Equal(t, EligibleMessage, p.RewardEligibility)
	})

	t.Run("lower threshold", func(t *testing.T) {
		t.Parallel()
		s := NewScorer(model, rule, 14830, zerolog.Nop())

		p, err := s.Predict(healthyApplicant())
		require.NoError(t, err)
		assert.False(t, p.Eligible)
		assert.Equal(t, NotEligibleMessage, p.RewardEligibility)
	})

	t.Run("unhealthy", func(t *testing.T) {
		t.Parallel()
		s := NewScorer(model, rule, 0, zerolog.Nop())
		a := healthyApplicant()
		a.Smoker = true

		p, err := s.Predict(a)
		require.NoError(t, err)
		assert.InDelta(t, 32830.0, p.PredictedCost, 1e-9)
		assert.Equal(t, NotEligibleMessage, p.RewardEligibility)
	})
}
