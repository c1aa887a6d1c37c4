// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package insurance

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// DefaultEligibilityRule is the reward predicate used when no rule is
// configured.
const DefaultEligibilityRule = `exercise_frequency >= 3 && alcohol_consumption <= 2 && sleep_quality >= 7 && blood_pressure == "normal" && cholesterol == "normal" && !diabetes && driving_habits == "safe" && safety_device_usage && predicted_cost < cost_threshold`

// DefaultCostThreshold is the default exclusive upper bound on predicted
// cost for reward eligibility.
const DefaultCostThreshold = 20000.0

// EligibilityRule is a compiled CEL predicate over an applicant, the
// predicted cost and the cost threshold.
//
// A rule is compiled once and is safe for concurrent Eval calls.
type EligibilityRule struct {
	expr string
	prg  cel.Program
}

func ruleEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("age", cel.IntType),
		cel.Variable("bmi", cel.DoubleType),
		cel.Variable("smoker", cel.BoolType),
		cel.Variable("exercise_frequency", cel.IntType),
		cel.Variable("diet", cel.StringType),
		cel.Variable("alcohol_consumption", cel.IntType),
		cel.Variable("sleep_quality", cel.IntType),
		cel.Variable("blood_pressure", cel.StringType),
		cel.Variable("cholesterol", cel.StringType),
		cel.Variable("diabetes", cel.BoolType),
		cel.Variable("gender", cel.StringType),
		cel.Variable("region", cel.StringType),
		cel.Variable("driving_habits", cel.StringType),
		cel.Variable("safety_device_usage", cel.BoolType),
		cel.Variable("predicted_cost", cel.DoubleType),
		cel.Variable("cost_threshold", cel.DoubleType),
	)
}

// NewEligibilityRule compiles expr. An empty expr selects
// DefaultEligibilityRule. The expression must type-check to bool.
func NewEligibilityRule(expr string) (*EligibilityRule, error) {
	if expr == "" {
		expr = DefaultEligibilityRule
	}

	env, err := ruleEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile eligibility rule: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("eligibility rule must return bool, got %s", ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create program: %w", err)
	}
	return &EligibilityRule{expr: expr, prg: prg}, nil
}

// Expression returns the CEL source of the rule.
func (r *EligibilityRule) Expression() string {
	return r.expr
}

// Eval reports whether a qualifies for rewards at predictedCost.
func (r *EligibilityRule) Eval(a *Applicant, predictedCost, costThreshold float64) (bool, error) {
	out, _, err := r.prg.Eval(a.activation(predictedCost, costThreshold))
	if err != nil {
		return false, fmt.Errorf("evaluate eligibility rule: %w", err)
	}
	eligible, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("eligibility rule must return boolean, got %T", out.Value())
	}
	return eligible, nil
}
