// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package insurance predicts an applicant's annual insurance cost and
// decides whether they qualify for wellness rewards.
//
// The cost model is linear. Its coefficients live in YAML, either the
// compiled-in default or a file named by insurance.model_path:
//
//	version: 2026.1
//	intercept: 3500
//	min_cost: 1000
//	numeric:
//	  age: 240
//	categorical:
//	  driving_habits: {safe: 0, moderate: 600, risky: 2200}
//
// Eligibility is a CEL expression compiled once at startup. It sees every
// Applicant field under its JSON name plus predicted_cost and
// cost_threshold. See DefaultEligibilityRule.
//
// Usage:
//
//	model, err := insurance.LoadCostModel(cfg.Insurance.ModelPath)
//	rule, err := insurance.NewEligibilityRule(cfg.Insurance.EligibilityRule)
//	scorer := insurance.NewScorer(model, rule, cfg.Insurance.CostThreshold, logger)
//	p, err := scorer.Predict(&applicant)
package insurance
