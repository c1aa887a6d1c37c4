// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/questwise/internal/config"
	"github.com/tomtom215/questwise/internal/insurance"
)

// initInsurance loads the cost model and compiles the eligibility rule.
// A bad model file or rule stops startup.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initInsurance(cfg *config.Config, logger zerolog.Logger) (*insurance.Scorer, error) {
	model, err := insurance.LoadCostModel(cfg.Insurance.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("load cost model: %w", err)
	}

	rule, err := insurance.NewEligibilityRule(cfg.Insurance.EligibilityRule)
	if err != nil {
		return nil, fmt.Errorf("compile eligibility rule: %w", err)
	}

	scorer := insurance.NewScorer(model, rule, cfg.Insurance.CostThreshold, logger)
	logger.Info().
		Bool("custom_model", cfg.Insurance.ModelPath != "").
		Bool("custom_rule", cfg.Insurance.EligibilityRule != "").
		Float64("cost_threshold", scorer.Threshold()).
		Msg("insurance scorer ready")
	return scorer, nil
}
