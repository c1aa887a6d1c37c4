// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package insurance

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/questwise/internal/metrics"
)

// Reward eligibility strings returned to callers.
const (
	EligibleMessage    = "eligible for rewards!"
	NotEligibleMessage = "not eligible for rewards"
)

// Prediction is the outcome of scoring one applicant.
type Prediction struct {
	PredictedCost     float64 `json:"predicted_cost"`
	Eligible          bool    `json:"-"`
	RewardEligibility string  `json:"reward_eligibility"`
}

// Scorer combines a cost model with an eligibility rule. It holds no
// mutable state and is safe for concurrent use.
type Scorer struct {
	model     *CostModel
	rule      *EligibilityRule
	threshold float64
	logger    zerolog.Logger
}

// NewScorer creates a scorer. A non-positive threshold selects
// DefaultCostThreshold.
//
//nolint:gocritic // logger passed by value for zerolog chaining
func NewScorer(model *CostModel, rule *EligibilityRule, threshold float64, logger zerolog.Logger) *Scorer {
	if threshold <= 0 {
		threshold = DefaultCostThreshold
	}
	return &Scorer{
		model:     model,
		rule:      rule,
		threshold: threshold,
		logger:    logger.With().Str("component", "insurance").Logger(),
	}
}

// Threshold returns the cost threshold passed to the rule.
func (s *Scorer) Threshold() float64 {
	return s.threshold
}

// ModelVersion returns the loaded cost model version.
func (s *Scorer) ModelVersion() string {
	return s.model.Version
}

// Predict prices a and decides reward eligibility.
func (s *Scorer) Predict(a *Applicant) (*Prediction, error) {
	start := time.Now()

	cost, err := s.model.Predict(a)
	if err != nil {
		metrics.RecordPrediction(time.Since(start), false, err)
		s.logger.Error().Err(err).Msg("cost prediction failed")
		return nil, err
	}

	eligible, err := s.rule.Eval(a, cost, s.threshold)
	metrics.RecordPrediction(time.Since(start), eligible, err)
	if err != nil {
		s.logger.Error().Err(err).Str("rule", s.rule.Expression()).Msg("eligibility rule failed")
		return nil, err
	}

	p := &Prediction{
		PredictedCost:     cost,
		Eligible:          eligible,
		RewardEligibility: NotEligibleMessage,
	}
	if eligible {
		p.RewardEligibility = EligibleMessage
	}
	s.logger.Debug().Float64("predicted_cost", cost).Bool("eligible", eligible).Msg("prediction completed")
	return p, nil
}
