// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/questwise/internal/metrics"
)

// Scorer assigns a score to a candidate quest given the training rows of
// the query's nearest neighbors.
type Scorer interface {
	Score(b *Bundle, questID string, neighbors []int) float64
}

// ScorerFunc adapts a function to Scorer.
type ScorerFunc func(b *Bundle, questID string, neighbors []int) float64

// Score calls f.
func (f ScorerFunc) Score(b *Bundle, questID string, neighbors []int) float64 {
	return f(b, questID, neighbors)
}

// NeighborCompletionScorer scores a quest by the mean completion value of
// that quest across the neighbors, i.e. the share of similar users who
// completed it. Quests unknown to the bundle score 0.
var NeighborCompletionScorer = ScorerFunc(func(b *Bundle, questID string, neighbors []int) float64 {
	pos, ok := b.Schema.QuestIndex(questID)
	if !ok || len(neighbors) == 0 {
		return 0
	}
	var sum float64
	for _, n := range neighbors {
		sum += b.Index.Row(n)[pos]
	}
	return sum / float64(len(neighbors))
})

// Recommender ranks quests for a user against the published bundle.
type Recommender struct {
	config    *Config
	artifacts *Artifacts
	scorer    Scorer
	logger    zerolog.Logger
}

// NewRecommender creates a recommender. A nil scorer selects
// NeighborCompletionScorer.
//
//nolint:gocritic // logger passed by value for zerolog chaining
func NewRecommender(cfg *Config, artifacts *Artifacts, scorer Scorer, logger zerolog.Logger) *Recommender {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if scorer == nil {
		scorer = NeighborCompletionScorer
	}
	return &Recommender{
		config:    cfg,
		artifacts: artifacts,
		scorer:    scorer,
		logger:    logger.With().Str("component", "recommender").Logger(),
	}
}

// Recommend returns up to TopN quests from req.AllQuests that the user has
// not completed, best first. The bundle is read once, so a concurrent
// retrain never mixes two schemas within one call.
func (r *Recommender) Recommend(ctx context.Context, req RecommendRequest) ([]Recommendation, error) {
	start := time.Now()
	recs, err := r.recommend(ctx, req)
	metrics.RecordRecommendation(time.Since(start), err)

	var mismatch *FeatureMismatchError
	if errors.As(err, &mismatch) {
		metrics.RecordFeatureMismatch()
		r.logger.Error().Err(err).Str("user_id", req.UserID).Msg("query vector does not match trained model")
	}
	return recs, err
}

func (r *Recommender) recommend(ctx context.Context, req RecommendRequest) ([]Recommendation, error) {
	bundle := r.artifacts.Current()
	if bundle == nil {
		return nil, ErrModelNotTrained
	}

	completed := NewQuestSet(req.CompletedQuestIDs...)
	candidates := make([]Recommendation, 0, len(req.AllQuests))
	for i, q := range req.AllQuests {
		id, ok := q.ID()
		if !ok {
			return nil, invalidInput(fmt.Sprintf("allQuests[%d]", i), "quest has no _id, id or questId")
		}
		if completed.Has(id) {
			continue
		}
		candidates = append(candidates, Recommendation{Quest: q, QuestID: id})
	}

	query, err := bundle.Builder().Build(completed, req.UserFeatures)
	if err != nil {
		return nil, err
	}

	k := min(r.config.MaxNeighbors, bundle.Index.SampleCount())
	neighbors, err := bundle.Index.KNeighbors(ctx, query, k, r.config.ParallelThreshold)
	if err != nil {
		return nil, err
	}
	rows := make([]int, len(neighbors))
	for i, n := range neighbors {
		rows[i] = n.Index
	}

	for i := range candidates {
		candidates[i].Score = r.scorer.Score(bundle, candidates[i].QuestID, rows)
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].Score > candidates[b].Score
	})
	if len(candidates) > r.config.TopN {
		candidates = candidates[:r.config.TopN]
	}

	r.logger.Debug().
		Str("user_id", req.UserID).
		Int64("version", bundle.Version).
		Int("neighbors", len(rows)).
		Int("returned", len(candidates)).
		Msg("recommendations computed")
	return candidates, nil
}
