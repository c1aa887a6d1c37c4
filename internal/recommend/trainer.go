// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/questwise/internal/features"
	"github.com/tomtom215/questwise/internal/metrics"
	"github.com/tomtom215/questwise/internal/validation"
)

// Trainer builds and publishes artifact bundles from activity logs.
type Trainer struct {
	config    *Config
	artifacts *Artifacts
	logger    zerolog.Logger
	now       func() time.Time
}

// NewTrainer creates a trainer that publishes into artifacts.
//
//nolint:gocritic // logger passed by value for zerolog chaining
func NewTrainer(cfg *Config, artifacts *Artifacts, logger zerolog.Logger) *Trainer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Trainer{
		config:    cfg,
		artifacts: artifacts,
		logger:    logger.With().Str("component", "trainer").Logger(),
		now:       time.Now,
	}
}

// Train validates the inputs, fits a new bundle and publishes it. Any
// invalid record fails the whole call; nothing is published on error.
func (t *Trainer) Train(ctx context.Context, activities []ActivityRecord, userFeatures []UserFeatures) (*TrainResult, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, t.config.TrainTimeout)
	defer cancel()

	result, err := t.train(ctx, activities, userFeatures)
	duration := time.Since(start)
	metrics.RecordTraining(duration, err)
	if err != nil {
		t.logger.Warn().Err(err).
			Int("activities", len(activities)).
			Int("feature_records", len(userFeatures)).
			Msg("training failed")
		return nil, err
	}

	result.Duration = duration
	t.logger.Info().
		Int64("version", result.Version).
		Int("quests", result.QuestCount).
		Int("samples", result.SampleCount).
		Int("dimensionality", result.Dimensionality).
		Dur("duration", duration).
		Msg("training completed")
	return result, nil
}

func (t *Trainer) train(ctx context.Context, activities []ActivityRecord, userFeatures []UserFeatures) (*TrainResult, error) {
	if err := validateActivities(activities); err != nil {
		return nil, err
	}
	byUser, err := indexFeatureRecords(userFeatures)
	if err != nil {
		return nil, err
	}

	questIDs, matrix := completionMatrix(activities)

	users := sortedKeys(matrix)
	if len(byUser) > 0 {
		users = joinUsers(users, byUser)
		if len(users) == 0 {
			return nil, invalidInput("userFeatures", "no user appears in both userActivities and userFeatures")
		}
	}

	numerical, categorical := splitFeatureColumns(byUser, users)
	schema := Schema{QuestIDs: questIDs, Numerical: numerical, Categorical: categorical}

	enc := features.NewCategoricalEncoder()
	if err := enc.Fit(categorical, categoricalRows(byUser, users, categorical)); err != nil {
		return nil, &TransformError{Stage: "categorical fit", Err: err}
	}

	rows := make([][]float64, len(users))
	for i, u := range users {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := make([]float64, len(questIDs), len(questIDs)+len(numerical)+enc.Width())
		copy(row, matrix[u])
		row, err := appendUserFeatures(row, schema, enc, byUser[u])
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}

	index, err := FitIndex(rows)
	if err != nil {
		return nil, err
	}

	bundle := &Bundle{
		TrainedAt: t.now().UTC(),
		Schema:    schema,
		Encoder:   enc,
		Index:     index,
		UserIDs:   users,
	}
	if err := t.artifacts.Publish(ctx, bundle); err != nil {
		return nil, err
	}

	return &TrainResult{
		Version:             bundle.Version,
		QuestCount:          len(questIDs),
		UserCount:           len(matrix),
		SampleCount:         index.SampleCount(),
		Dimensionality:      index.Dimensionality(),
		NumericalFeatures:   numerical,
		CategoricalFeatures: categorical,
	}, nil
}

func validateActivities(activities []ActivityRecord) error {
	if len(activities) == 0 {
		return invalidInput("userActivities", "at least one activity record is required")
	}
	for i := range activities {
		if verr := validation.ValidateStruct(&activities[i]); verr != nil {
			first, _ := verr.First()
			return invalidInput(fmt.Sprintf("userActivities[%d].%s", i, first.Field()), "%s", first.Error())
		}
	}
	return nil
}

// indexFeatureRecords keys feature records by user id. The id key is
// removed from the returned maps.
func indexFeatureRecords(records []UserFeatures) (map[string]UserFeatures, error) {
	byUser := make(map[string]UserFeatures, len(records))
	for i, rec := range records {
		field := fmt.Sprintf("userFeatures[%d].%s", i, UserIDKey)
		raw, ok := rec[UserIDKey]
		if !ok || raw == nil {
			return nil, invalidInput(field, "%s is required", UserIDKey)
		}
		id, ok := raw.(string)
		if !ok || id == "" {
			return nil, invalidInput(field, "%s must be a non-empty string", UserIDKey)
		}
		if _, dup := byUser[id]; dup {
			return nil, invalidInput(field, "duplicate feature record for user %q", id)
		}

		feats := make(UserFeatures, len(rec))
		for k, v := range rec {
			if k != UserIDKey {
				feats[k] = v
			}
		}
		byUser[id] = feats
	}
	return byUser, nil
}

// completionMatrix returns the sorted quest ordering and, per user, the
// mean completion of each quest in that ordering.
func completionMatrix(activities []ActivityRecord) ([]string, map[string][]float64) {
	questSet := make(map[string]struct{})
	for i := range activities {
		questSet[activities[i].QuestID] = struct{}{}
	}
	questIDs := sortedKeys(questSet)
	position := make(map[string]int, len(questIDs))
	for i, id := range questIDs {
		position[id] = i
	}

	sums := make(map[string][]float64)
	counts := make(map[string][]int)
	for i := range activities {
		a := &activities[i]
		if _, ok := sums[a.UserID]; !ok {
			sums[a.UserID] = make([]float64, len(questIDs))
			counts[a.UserID] = make([]int, len(questIDs))
		}
		p := position[a.QuestID]
		if *a.Completed {
			sums[a.UserID][p]++
		}
		counts[a.UserID][p]++
	}

	for u, row := range sums {
		for j := range row {
			if n := counts[u][j]; n > 0 {
				row[j] /= float64(n)
			}
		}
	}
	return questIDs, sums
}

func joinUsers(activityUsers []string, byUser map[string]UserFeatures) []string {
	joined := make([]string, 0, len(activityUsers))
	for _, u := range activityUsers {
		if _, ok := byUser[u]; ok {
			joined = append(joined, u)
		}
	}
	return joined
}

// splitFeatureColumns classifies every feature column seen for users.
// A column holding any non-numeric value is categorical; a column holding
// only nil is dropped.
func splitFeatureColumns(byUser map[string]UserFeatures, users []string) (numerical, categorical []string) {
	kinds := make(map[string]bool) // true once a non-numeric value is seen
	for _, u := range users {
		for name, v := range byUser[u] {
			if v == nil {
				continue
			}
			if !features.IsNumeric(v) {
				kinds[name] = true
			} else if _, ok := kinds[name]; !ok {
				kinds[name] = false
			}
		}
	}

	numerical = []string{}
	categorical = []string{}
	for _, name := range sortedKeys(kinds) {
		if kinds[name] {
			categorical = append(categorical, name)
		} else {
			numerical = append(numerical, name)
		}
	}
	return numerical, categorical
}

func categoricalRows(byUser map[string]UserFeatures, users, columns []string) [][]string {
	rows := make([][]string, len(users))
	for i, u := range users {
		row := make([]string, len(columns))
		for j, name := range columns {
			row[j] = features.ToCategory(byUser[u][name])
		}
		rows[i] = row
	}
	return rows
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
