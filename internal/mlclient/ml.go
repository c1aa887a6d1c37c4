// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package mlclient

import (
	"context"
	"errors"

	"github.com/tomtom215/questwise/internal/metrics"
	"github.com/tomtom215/questwise/internal/models"
	"github.com/tomtom215/questwise/internal/recommend"
)

// Feature names sent for each user.
const (
	FeatureAge           = "age"
	FeatureGender        = "gender"
	FeaturePointsBalance = "pointsBalance"
)

// unknownGender is sent when a user has not set one.
const unknownGender = "unknown"

// User is the backend's view of a user.
type User struct {
	ID              string
	Age             *float64
	Gender          string
	Points          *float64
	CompletedQuests []string
}

// trainingFeatures keeps missing values absent so the trainer's
// imputation sees them.
func (u User) trainingFeatures() recommend.UserFeatures {
	f := recommend.UserFeatures{recommend.UserIDKey: u.ID}
	if u.Age != nil {
		f[FeatureAge] = *u.Age
	}
	if u.Gender != "" {
		f[FeatureGender] = u.Gender
	}
	if u.Points != nil {
		f[FeaturePointsBalance] = *u.Points
	}
	return f
}

// queryFeatures fills missing values with fixed defaults.
func (u User) queryFeatures() recommend.UserFeatures {
	f := recommend.UserFeatures{
		FeatureAge:           0.0,
		FeatureGender:        unknownGender,
		FeaturePointsBalance: 0.0,
	}
	if u.Age != nil {
		f[FeatureAge] = *u.Age
	}
	if u.Gender != "" {
		f[FeatureGender] = u.Gender
	}
	if u.Points != nil {
		f[FeaturePointsBalance] = *u.Points
	}
	return f
}

// Train sends the full activity log and user table for retraining.
func (c *Client) Train(ctx context.Context, activities []recommend.ActivityRecord, users []User) (*models.TrainResponse, error) {
	req := models.TrainRequest{
		UserActivities: activities,
		UserFeatures:   make([]recommend.UserFeatures, len(users)),
	}
	for i, u := range users {
		req.UserFeatures[i] = u.trainingFeatures()
	}

	var resp models.TrainResponse
	if err := c.post(ctx, "/train", req, &resp); err != nil {
		c.logger.Error().Err(err).Int("activities", len(activities)).Msg("error training model")
		return nil, err
	}
	return &resp, nil
}

// Recommend asks the ML service to rank activeQuests for user. If the
// service fails for any reason the user gets up to FallbackLimit active
// quests they have not completed, in input order, and a nil error.
func (c *Client) Recommend(ctx context.Context, user User, activeQuests []recommend.Quest) ([]recommend.Quest, error) {
	if user.ID == "" {
		return nil, errors.New("user id is required")
	}

	req := models.RecommendRequest{
		UserID:          user.ID,
		UserFeatures:    user.queryFeatures(),
		AllQuests:       activeQuests,
		CompletedQuests: user.CompletedQuests,
	}
	if req.CompletedQuests == nil {
		req.CompletedQuests = []string{}
	}

	var resp models.RecommendResponse
	err := c.post(ctx, "/recommend", req, &resp)
	if err == nil {
		return resp.Recommendations, nil
	}

	c.logger.Warn().Err(err).Str("user_id", user.ID).Msg("error getting recommendations, serving fallback")
	metrics.RecordMLClientFallback()
	return Fallback(activeQuests, user.CompletedQuests, c.fallbackLimit), nil
}

// Predict requests an insurance cost prediction.
func (c *Client) Predict(ctx context.Context, req *models.PredictRequest) (*models.PredictResponse, error) {
	var resp models.PredictResponse
	if err := c.post(ctx, "/predict", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Fallback returns up to limit quests that are active and not completed.
// A quest is active unless its isActive field is exactly false.
func Fallback(quests []recommend.Quest, completed []string, limit int) []recommend.Quest {
	done := recommend.NewQuestSet(completed...)
	out := make([]recommend.Quest, 0, min(limit, len(quests)))
	for _, q := range quests {
		if len(out) == limit {
			break
		}
		if active, ok := q["isActive"].(bool); ok && !active {
			continue
		}
		if id, ok := q.ID(); ok && done.Has(id) {
			continue
		}
		out = append(out, q)
	}
	return out
}
