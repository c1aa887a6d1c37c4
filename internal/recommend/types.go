// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"sort"
	"time"
)

// UserIDKey is the key that joins a training feature record to its
// activity rows. It is never treated as a feature.
const UserIDKey = "userId"

// ScoreKey is the field added to each recommended quest.
const ScoreKey = "recommendationScore"

// ActivityRecord is one user/quest interaction used for training.
type ActivityRecord struct {
	// UserID identifies the user. Required.
	UserID string `json:"userId" validate:"required,notblank"`

	// QuestID identifies the quest. Required.
	QuestID string `json:"questId" validate:"required,notblank"`

	// Completed must be present; a missing value is rejected rather than
	// read as false.
	Completed *bool `json:"completed" validate:"required"`

	// Metadata is carried through decoding but not used by training.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// UserFeatures maps feature names to number, string or bool values.
// Absent keys are legal everywhere.
type UserFeatures map[string]any

// Quest is a quest document as supplied by the caller. Fields other than
// the id are passed through untouched.
type Quest map[string]any

// ID returns the quest identifier from _id, id or questId, in that order.
func (q Quest) ID() (string, bool) {
	for _, key := range []string{"_id", "id", "questId"} {
		if v, ok := q[key]; ok && v != nil {
			if s, ok := v.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// QuestSet is a set of quest ids.
type QuestSet map[string]struct{}

// NewQuestSet builds a set from ids.
func NewQuestSet(ids ...string) QuestSet {
	set := make(QuestSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has reports membership.
func (s QuestSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Schema is the positional layout of a feature vector, fixed at training
// time: quest dimensions first, then numerical features, then the encoder
// block for the categorical features.
type Schema struct {
	QuestIDs    []string `json:"quest_ids"`
	Numerical   []string `json:"numerical"`
	Categorical []string `json:"categorical"`
}

// QuestIndex returns the vector position of a trained quest.
func (s Schema) QuestIndex(id string) (int, bool) {
	i := sort.SearchStrings(s.QuestIDs, id)
	if i < len(s.QuestIDs) && s.QuestIDs[i] == id {
		return i, true
	}
	return 0, false
}

// RecommendRequest is the input to Recommender.Recommend.
type RecommendRequest struct {
	UserID            string
	UserFeatures      UserFeatures
	AllQuests         []Quest
	CompletedQuestIDs []string
}

// Recommendation is a quest with its score attached.
type Recommendation struct {
	Quest   Quest
	QuestID string
	Score   float64
}

// Document returns a copy of the quest with the score field set.
func (r Recommendation) Document() Quest {
	out := make(Quest, len(r.Quest)+1)
	for k, v := range r.Quest {
		out[k] = v
	}
	out[ScoreKey] = r.Score
	return out
}

// TrainResult summarizes a completed training run.
type TrainResult struct {
	Version             int64         `json:"version"`
	QuestCount          int           `json:"quest_count"`
	UserCount           int           `json:"user_count"`
	SampleCount         int           `json:"sample_count"`
	Dimensionality      int           `json:"dimensionality"`
	NumericalFeatures   []string      `json:"numerical_features"`
	CategoricalFeatures []string      `json:"categorical_features"`
	Duration            time.Duration `json:"duration"`
}

// Status describes the currently published bundle.
type Status struct {
	Trained             bool      `json:"trained"`
	Version             int64     `json:"version,omitempty"`
	TrainedAt           time.Time `json:"trained_at,omitempty"`
	QuestCount          int       `json:"quest_count"`
	SampleCount         int       `json:"sample_count"`
	Dimensionality      int       `json:"dimensionality"`
	NumericalFeatures   []string  `json:"numerical_features,omitempty"`
	CategoricalFeatures []string  `json:"categorical_features,omitempty"`
	Store               string    `json:"store"`
}
