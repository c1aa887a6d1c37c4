// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package models

import (
	"github.com/tomtom215/questwise/internal/insurance"
	"github.com/tomtom215/questwise/internal/recommend"
)

// Response messages shared with the calling backend.
const (
	RootMessage            = "ml service is running!"
	PredictSuccessMessage  = "prediction successful!"
	PredictFailureMessage  = "error making prediction"
	TrainSuccessMessage    = "model trained successfully"
	StatusSuccess          = "success"
	StatusError            = "error"
	CodeFeatureMismatch    = "FEATURE_MISMATCH"
	CodeModelNotTrained    = "MODEL_NOT_TRAINED"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeTransformFailed    = "TRANSFORM_FAILED"
	CodeStorageUnavailable = "STORAGE_ERROR"
)

// RootResponse is returned by GET /.
type RootResponse struct {
	Message string `json:"message"`
}

// PredictRequest is the POST /predict body. Every field is required;
// pointers distinguish a missing field from its zero value.
type PredictRequest struct {
	Age                *int     `json:"age" validate:"required,gte=0"`
	BMI                *float64 `json:"bmi" validate:"required,gt=0"`
	Smoker             *bool    `json:"smoker" validate:"required"`
	ExerciseFrequency  *int     `json:"exercise_frequency" validate:"required,gte=0"`
	Diet               *string  `json:"diet" validate:"required"`
	AlcoholConsumption *int     `json:"alcohol_consumption" validate:"required,gte=0"`
	SleepQuality       *int     `json:"sleep_quality" validate:"required,gte=0"`
	BloodPressure      *string  `json:"blood_pressure" validate:"required"`
	Cholesterol        *string  `json:"cholesterol" validate:"required"`
	Diabetes           *bool    `json:"diabetes" validate:"required"`
	Gender             *string  `json:"gender" validate:"required"`
	Region             *string  `json:"region" validate:"required"`
	DrivingHabits      *string  `json:"driving_habits" validate:"required"`
	SafetyDeviceUsage  *bool    `json:"safety_device_usage" validate:"required"`
}

// ToApplicant converts a validated request. It must only be called after
// validation has confirmed every field is present.
func (r *PredictRequest) ToApplicant() *insurance.Applicant {
	return &insurance.Applicant{
		Age:                *r.Age,
		BMI:                *r.BMI,
		Smoker:             *r.Smoker,
		ExerciseFrequency:  *r.ExerciseFrequency,
		Diet:               *r.Diet,
		AlcoholConsumption: *r.AlcoholConsumption,
		SleepQuality:       *r.SleepQuality,
		BloodPressure:      *r.BloodPressure,
		Cholesterol:        *r.Cholesterol,
		Diabetes:           *r.Diabetes,
		Gender:             *r.Gender,
		Region:             *r.Region,
		DrivingHabits:      *r.DrivingHabits,
		SafetyDeviceUsage:  *r.SafetyDeviceUsage,
	}
}

// PredictResponse is the POST /predict success body.
type PredictResponse struct {
	PredictedCost     float64 `json:"predicted_cost"`
	RewardEligibility string  `json:"reward_eligibility"`
	Message           string  `json:"message"`
}

// PredictErrorResponse is the POST /predict failure body.
type PredictErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// TrainRequest is the POST /train body. Records are validated by the
// trainer so that the first bad record is reported by its index.
type TrainRequest struct {
	UserActivities []recommend.ActivityRecord `json:"userActivities"`
	UserFeatures   []recommend.UserFeatures   `json:"userFeatures,omitempty"`
}

// TrainResponse is the POST /train success body.
type TrainResponse struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message"`
	Model   *recommend.TrainResult `json:"model,omitempty"`
}

// RecommendRequest is the POST /recommend body.
type RecommendRequest struct {
	UserID          string                 `json:"userId"`
	UserFeatures    recommend.UserFeatures `json:"userFeatures"`
	AllQuests       []recommend.Quest      `json:"allQuests"`
	CompletedQuests []string               `json:"completedQuests"`
}

// ToRecommendRequest converts the wire shape to the engine request.
func (r *RecommendRequest) ToRecommendRequest() recommend.RecommendRequest {
	return recommend.RecommendRequest{
		UserID:            r.UserID,
		UserFeatures:      r.UserFeatures,
		AllQuests:         r.AllQuests,
		CompletedQuestIDs: r.CompletedQuests,
	}
}

// RecommendResponse is the POST /recommend success body.
type RecommendResponse struct {
	Status          string            `json:"status"`
	Recommendations []recommend.Quest `json:"recommendations"`
}

// StatusErrorResponse is the failure body of /train and /recommend.
// Detail carries the underlying error for server-side failures only.
type StatusErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Detail  string `json:"detail,omitempty"`
}
