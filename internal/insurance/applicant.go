// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package insurance

// Applicant is the fixed-schema input to cost prediction.
type Applicant struct {
	Age                int     `json:"age"`
	BMI                float64 `json:"bmi"`
	Smoker             bool    `json:"smoker"`
	ExerciseFrequency  int     `json:"exercise_frequency"`  // days per week
	Diet               string  `json:"diet"`
	AlcoholConsumption int     `json:"alcohol_consumption"` // drinks per week
	SleepQuality       int     `json:"sleep_quality"`       // hours per night
	BloodPressure      string  `json:"blood_pressure"`
	Cholesterol        string  `json:"cholesterol"`
	Diabetes           bool    `json:"diabetes"`
	Gender             string  `json:"gender"`
	Region             string  `json:"region"`
	DrivingHabits      string  `json:"driving_habits"` // safe, moderate, risky
	SafetyDeviceUsage  bool    `json:"safety_device_usage"`
}

// NumericFeatures are the applicant fields a cost model may weight
// directly. Bools count as 1 or 0.
var NumericFeatures = []string{
	"age", "alcohol_consumption", "bmi", "diabetes",
	"exercise_frequency", "safety_device_usage", "sleep_quality", "smoker",
}

// CategoricalFeatures are the applicant fields a cost model one-hot encodes.
var CategoricalFeatures = []string{
	"blood_pressure", "cholesterol", "diet", "driving_habits", "gender", "region",
}

func (a *Applicant) numeric(name string) (float64, bool) {
	switch name {
	case "age":
		return float64(a.Age), true
	case "bmi":
		return a.BMI, true
	case "smoker":
		return boolFloat(a.Smoker), true
	case "exercise_frequency":
		return float64(a.ExerciseFrequency), true
	case "alcohol_consumption":
		return float64(a.AlcoholConsumption), true
	case "sleep_quality":
		return float64(a.SleepQuality), true
	case "diabetes":
		return boolFloat(a.Diabetes), true
	case "safety_device_usage":
		return boolFloat(a.SafetyDeviceUsage), true
	default:
		return 0, false
	}
}

func (a *Applicant) categorical(name string) (string, bool) {
	switch name {
	case "diet":
		return a.Diet, true
	case "blood_pressure":
		return a.BloodPressure, true
	case "cholesterol":
		return a.Cholesterol, true
	case "gender":
		return a.Gender, true
	case "region":
		return a.Region, true
	case "driving_habits":
		return a.DrivingHabits, true
	default:
		return "", false
	}
}

// activation is the variable set an eligibility rule sees.
func (a *Applicant) activation(predictedCost, costThreshold float64) map[string]any {
	return map[string]any{
		"age":                 int64(a.Age),
		"bmi":                 a.BMI,
		"smoker":              a.Smoker,
		"exercise_frequency":  int64(a.ExerciseFrequency),
		"diet":                a.Diet,
		"alcohol_consumption": int64(a.AlcoholConsumption),
		"sleep_quality":       int64(a.SleepQuality),
		"blood_pressure":      a.BloodPressure,
		"cholesterol":         a.Cholesterol,
		"diabetes":            a.Diabetes,
		"gender":              a.Gender,
		"region":              a.Region,
		"driving_habits":      a.DrivingHabits,
		"safety_device_usage": a.SafetyDeviceUsage,
		"predicted_cost":      predictedCost,
		"cost_threshold":      costThreshold,
	}
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
