// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built once and shared. Field errors are
// reported under the field's json name, so a failure on
// ActivityRecord.QuestID reads "questId is required" and Field() returns
// "questId".
//
// # Custom Validators
//
//   - notblank: string is not empty after trimming whitespace
//
// # Usage
//
//	type PredictRequest struct {
//	    Age    *int   `json:"age" validate:"required,gte=0"`
//	    Region string `json:"region" validate:"required,notblank"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// # Error Format
//
// ToAPIError produces code VALIDATION_ERROR. A single failure carries
// field, tag and value in Details; several failures are joined into one
// message and listed under Details["fields"].
package validation
