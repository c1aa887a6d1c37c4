// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"net/http"

	"github.com/tomtom215/questwise/internal/logging"
	"github.com/tomtom215/questwise/internal/models"
)

// Predict handles POST /predict. Every applicant field is required; a
// missing or mistyped field is a 400, a scoring failure a 500.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	var req models.PredictRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.PredictErrorResponse{
			Error:   err.Error(),
			Message: models.PredictFailureMessage,
		})
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		writeJSON(w, http.StatusBadRequest, models.PredictErrorResponse{
			Error:   apiErr.Message,
			Message: models.PredictFailureMessage,
		})
		return
	}

	prediction, err := h.predictor.Predict(req.ToApplicant())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("prediction failed")
		writeJSON(w, http.StatusInternalServerError, models.PredictErrorResponse{
			Error:   err.Error(),
			Message: models.PredictFailureMessage,
		})
		return
	}

	writeJSON(w, http.StatusOK, models.PredictResponse{
		PredictedCost:     prediction.PredictedCost,
		RewardEligibility: prediction.RewardEligibility,
		Message:           models.PredictSuccessMessage,
	})
}
