// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/questwise/internal/logging"
	"github.com/tomtom215/questwise/internal/models"
	"github.com/tomtom215/questwise/internal/recommend"
)

// Train handles POST /train. The whole activity log is replaced: on
// success the new bundle is persisted and served, on failure the previous
// bundle stays in place.
func (h *Handler) Train(w http.ResponseWriter, r *http.Request) {
	var req models.TrainRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.StatusErrorResponse{
			Status:  models.StatusError,
			Message: err.Error(),
			Code:    "VALIDATION_ERROR",
		})
		return
	}

	ctx := r.Context()
	if h.trainTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.trainTimeout)
		defer cancel()
	}

	result, err := h.trainer.Train(ctx, req.UserActivities, req.UserFeatures)
	if err != nil {
		status, body := statusErrorBody(err, "error training model")
		if status >= http.StatusInternalServerError {
			logging.Ctx(r.Context()).Error().Err(err).Msg("training request failed")
		}
		writeJSON(w, status, body)
		return
	}

	writeJSON(w, http.StatusOK, models.TrainResponse{
		Status:  models.StatusSuccess,
		Message: models.TrainSuccessMessage,
		Model:   result,
	})
}

// Recommend handles POST /recommend.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.StatusErrorResponse{
			Status:  models.StatusError,
			Message: err.Error(),
			Code:    "VALIDATION_ERROR",
		})
		return
	}

	recs, err := h.recommender.Recommend(r.Context(), req.ToRecommendRequest())
	if err != nil {
		status, body := statusErrorBody(err, "error generating recommendations")
		if status >= http.StatusInternalServerError {
			logging.Ctx(r.Context()).Error().Err(err).
				Str("user_id", sanitizeLogValue(req.UserID)).
				Msg("recommendation request failed")
		}
		writeJSON(w, status, body)
		return
	}

	docs := make([]recommend.Quest, len(recs))
	for i, rec := range recs {
		docs[i] = rec.Document()
	}
	writeJSON(w, http.StatusOK, models.RecommendResponse{
		Status:          models.StatusSuccess,
		Recommendations: docs,
	})
}

// ModelStatus handles GET /api/v1/model
// Returns the published bundle's version, schema and size.
func (h *Handler) ModelStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, h.model.Status(), start)
}
