// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/questwise/internal/models"
	"github.com/tomtom215/questwise/internal/recommend"
)

// engineError is the HTTP rendering of a training or recommendation failure.
type engineError struct {
	status int
	code   string
	// clientFault errors echo their message; server faults carry the
	// cause in detail.
	clientFault bool
}

// classifyEngineError maps a recommend error onto a status and code.
func classifyEngineError(err error) engineError {
	var (
		invalid  *recommend.InvalidInputError
		mismatch *recommend.FeatureMismatchError
		storage  *recommend.StorageError
		trans    *recommend.TransformError
	)

	switch {
	case errors.Is(err, recommend.ErrModelNotTrained):
		return engineError{status: http.StatusBadRequest, code: models.CodeModelNotTrained, clientFault: true}
	case errors.As(err, &invalid):
		return engineError{status: http.StatusBadRequest, code: models.CodeInvalidInput, clientFault: true}
	case errors.As(err, &mismatch):
		return engineError{status: http.StatusInternalServerError, code: models.CodeFeatureMismatch}
	case errors.As(err, &storage):
		return engineError{status: http.StatusInternalServerError, code: models.CodeStorageUnavailable}
	case errors.As(err, &trans):
		return engineError{status: http.StatusInternalServerError, code: models.CodeTransformFailed}
	case errors.Is(err, context.DeadlineExceeded):
		return engineError{status: http.StatusServiceUnavailable, code: "TIMEOUT"}
	default:
		return engineError{status: http.StatusInternalServerError, code: "INTERNAL_ERROR"}
	}
}

// statusErrorBody renders a /train or /recommend failure.
func statusErrorBody(err error, serverMessage string) (int, *models.StatusErrorResponse) {
	ee := classifyEngineError(err)
	body := &models.StatusErrorResponse{
		Status: models.StatusError,
		Code:   ee.code,
	}
	if ee.clientFault {
		body.Message = err.Error()
	} else {
		body.Message = serverMessage
		body.Detail = err.Error()
	}
	return ee.status, body
}
