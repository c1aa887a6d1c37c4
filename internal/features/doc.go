// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package features holds the stateful preprocessing shared by the
// recommendation and insurance models: a one-hot CategoricalEncoder that is
// fitted once and reused verbatim at inference, and helpers that coerce
// loosely typed JSON values into numbers and category labels.
package features
