// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package features

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// ToFloat64 converts a decoded JSON value to a float. Numeric Go types,
// json.Number, bools (1/0) and numeric strings convert; everything else,
// including NaN and infinities, reports false.
func ToFloat64(v any) (float64, bool) {
	var f float64
	switch val := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case int32:
		f = float64(val)
	case uint:
		f = float64(val)
	case uint64:
		f = float64(val)
	case uint32:
		f = float64(val)
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// IsNumeric reports whether v is stored as a number or bool. Strings that
// happen to parse as numbers are not numeric here.
func IsNumeric(v any) bool {
	switch v.(type) {
	case float64, float32, int, int64, int32, uint, uint64, uint32, bool, json.Number:
		return true
	default:
		return false
	}
}

// ToCategory renders a value as a category label. nil becomes the empty
// string.
func ToCategory(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
