package errors

import "math"

// MaxRows bounds the row count accepted from untrusted input (scene files, HTTP).
const MaxRows = 4096

// ValidateRows checks that a grid has at least one row.
func ValidateRows(rows int) error {
	if rows < 1 {
		return New(ErrCodeInvalidConfig, "rows must be at least 1, got %d", rows)
	}
	if rows > MaxRows {
		return New(ErrCodeInvalidConfig, "rows too large (max %d), got %d", MaxRows, rows)
	}
	return nil
}

// ValidateCellSize checks that a cell dimension is a positive finite number.
// The name is used in the error message (e.g. "cell width").
func ValidateCellSize(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be finite, got %v", name, v)
	}
	if v <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be positive, got %v", name, v)
	}
	return nil
}

// ValidateRadius checks the wrapping radius used by curved and scattered surfaces.
// A non-positive radius would make the circumference zero.
func ValidateRadius(surface string, radius float64) error {
	if math.IsNaN(radius) || math.IsInf(radius, 0) {
		return New(ErrCodeInvalidConfig, "radius must be finite for %s surface, got %v", surface, radius)
	}
	if radius <= 0 {
		return New(ErrCodeInvalidConfig, "radius must be positive for %s surface, got %v", surface, radius)
	}
	return nil
}
