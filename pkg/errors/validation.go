package errors

import (
	"math"
	"path/filepath"
	"strings"
)

// ValidatePositive rejects zero, negative and non-finite values.
func ValidatePositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be positive, got %v", name, v)
	}
	return nil
}

// ValidateNonNegative rejects negative and non-finite values.
func ValidateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return New(ErrCodeInvalidConfig, "%s must not be negative, got %v", name, v)
	}
	return nil
}

// ValidateFraction requires 0 <= v <= 1.
func ValidateFraction(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return New(ErrCodeInvalidConfig, "%s must be within [0, 1], got %v", name, v)
	}
	return nil
}

// ValidateDistribution checks a size distribution: at least one entry, no
// empty type names, no negative weights, and a positive total.
func ValidateDistribution(dist map[string]float64) error {
	if len(dist) == 0 {
		return New(ErrCodeInvalidConfig, "size distribution cannot be empty")
	}
	total := 0.0
	for name, w := range dist {
		if strings.TrimSpace(name) == "" {
			return New(ErrCodeInvalidConfig, "size distribution contains an empty type name")
		}
		if math.IsNaN(w) || w < 0 {
			return New(ErrCodeInvalidConfig, "weight for %q must not be negative, got %v", name, w)
		}
		total += w
	}
	if total <= 0 {
		return New(ErrCodeInvalidConfig, "size distribution weights must sum to a positive value")
	}
	return nil
}

// planExtensions lists the floor plan file formats the loader understands.
var planExtensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
}

// ValidatePlanPath checks that a floor plan path is non-empty and has a
// supported extension.
func ValidatePlanPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidInput, "plan path cannot be empty")
	}
	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidInput, "plan path contains invalid characters")
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !planExtensions[ext] {
		return New(ErrCodeInvalidFormat, "unsupported plan format %q (must be .json, .yaml or .yml)", ext)
	}
	return nil
}
