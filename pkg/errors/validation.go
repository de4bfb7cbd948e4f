package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateProbability checks that p is a probability in [0, 1].
// NaN is rejected.
func ValidateProbability(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return New(ErrCodeInvalidProbability, "probability %v outside [0, 1]", p)
	}
	return nil
}

// ValidateRate checks that a per-unit-weight termination rate is finite and
// non-negative.
func ValidateRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return New(ErrCodeInvalidRate, "rate %v must be finite and non-negative", rate)
	}
	return nil
}

// ValidateCost checks that a terminal cost is a finite number.
func ValidateCost(node string, c float64) error {
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return New(ErrCodeInvalidCost, "cost of node %q is not finite: %v", node, c)
	}
	return nil
}

// ValidateNodeID validates a node identifier read from external input.
//
// Validation rules:
//   - No empty IDs
//   - No control characters
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node ID cannot be empty")
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "node ID too long (max 256 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node ID contains invalid control characters")
		}
	}
	return nil
}

// ValidatePath validates an output file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") {
		return New(ErrCodeInvalidPath, "path must name a file, not a directory")
	}

	return nil
}
