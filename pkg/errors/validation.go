package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateBlocks checks the requested number of blocks.
func ValidateBlocks(k int) error {
	if k < 1 {
		return New(ErrCodeInvalidInput, "number of blocks must be at least 1, got %d", k)
	}
	if k > math.MaxInt32 {
		return New(ErrCodeInvalidInput, "number of blocks %d exceeds the engine limit", k)
	}
	return nil
}

// ValidateImbalance checks the fractional imbalance tolerance epsilon.
// NaN and infinite values are rejected along with negative ones.
func ValidateImbalance(epsilon float64) error {
	if math.IsNaN(epsilon) || math.IsInf(epsilon, 0) {
		return New(ErrCodeInvalidInput, "imbalance must be a finite number, got %v", epsilon)
	}
	if epsilon < 0 {
		return New(ErrCodeInvalidInput, "imbalance must be non-negative, got %v", epsilon)
	}
	return nil
}

// ValidateConfigPath validates a configuration file path before it is handed
// to the engine.
//
// Validation rules:
//   - Path cannot be empty or blank
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidateConfigPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeConfig, "config path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeConfig, "config path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeConfig, "config path contains invalid characters")
		}
	}

	return nil
}

// ValidateConfigText rejects configuration text that can never be valid for
// any engine: empty input or embedded null bytes.
func ValidateConfigText(text string) error {
	if strings.TrimSpace(text) == "" {
		return New(ErrCodeConfig, "config text cannot be empty")
	}
	if strings.ContainsRune(text, '\x00') {
		return New(ErrCodeConfig, "config text contains null bytes")
	}
	return nil
}
