package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateFontSize rejects font sizes that cannot produce a visible glyph run.
func ValidateFontSize(size float64) error {
	if math.IsNaN(size) || math.IsInf(size, 0) {
		return New(ErrCodeInvalidInput, "font size must be finite")
	}
	if size <= 0 {
		return New(ErrCodeInvalidInput, "font size must be positive, got %g", size)
	}
	return nil
}

// ValidateRatio validates a device pixel ratio.
func ValidateRatio(ratio float64) error {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio <= 0 {
		return New(ErrCodeInvalidFrame, "device pixel ratio must be a positive number, got %g", ratio)
	}
	return nil
}

// ValidateDimensions validates a canvas width and height in CSS pixels.
func ValidateDimensions(width, height float64) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidFrame, "canvas dimensions must be positive, got %gx%g", width, height)
	}
	const maxSide = 16384
	if width > maxSide || height > maxSide {
		return New(ErrCodeInvalidFrame, "canvas dimensions too large (max %d per side)", maxSide)
	}
	return nil
}

// ValidateOutputPath validates a file path the CLI is about to write.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - No path traversal sequences (..) after cleaning
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	clean := filepath.ToSlash(filepath.Clean(path))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return New(ErrCodeInvalidPath, "path cannot escape the working directory")
	}
	return nil
}
