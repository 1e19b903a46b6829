package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// MaxSize is the largest maze edge length accepted from user input.
// Larger grids are valid for the generator but produce documents too large
// for the API and the terminal renderers.
const MaxSize = 256

// ValidateSize checks that a maze edge length can produce a playable level.
// A 1×1 grid is a single cell with four boundary walls, which no tile
// archetype can represent, so the minimum is 2.
func ValidateSize(size int) error {
	if size < 2 {
		return New(ErrCodeInvalidConfiguration, "size must be at least 2, got %d", size)
	}
	if size > MaxSize {
		return New(ErrCodeInvalidConfiguration, "size too large (max %d), got %d", MaxSize, size)
	}
	return nil
}

// ValidateProbability checks that p lies in [0, 1]. NaN is rejected.
func ValidateProbability(name string, p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return New(ErrCodeInvalidConfiguration, "%s must be within [0, 1], got %v", name, p)
	}
	return nil
}

// levelNameRegex matches level names usable as file names and URL segments.
var levelNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateLevelName validates a level name for safety and correctness.
// Names become file names in the level store and campaign output, so the
// rules reject anything that could be used for path traversal.
//
// The empty name is valid and means "unnamed".
func ValidateLevelName(name string) error {
	if name == "" {
		return nil
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidLevel, "level name too long (max 128 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLevel, "level name contains invalid control characters")
		}
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidLevel, "level name cannot contain path traversal sequences (..)")
	}
	if !levelNameRegex.MatchString(name) {
		return New(ErrCodeInvalidLevel, "invalid level name: %q", name)
	}
	return nil
}

// ValidatePath validates a relative file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
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

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
