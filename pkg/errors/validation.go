package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateInputPath validates the path of a study file given on the command line.
//
// The validation rules are intentionally conservative:
//   - No empty paths
//   - No control characters or null bytes
//   - Maximum length of 4096 characters
//
// Existence is not checked here; opening the file reports ErrCodeFileNotFound.
func ValidateInputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "input path cannot be empty")
	}

	if len(path) > 4096 {
		return New(ErrCodeInvalidPath, "input path too long (max 4096 characters)")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "input path contains invalid control characters")
		}
	}

	return nil
}

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidateColor checks that s is a "#rrggbb" color. The empty string is
// accepted and means "no color".
func ValidateColor(s string) error {
	if s == "" {
		return nil
	}
	if !hexColorRe.MatchString(s) {
		return New(ErrCodeInvalidConfig, "invalid color %q (want #rrggbb)", s)
	}
	return nil
}
