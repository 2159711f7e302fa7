package errors

import (
	"strings"
	"unicode"
)

// reservedWidgetNames cannot be used as widget names because the loader
// gives them a special meaning.
var reservedWidgetNames = map[string]bool{
	"head": true,
}

// ValidateWidgetName validates a widget name for safety and correctness.
// Widget names end up in file names, DOM ids and CSS selectors, so the
// rules are conservative:
//   - No empty names
//   - No control characters or whitespace
//   - No path separators
//   - Not a reserved name
//   - Maximum length of 128 characters
func ValidateWidgetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidWidget, "widget name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidWidget, "widget name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidWidget, "widget name %q contains whitespace or control characters", name)
		}
	}

	if strings.ContainsAny(name, "/\\.") {
		return New(ErrCodeInvalidWidget, "widget name %q contains invalid characters", name)
	}

	if reservedWidgetNames[name] {
		return New(ErrCodeInvalidWidget, "widget name %q is reserved", name)
	}

	return nil
}

// ValidatePath validates a file path within a project for safety.
// It prevents path traversal and ensures reasonable path length.
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
