package errors

import (
	"strings"
	"unicode"
)

// ValidatePath validates a document path supplied by an API caller.
// It prevents escaping the configured root and keeps identifiers sane.
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

	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateIncludeLiteral checks the text between the quotes of an include
// directive. Anything non-empty without line breaks is accepted; the
// canonicalizer decides whether it exists.
func ValidateIncludeLiteral(literal string) error {
	if strings.TrimSpace(literal) == "" {
		return New(ErrCodeInvalidPath, "include path cannot be empty")
	}
	if strings.ContainsAny(literal, "\x00\r\n") {
		return New(ErrCodeInvalidPath, "include path contains invalid characters")
	}
	return nil
}
