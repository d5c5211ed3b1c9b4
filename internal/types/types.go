// Package types defines cross-package constants and error values shared by the d2p engine.
package types

import "errors"

const (
	// PromptFileSuffix is the suffix carried by every generated prompt document.
	PromptFileSuffix = "_prompt.txt"

	// BinaryOrUnreadablePlaceholder replaces file content that cannot be read as text.
	BinaryOrUnreadablePlaceholder = "BINARY OR UNREADABLE"

	// EmptyFilePlaceholder replaces file content that is empty or all whitespace.
	EmptyFilePlaceholder = "EMPTY FILE"
)

// AllowedDotfileNames lists the dot-entries that survive the default dotfile
// exclusion. Example environment files are the only exceptions.
var AllowedDotfileNames = map[string]struct{}{
	".env.example": {},
	".example.env": {},
}

// ErrInvalidInput reports a scan root that does not exist, is not a directory,
// or has no resolvable base name.
var ErrInvalidInput = errors.New("invalid input")

// ErrInvalidPattern reports an ignore or filter entry that is not a
// syntactically valid glob pattern.
var ErrInvalidPattern = errors.New("invalid pattern")

// ErrIO reports an unreadable directory during traversal or a failed file
// deletion during cleanup. Errors wrapping ErrIO abort the whole operation.
var ErrIO = errors.New("io failure")
