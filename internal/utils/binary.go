package utils

import (
	"bytes"
	"unicode/utf8"
)

// IsBinary reports whether the provided byte slice appears to contain binary
// data. Content is considered binary when it is not valid UTF-8 or contains a
// NUL byte.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if !utf8.Valid(data) {
		return true
	}
	return bytes.IndexByte(data, 0) >= 0
}
