// Package tokenizer estimates the token footprint of generated documents.
package tokenizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

const (
	defaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"

	// errorFallbackEncodingFormat reports a failure to initialize the fallback encoding.
	errorFallbackEncodingFormat = "initialize fallback tokenizer: %w"
)

// tiktokenCounter wraps a tiktoken encoding.
type tiktokenCounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// Name returns the resolved model or encoding name.
func (counter tiktokenCounter) Name() string {
	return counter.name
}

// CountString returns the number of tokens the encoding produces for input.
func (counter tiktokenCounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errors.New("nil tiktoken encoder")
	}
	tokenIdentifiers := counter.encoding.Encode(input, nil, nil)
	return len(tokenIdentifiers), nil
}

// NewCounter returns a Counter for the requested model name. Unknown models
// fall back to the cl100k_base encoding; the second return value is the
// name actually resolved.
func NewCounter(modelName string) (Counter, string, error) {
	resolvedModel := strings.ToLower(strings.TrimSpace(modelName))
	if resolvedModel == "" {
		resolvedModel = defaultModel
	}

	encoding, encodingError := tiktoken.EncodingForModel(resolvedModel)
	if encodingError == nil && encoding != nil {
		return tiktokenCounter{encoding: encoding, name: resolvedModel}, resolvedModel, nil
	}

	fallbackEncoding, fallbackError := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackError != nil {
		return nil, "", fmt.Errorf(errorFallbackEncodingFormat, fallbackError)
	}
	return tiktokenCounter{encoding: fallbackEncoding, name: defaultEncodingName}, defaultEncodingName, nil
}
