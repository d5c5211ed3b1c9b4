// Package ignore compiles ignore specifications into matchable predicates.
//
// An ignore specification is an ordered list of strings. Each entry is a
// literal name, a literal extension, or a shell-style glob pattern. Entries
// are OR-ed: a candidate is ignored as soon as any entry matches, and later
// entries never override earlier ones.
package ignore

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/dir2prompt/dir2prompt/internal/types"
)

// MatchMode selects the granularity glob patterns are evaluated against.
type MatchMode string

const (
	// MatchModeName evaluates every pattern against the bare entry name.
	MatchModeName MatchMode = "name"
	// MatchModeRelativePath evaluates patterns against the candidate's path
	// relative to the scan root, enabling nested rules such as "src/*.bak".
	MatchModeRelativePath MatchMode = "relative_path"
)

const (
	pathSegmentSeparator = "/"
	extensionDotPrefix   = "."

	// errorCompilePatternFormat reports an ignore entry that fails glob compilation.
	errorCompilePatternFormat = "%w: compiling ignore pattern %q: %v"
	// errorUnknownMatchModeFormat reports an unrecognized matching granularity.
	errorUnknownMatchModeFormat = "%w: unknown match mode %q"
)

// compiledPattern pairs one ignore spec entry with its matchable glob form.
type compiledPattern struct {
	literal string
	matcher glob.Glob
}

// Matcher is the compiled form of one ignore specification. The zero value
// is not usable; construct instances with Compile.
type Matcher struct {
	patterns     []compiledPattern
	literalNames map[string]struct{}
	extensions   map[string]struct{}
	mode         MatchMode
}

// Compile turns an ordered ignore specification into a Matcher. Blank entries
// are skipped. The call fails with an error wrapping types.ErrInvalidPattern
// when an entry is not a syntactically valid glob or the mode is unknown.
func Compile(specEntries []string, mode MatchMode) (*Matcher, error) {
	if mode == "" {
		mode = MatchModeName
	}
	if mode != MatchModeName && mode != MatchModeRelativePath {
		return nil, fmt.Errorf(errorUnknownMatchModeFormat, types.ErrInvalidPattern, mode)
	}

	matcher := &Matcher{
		literalNames: make(map[string]struct{}),
		extensions:   make(map[string]struct{}, len(specEntries)),
		mode:         mode,
	}
	for _, specEntry := range specEntries {
		trimmedEntry := strings.TrimSpace(specEntry)
		if trimmedEntry == "" {
			continue
		}
		compiledGlob, compileError := glob.Compile(trimmedEntry, '/')
		if compileError != nil {
			return nil, fmt.Errorf(errorCompilePatternFormat, types.ErrInvalidPattern, trimmedEntry, compileError)
		}
		matcher.patterns = append(matcher.patterns, compiledPattern{literal: trimmedEntry, matcher: compiledGlob})
		matcher.extensions[strings.ToLower(strings.TrimPrefix(trimmedEntry, extensionDotPrefix))] = struct{}{}
	}
	return matcher, nil
}

// AddLiteralNames registers additional exact-name entries that bypass glob
// compilation entirely. The engine uses this for generated prompt document
// names, which may contain characters that are not valid glob syntax.
func (matcher *Matcher) AddLiteralNames(entryNames ...string) {
	for _, entryName := range entryNames {
		matcher.literalNames[entryName] = struct{}{}
	}
}

// Mode returns the configured matching granularity.
func (matcher *Matcher) Mode() MatchMode {
	return matcher.mode
}

// MatchesName reports whether the bare entry name is ignored, either as an
// exact literal or by glob evaluation. Matching is case-sensitive.
func (matcher *Matcher) MatchesName(entryName string) bool {
	if _, isLiteral := matcher.literalNames[entryName]; isLiteral {
		return true
	}
	for _, pattern := range matcher.patterns {
		if pattern.literal == entryName || pattern.matcher.Match(entryName) {
			return true
		}
	}
	return false
}

// MatchesPath reports whether the candidate's slash-separated path relative
// to the scan root is ignored. In name mode only the final path segment is
// consulted; in relative-path mode patterns run against the whole path while
// registered literal names still match the final segment.
func (matcher *Matcher) MatchesPath(relativePath string) bool {
	finalSegment := relativePath
	if separatorIndex := strings.LastIndex(relativePath, pathSegmentSeparator); separatorIndex >= 0 {
		finalSegment = relativePath[separatorIndex+1:]
	}
	if matcher.mode == MatchModeName {
		return matcher.MatchesName(finalSegment)
	}
	if _, isLiteral := matcher.literalNames[finalSegment]; isLiteral {
		return true
	}
	for _, pattern := range matcher.patterns {
		if pattern.literal == relativePath || pattern.matcher.Match(relativePath) {
			return true
		}
	}
	return false
}

// MatchesExtension reports whether the entry name's extension is ignored.
// A leading dot in the original spec entry is optional and the comparison is
// case-insensitive; this is the only case-insensitive granularity.
func (matcher *Matcher) MatchesExtension(entryName string) bool {
	extension := strings.TrimPrefix(filepath.Ext(entryName), extensionDotPrefix)
	if extension == "" {
		return false
	}
	_, ignored := matcher.extensions[strings.ToLower(extension)]
	return ignored
}
