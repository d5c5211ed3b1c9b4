// Package prompt assembles a rendered directory tree and the contents of the
// collected files into the final prompt document.
package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dir2prompt/dir2prompt/internal/ignore"
	"github.com/dir2prompt/dir2prompt/internal/types"
	"github.com/dir2prompt/dir2prompt/internal/utils"
	"github.com/dir2prompt/dir2prompt/internal/walker"
)

const (
	contextOpenTag        = "<context>\n"
	contextCloseTag       = "</context>"
	directoryTreeOpenTag  = "<directory_tree>\n"
	directoryTreeCloseTag = "</directory_tree>\n\n"
	filesOpenTag          = "<files>\n\n"
	filesCloseTag         = "</files>\n"
	fileOpenTag           = "<file>\n"
	fileCloseTag          = "</file>\n\n"
	pathOpenTag           = "<path>"
	pathCloseTag          = "</path>\n"
	contentOpenTag        = "<content>\n"
	contentCloseTag       = "</content>\n"
	rootLineSuffix        = "/\n"

	// errorResolveRootFormat reports a scan root that cannot be resolved.
	errorResolveRootFormat = "%w: resolving directory %q: %v"
	// errorRootNotDirectoryFormat reports a scan root that is not an existing directory.
	errorRootNotDirectoryFormat = "%w: %q is not an existing directory"
	// errorRootNameFormat reports a scan root with no resolvable base name.
	errorRootNameFormat = "%w: cannot determine the name of directory %q"
)

// BuildOptions carries the already-validated parameters of one generation
// run. Ignore lists are ordered; all entries are OR-ed.
type BuildOptions struct {
	// RootPath is the directory to scan; relative paths are resolved against
	// the working directory.
	RootPath string
	// Filters restricts included files to those whose relative path ends
	// with one of the given strings. An empty list includes every file.
	Filters []string
	// IgnoreDirectories and IgnoreFiles hold the merged ignore lists
	// (defaults plus caller additions).
	IgnoreDirectories []string
	IgnoreFiles       []string
	// MatchMode selects the pattern matching granularity.
	MatchMode ignore.MatchMode
	// TreeOnly short-circuits assembly and returns just the rendered tree.
	TreeOnly bool
}

// Build compiles the ignore lists, walks the scan root, and assembles the
// prompt document. Previously generated prompt documents are excluded
// automatically: for every valid directory name (the root included) the file
// <name>_prompt.txt is added to the file ignore set, so regenerating a
// prompt never ingests an earlier prompt as input.
func Build(options BuildOptions) (string, error) {
	rootAbsolutePath, rootName, rootError := ResolveRoot(options.RootPath)
	if rootError != nil {
		return "", rootError
	}

	directoryMatcher, directoryCompileError := ignore.Compile(options.IgnoreDirectories, options.MatchMode)
	if directoryCompileError != nil {
		return "", directoryCompileError
	}
	fileMatcher, fileCompileError := ignore.Compile(options.IgnoreFiles, options.MatchMode)
	if fileCompileError != nil {
		return "", fileCompileError
	}

	directoryNames, collectError := walker.CollectDirectoryNames(rootAbsolutePath, directoryMatcher)
	if collectError != nil {
		return "", collectError
	}
	directoryNames[rootName] = struct{}{}
	for _, directoryName := range sortedNames(directoryNames) {
		fileMatcher.AddLiteralNames(directoryName + types.PromptFileSuffix)
	}

	treeWalker := &walker.Walker{DirectoryMatcher: directoryMatcher, FileMatcher: fileMatcher}
	treeText, filePaths, walkError := treeWalker.Walk(rootAbsolutePath)
	if walkError != nil {
		return "", walkError
	}

	if options.TreeOnly {
		return rootName + rootLineSuffix + treeText, nil
	}
	return Assemble(treeText, filePaths, options.Filters, rootAbsolutePath), nil
}

// ResolveRoot canonicalizes the scan root. It fails with an error wrapping
// types.ErrInvalidInput when the path does not resolve, is not an existing
// directory, or has no usable base name. The root's own name is never
// subject to ignore rules.
func ResolveRoot(rootPath string) (string, string, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return "", "", fmt.Errorf(errorResolveRootFormat, types.ErrInvalidInput, rootPath, absolutePathError)
	}
	rootInformation, statError := os.Stat(absoluteRootPath)
	if statError != nil || !rootInformation.IsDir() {
		return "", "", fmt.Errorf(errorRootNotDirectoryFormat, types.ErrInvalidInput, rootPath)
	}
	rootName := filepath.Base(absoluteRootPath)
	if rootName == string(filepath.Separator) || rootName == "." {
		return "", "", fmt.Errorf(errorRootNameFormat, types.ErrInvalidInput, rootPath)
	}
	return absoluteRootPath, rootName, nil
}

// Assemble stitches the rendered tree and the collected file contents into
// the final document. The output is whitespace-significant; every tag and
// blank line below is part of the external contract.
func Assemble(treeText string, filePaths []string, filters []string, rootAbsolutePath string) string {
	rootName := filepath.Base(rootAbsolutePath)

	var documentBuilder strings.Builder
	documentBuilder.WriteString(contextOpenTag)
	documentBuilder.WriteString(directoryTreeOpenTag)
	documentBuilder.WriteString(rootName + rootLineSuffix)
	documentBuilder.WriteString(treeText)
	documentBuilder.WriteString(directoryTreeCloseTag)
	documentBuilder.WriteString(filesOpenTag)

	for _, relativeFilePath := range filePaths {
		if !matchesAnyFilter(relativeFilePath, filters) {
			continue
		}
		absoluteFilePath := filepath.Join(rootAbsolutePath, filepath.FromSlash(relativeFilePath))
		documentBuilder.WriteString(fileOpenTag)
		documentBuilder.WriteString(pathOpenTag + relativeFilePath + pathCloseTag)
		documentBuilder.WriteString(contentOpenTag)
		documentBuilder.WriteString(readFileContent(absoluteFilePath))
		documentBuilder.WriteString("\n")
		documentBuilder.WriteString(contentCloseTag)
		documentBuilder.WriteString(fileCloseTag)
	}

	documentBuilder.WriteString(filesCloseTag)
	documentBuilder.WriteString(contextCloseTag)
	return documentBuilder.String()
}

// matchesAnyFilter reports whether the relative path survives the filter set.
// Filters are plain suffix matches, not extension-aware.
func matchesAnyFilter(relativeFilePath string, filters []string) bool {
	if len(filters) == 0 {
		return true
	}
	for _, filterSuffix := range filters {
		if strings.HasSuffix(relativeFilePath, filterSuffix) {
			return true
		}
	}
	return false
}

// readFileContent returns the file's text, or a placeholder for unreadable
// or binary content, or for content that is empty or all whitespace. Content
// failures never abort assembly; an unreadable or binary file is an expected
// occurrence in arbitrary source trees.
func readFileContent(absoluteFilePath string) string {
	fileBytes, readError := os.ReadFile(absoluteFilePath)
	if readError != nil || utils.IsBinary(fileBytes) {
		return types.BinaryOrUnreadablePlaceholder
	}
	fileContent := string(fileBytes)
	if strings.TrimSpace(fileContent) == "" {
		return types.EmptyFilePlaceholder
	}
	return fileContent
}

// sortedNames returns the set's keys in lexicographic order so matcher
// construction stays deterministic across runs.
func sortedNames(nameSet map[string]struct{}) []string {
	names := make([]string, 0, len(nameSet))
	for name := range nameSet {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
