// Package walker traverses a directory tree, applying ignore predicates to
// directories and files, and renders the box-drawing tree diagram while
// collecting the relative paths of every visible file.
package walker

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dir2prompt/dir2prompt/internal/ignore"
	"github.com/dir2prompt/dir2prompt/internal/types"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "
	directorySuffix     = "/"
	newline             = "\n"

	// errorReadDirectoryFormat reports a directory listing failure during traversal.
	errorReadDirectoryFormat = "%w: reading directory %s: %v"
)

// visibleEntry is a directory child known not to be ignored.
type visibleEntry struct {
	name        string
	isDirectory bool
}

// Walker applies compiled ignore predicates while visiting a directory tree.
// Both matchers must be non-nil.
type Walker struct {
	DirectoryMatcher *ignore.Matcher
	FileMatcher      *ignore.Matcher
}

// Walk visits rootAbsolutePath recursively and returns the rendered tree text
// together with the slash-separated root-relative paths of every visible
// file, in traversal order. The tree text does not include the root line;
// callers prepend the root name themselves. A directory that cannot be
// listed aborts the walk with an error wrapping types.ErrIO.
func (treeWalker *Walker) Walk(rootAbsolutePath string) (string, []string, error) {
	var treeBuilder strings.Builder
	var filePaths []string
	walkError := treeWalker.walkDirectory(rootAbsolutePath, "", "", &treeBuilder, &filePaths)
	if walkError != nil {
		return "", nil, walkError
	}
	return treeBuilder.String(), filePaths, nil
}

// walkDirectory renders one directory level and recurses into its visible
// subdirectories. Traversal assumes a finite, acyclic filesystem subtree.
func (treeWalker *Walker) walkDirectory(
	absoluteDirectoryPath string,
	relativePrefix string,
	indent string,
	treeBuilder *strings.Builder,
	filePaths *[]string,
) error {
	visibleEntries, listError := treeWalker.listVisibleEntries(absoluteDirectoryPath, relativePrefix)
	if listError != nil {
		return listError
	}

	for entryIndex, entry := range visibleEntries {
		isLastEntry := entryIndex == len(visibleEntries)-1
		connector := treeBranchConnector
		if isLastEntry {
			connector = treeLastConnector
		}

		treeBuilder.WriteString(indent)
		treeBuilder.WriteString(connector)
		treeBuilder.WriteString(entry.name)

		entryRelativePath := path.Join(relativePrefix, entry.name)
		if entry.isDirectory {
			treeBuilder.WriteString(directorySuffix)
			treeBuilder.WriteString(newline)
			childIndent := indent + treeBranchPadding
			if isLastEntry {
				childIndent = indent + treeLastPadding
			}
			childAbsolutePath := filepath.Join(absoluteDirectoryPath, entry.name)
			if walkError := treeWalker.walkDirectory(childAbsolutePath, entryRelativePath, childIndent, treeBuilder, filePaths); walkError != nil {
				return walkError
			}
		} else {
			treeBuilder.WriteString(newline)
			*filePaths = append(*filePaths, entryRelativePath)
		}
	}
	return nil
}

// listVisibleEntries lists the immediate children of a directory, drops
// hidden and ignored entries, and returns the survivors sorted in a single
// case-sensitive lexicographic order regardless of kind.
func (treeWalker *Walker) listVisibleEntries(absoluteDirectoryPath string, relativePrefix string) ([]visibleEntry, error) {
	directoryEntries, readDirectoryError := os.ReadDir(absoluteDirectoryPath)
	if readDirectoryError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, types.ErrIO, absoluteDirectoryPath, readDirectoryError)
	}

	visibleEntries := make([]visibleEntry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		entryName := directoryEntry.Name()
		if isHiddenName(entryName) {
			continue
		}
		entryRelativePath := path.Join(relativePrefix, entryName)
		if directoryEntry.IsDir() {
			if treeWalker.DirectoryMatcher.MatchesPath(entryRelativePath) {
				continue
			}
		} else {
			if treeWalker.FileMatcher.MatchesPath(entryRelativePath) || treeWalker.FileMatcher.MatchesExtension(entryName) {
				continue
			}
		}
		visibleEntries = append(visibleEntries, visibleEntry{name: entryName, isDirectory: directoryEntry.IsDir()})
	}

	sort.Slice(visibleEntries, func(firstIndex, secondIndex int) bool {
		return visibleEntries[firstIndex].name < visibleEntries[secondIndex].name
	})
	return visibleEntries, nil
}

// isHiddenName reports whether a directory entry is excluded by the default
// dotfile rule, honoring the example-env exception names.
func isHiddenName(entryName string) bool {
	if !strings.HasPrefix(entryName, ".") {
		return false
	}
	_, isAllowed := types.AllowedDotfileNames[entryName]
	return !isAllowed
}
