// Package cleanup locates previously generated prompt documents and deletes
// those whose name matches a currently valid directory.
package cleanup

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dir2prompt/dir2prompt/internal/ignore"
	"github.com/dir2prompt/dir2prompt/internal/prompt"
	"github.com/dir2prompt/dir2prompt/internal/types"
	"github.com/dir2prompt/dir2prompt/internal/walker"
)

const (
	// errorScanTreeFormat reports a traversal failure while locating prompt files.
	errorScanTreeFormat = "%w: scanning %s for prompt files: %v"
	// errorRemoveFileFormat reports a failed deletion. Deletion failures abort
	// the remaining batch: they usually indicate a permissions or filesystem
	// problem that would affect subsequent deletes too.
	errorRemoveFileFormat = "%w: removing %s: %v"
)

// Clean removes every <name>_prompt.txt file under rootPath whose base name
// matches a currently valid directory name. The valid-name set is the
// directory name collection seeded with the root's own name. When report is
// non-nil it is invoked once per removed file. The count of removed files is
// returned; zero removals is an informational result, not an error.
func Clean(rootPath string, directoryMatcher *ignore.Matcher, report func(removedPath string)) (int, error) {
	rootAbsolutePath, rootName, rootError := prompt.ResolveRoot(rootPath)
	if rootError != nil {
		return 0, rootError
	}

	validDirectoryNames, collectError := walker.CollectDirectoryNames(rootAbsolutePath, directoryMatcher)
	if collectError != nil {
		return 0, collectError
	}
	validDirectoryNames[rootName] = struct{}{}

	candidatePaths, findError := findPromptFiles(rootAbsolutePath)
	if findError != nil {
		return 0, findError
	}

	removedCount := 0
	for _, candidatePath := range candidatePaths {
		baseName := strings.TrimSuffix(filepath.Base(candidatePath), types.PromptFileSuffix)
		if _, isValid := validDirectoryNames[baseName]; !isValid {
			continue
		}
		if removeError := os.Remove(candidatePath); removeError != nil {
			return removedCount, fmt.Errorf(errorRemoveFileFormat, types.ErrIO, candidatePath, removeError)
		}
		if report != nil {
			report(candidatePath)
		}
		removedCount++
	}
	return removedCount, nil
}

// findPromptFiles walks the entire tree, descending into directories even if
// they would normally be ignored, and returns every file whose name ends
// with the prompt document suffix.
func findPromptFiles(rootAbsolutePath string) ([]string, error) {
	var candidatePaths []string
	walkError := filepath.WalkDir(rootAbsolutePath, func(walkedPath string, directoryEntry fs.DirEntry, accessError error) error {
		if accessError != nil {
			return fmt.Errorf(errorScanTreeFormat, types.ErrIO, walkedPath, accessError)
		}
		if directoryEntry.IsDir() {
			return nil
		}
		if strings.HasSuffix(directoryEntry.Name(), types.PromptFileSuffix) {
			candidatePaths = append(candidatePaths, walkedPath)
		}
		return nil
	})
	if walkError != nil {
		return nil, walkError
	}
	return candidatePaths, nil
}
