package walker

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dir2prompt/dir2prompt/internal/ignore"
	"github.com/dir2prompt/dir2prompt/internal/types"
)

// CollectDirectoryNames gathers the bare names of every directory below
// rootAbsolutePath that is neither hidden nor ignored. Ignored directories
// are not entered, so a directory reachable only through an ignored ancestor
// contributes no name. The result backs the auto-exclusion of generated
// prompt documents and the validation of cleanup targets.
func CollectDirectoryNames(rootAbsolutePath string, directoryMatcher *ignore.Matcher) (map[string]struct{}, error) {
	directoryNames := make(map[string]struct{})
	collectError := collectDirectoryNames(rootAbsolutePath, "", directoryMatcher, directoryNames)
	if collectError != nil {
		return nil, collectError
	}
	return directoryNames, nil
}

func collectDirectoryNames(
	absoluteDirectoryPath string,
	relativePrefix string,
	directoryMatcher *ignore.Matcher,
	directoryNames map[string]struct{},
) error {
	directoryEntries, readDirectoryError := os.ReadDir(absoluteDirectoryPath)
	if readDirectoryError != nil {
		return fmt.Errorf(errorReadDirectoryFormat, types.ErrIO, absoluteDirectoryPath, readDirectoryError)
	}

	for _, directoryEntry := range directoryEntries {
		if !directoryEntry.IsDir() {
			continue
		}
		entryName := directoryEntry.Name()
		if strings.HasPrefix(entryName, ".") {
			continue
		}
		entryRelativePath := path.Join(relativePrefix, entryName)
		if directoryMatcher.MatchesPath(entryRelativePath) {
			continue
		}
		directoryNames[entryName] = struct{}{}
		childAbsolutePath := filepath.Join(absoluteDirectoryPath, entryName)
		if collectError := collectDirectoryNames(childAbsolutePath, entryRelativePath, directoryMatcher, directoryNames); collectError != nil {
			return collectError
		}
	}
	return nil
}
