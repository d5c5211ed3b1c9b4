// Package dir2prompt exposes the prompt engine to embedders as two thin
// entry points: BuildPrompt for direct document generation and RunCLI for
// forwarding a full argument vector. Neither depends on any host runtime's
// calling convention; both wrap the internal engine without added behavior.
package dir2prompt

import (
	"fmt"

	"github.com/dir2prompt/dir2prompt/internal/cleanup"
	"github.com/dir2prompt/dir2prompt/internal/cli"
	"github.com/dir2prompt/dir2prompt/internal/ignore"
	"github.com/dir2prompt/dir2prompt/internal/prompt"
	"github.com/dir2prompt/dir2prompt/internal/utils"
)

// MatchModeName and MatchModeRelativePath re-export the matching
// granularities accepted by BuildPrompt and Clean.
const (
	MatchModeName         = ignore.MatchModeName
	MatchModeRelativePath = ignore.MatchModeRelativePath
)

// BuildPrompt generates the prompt document for rootPath using the supplied
// ignore lists as the complete specification; embedders merge defaults
// themselves. An empty matchMode defaults to name granularity.
func BuildPrompt(rootPath string, filters []string, ignoreDirectories []string, ignoreFiles []string, matchMode ignore.MatchMode, treeOnly bool) (string, error) {
	return prompt.Build(prompt.BuildOptions{
		RootPath:          rootPath,
		Filters:           filters,
		IgnoreDirectories: ignoreDirectories,
		IgnoreFiles:       ignoreFiles,
		MatchMode:         matchMode,
		TreeOnly:          treeOnly,
	})
}

// Clean removes stale generated prompt documents under rootPath and returns
// how many files were deleted.
func Clean(rootPath string, ignoreDirectories []string, matchMode ignore.MatchMode) (int, error) {
	directoryMatcher, compileError := ignore.Compile(ignoreDirectories, matchMode)
	if compileError != nil {
		return 0, compileError
	}
	return cleanup.Clean(rootPath, directoryMatcher, nil)
}

// RunCLI executes the command line interface with the supplied argument
// vector (excluding the program name).
func RunCLI(arguments []string) error {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger()
	if loggerInitializationError != nil {
		return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError)
	}
	defer loggerInstance.Sync()
	return cli.ExecuteWithArguments(loggerInstance, arguments)
}
