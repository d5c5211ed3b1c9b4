// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dir2prompt/dir2prompt/internal/cleanup"
	"github.com/dir2prompt/dir2prompt/internal/config"
	"github.com/dir2prompt/dir2prompt/internal/ignore"
	"github.com/dir2prompt/dir2prompt/internal/prompt"
	"github.com/dir2prompt/dir2prompt/internal/services/clipboard"
	"github.com/dir2prompt/dir2prompt/internal/tokenizer"
	"github.com/dir2prompt/dir2prompt/internal/utils"
)

const (
	filterFlagName            = "filter"
	ignoreDirectoryFlagName   = "ignore-dir"
	ignoreFileFlagName        = "ignore-file"
	outputPathFlagName        = "outpath"
	outputFileFlagName        = "outfile"
	configurationFlagName     = "config"
	cleanFlagName             = "clean"
	treeFlagName              = "tree"
	copyFlagName              = "cp"
	tokensFlagName            = "tokens"
	modelFlagName             = "model"
	matchModeFlagName         = "match-mode"
	versionFlagName           = "version"
	versionTemplate           = "d2p version: %s\n"
	defaultDirectory          = "."
	defaultOutputPath         = "."
	defaultTokenizerModelName = "gpt-4o"
	promptFileBaseSuffix      = "_prompt"
	promptFileExtension       = ".txt"

	rootUse              = "d2p [directory]"
	rootShortDescription = "generate an LLM prompt for a directory"
	rootLongDescription  = `d2p renders a directory tree and stitches it together with the contents
of every non-ignored file into a single prompt document.
Use --clean to remove previously generated prompt files instead.`
	rootUsageExample = `  # Generate a prompt for the current directory
  d2p

  # Only include Go and Markdown files, copy the result to the clipboard
  d2p --filter .go .md --cp .

  # Remove stale <dir>_prompt.txt files under the project
  d2p --clean .`

	filterFlagDescription          = "include only files whose relative path ends with one of these suffixes"
	ignoreDirectoryFlagDescription = "additional directory names or patterns to ignore"
	ignoreFileFlagDescription      = "additional file names, extensions, or patterns to ignore"
	outputPathFlagDescription      = "output directory for the prompt file"
	outputFileFlagDescription      = "output file name without extension (default: <dir>_prompt)"
	configurationFlagDescription   = "path to a custom configuration file (default: embedded configuration)"
	cleanFlagDescription           = "remove generated <dir>_prompt.txt files instead of generating"
	treeFlagDescription            = "only render the directory tree and print it to the terminal"
	copyFlagDescription            = "copy the generated prompt to the clipboard"
	tokensFlagDescription          = "report the token count of the generated prompt"
	modelFlagDescription           = "tokenizer model used for token counting"
	matchModeFlagDescription       = "pattern matching granularity: name or relative_path"
	versionFlagDescription         = "display application version"

	promptSavedMessageFormat     = "Prompt saved to %s"
	promptCopiedMessage          = "Prompt copied to clipboard."
	removedFileMessageFormat     = "Removed %s"
	removedCountMessageFormat    = "Removed %d prompt file(s)."
	nothingToCleanMessageFormat  = "No matching prompt files found to clean under '%s'."
	tokenCountMessageFormat      = "Prompt is %d tokens (%s)."
	warningClipboardFormat       = "Warning: failed to copy prompt to clipboard: %v\n"
	warningTokenCountFormat      = "Warning: failed to count tokens: %v\n"
)

// generationOptions stores the parsed flag values for one invocation.
type generationOptions struct {
	filters           []string
	ignoreDirectories []string
	ignoreFiles       []string
	outputPath        string
	outputFileName    string
	configurationPath string
	cleanEnabled      bool
	treeOnly          bool
	copyToClipboard   bool
	tokensEnabled     bool
	tokenizerModel    string
	matchMode         ignore.MatchMode
}

// Execute runs the d2p application, logging progress through the supplied logger.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(logger)
	return rootCommand.Execute()
}

// ExecuteWithArguments runs the application with an explicit argument list
// instead of os.Args. Embedders forward their own argument vectors here.
func ExecuteWithArguments(logger *zap.Logger, arguments []string) error {
	rootCommand := createRootCommand(logger)
	rootCommand.SetArgs(arguments)
	return rootCommand.Execute()
}

// createRootCommand builds the root cobra command carrying every flag of the tool.
func createRootCommand(logger *zap.Logger) *cobra.Command {
	var showVersion bool
	var options generationOptions

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			scanDirectory := defaultDirectory
			if len(arguments) > 0 {
				scanDirectory = arguments[0]
			}
			if options.cleanEnabled {
				return runClean(logger, scanDirectory, options)
			}
			return runGenerate(logger, scanDirectory, options)
		},
	}

	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.Flags().StringSliceVar(&options.filters, filterFlagName, nil, filterFlagDescription)
	rootCommand.Flags().StringArrayVar(&options.ignoreDirectories, ignoreDirectoryFlagName, nil, ignoreDirectoryFlagDescription)
	rootCommand.Flags().StringArrayVar(&options.ignoreFiles, ignoreFileFlagName, nil, ignoreFileFlagDescription)
	rootCommand.Flags().StringVar(&options.outputPath, outputPathFlagName, defaultOutputPath, outputPathFlagDescription)
	rootCommand.Flags().StringVar(&options.outputFileName, outputFileFlagName, "", outputFileFlagDescription)
	rootCommand.Flags().StringVar(&options.configurationPath, configurationFlagName, "", configurationFlagDescription)
	rootCommand.Flags().BoolVar(&options.cleanEnabled, cleanFlagName, false, cleanFlagDescription)
	rootCommand.Flags().BoolVar(&options.treeOnly, treeFlagName, false, treeFlagDescription)
	rootCommand.Flags().BoolVar(&options.copyToClipboard, copyFlagName, false, copyFlagDescription)
	rootCommand.Flags().BoolVar(&options.tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	rootCommand.Flags().StringVar(&options.tokenizerModel, modelFlagName, defaultTokenizerModelName, modelFlagDescription)
	registerMatchModeFlag(rootCommand.Flags(), &options.matchMode)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// resolveConfiguration loads the embedded defaults or a custom configuration
// file and applies flag-supplied additions and overrides.
func resolveConfiguration(options generationOptions) (config.IgnoreConfiguration, error) {
	var configuration config.IgnoreConfiguration
	var configurationError error
	if options.configurationPath != "" {
		configuration, configurationError = config.LoadIgnoreConfiguration(options.configurationPath)
	} else {
		configuration, configurationError = config.DefaultIgnoreConfiguration()
	}
	if configurationError != nil {
		return config.IgnoreConfiguration{}, configurationError
	}
	merged := configuration.Merge(options.ignoreDirectories, options.ignoreFiles)
	if options.matchMode != "" {
		merged.MatchMode = options.matchMode
	}
	return merged, nil
}

// runGenerate builds the prompt document for the scan directory, then prints,
// copies, counts, and saves it according to the flags.
func runGenerate(logger *zap.Logger, scanDirectory string, options generationOptions) error {
	configuration, configurationError := resolveConfiguration(options)
	if configurationError != nil {
		return configurationError
	}

	_, rootName, rootError := prompt.ResolveRoot(scanDirectory)
	if rootError != nil {
		return rootError
	}

	document, buildError := prompt.Build(prompt.BuildOptions{
		RootPath:          scanDirectory,
		Filters:           options.filters,
		IgnoreDirectories: configuration.IgnoreDirectories,
		IgnoreFiles:       configuration.IgnoreFiles,
		MatchMode:         configuration.MatchMode,
		TreeOnly:          options.treeOnly,
	})
	if buildError != nil {
		return buildError
	}

	if options.treeOnly {
		fmt.Println(document)
	}

	if options.copyToClipboard {
		copier := clipboard.NewSystemCopier()
		if copyError := copier.Copy(document); copyError != nil {
			fmt.Fprintf(os.Stderr, warningClipboardFormat, copyError)
		} else {
			logger.Info(promptCopiedMessage)
		}
	}

	if options.tokensEnabled {
		reportTokenCount(logger, document, options.tokenizerModel)
	}

	outputFileName := options.outputFileName
	if outputFileName == "" {
		outputFileName = rootName + promptFileBaseSuffix
	}
	outputFilePath := filepath.Join(options.outputPath, outputFileName+promptFileExtension)
	if saveError := prompt.SaveDocument(document, outputFilePath); saveError != nil {
		return saveError
	}
	logger.Info(fmt.Sprintf(promptSavedMessageFormat, outputFilePath))
	return nil
}

// runClean deletes stale prompt documents under the scan directory.
func runClean(logger *zap.Logger, scanDirectory string, options generationOptions) error {
	configuration, configurationError := resolveConfiguration(options)
	if configurationError != nil {
		return configurationError
	}

	directoryMatcher, compileError := ignore.Compile(configuration.IgnoreDirectories, configuration.MatchMode)
	if compileError != nil {
		return compileError
	}

	removedCount, cleanError := cleanup.Clean(scanDirectory, directoryMatcher, func(removedPath string) {
		logger.Info(fmt.Sprintf(removedFileMessageFormat, removedPath))
	})
	if cleanError != nil {
		return cleanError
	}

	if removedCount == 0 {
		logger.Info(fmt.Sprintf(nothingToCleanMessageFormat, scanDirectory))
		return nil
	}
	logger.Info(fmt.Sprintf(removedCountMessageFormat, removedCount))
	return nil
}

// reportTokenCount logs the approximate token footprint of the document.
// Token counting is best effort and never fails the generation.
func reportTokenCount(logger *zap.Logger, document string, modelName string) {
	counter, resolvedModel, counterError := tokenizer.NewCounter(modelName)
	if counterError != nil {
		fmt.Fprintf(os.Stderr, warningTokenCountFormat, counterError)
		return
	}
	tokenCount, countError := counter.CountString(document)
	if countError != nil {
		fmt.Fprintf(os.Stderr, warningTokenCountFormat, countError)
		return
	}
	logger.Info(fmt.Sprintf(tokenCountMessageFormat, tokenCount, resolvedModel))
}
