package prompt

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dir2prompt/dir2prompt/internal/types"
)

const (
	// temporaryFilePattern names the staging file used for atomic writes.
	// The dot prefix keeps a leftover from a crashed run out of later scans.
	temporaryFilePattern = ".d2p-*.tmp"

	// errorCreateTemporaryFormat reports a staging file creation failure.
	errorCreateTemporaryFormat = "%w: creating temporary file in %s: %v"
	// errorWriteDocumentFormat reports a staging file write failure.
	errorWriteDocumentFormat = "%w: writing document to %s: %v"
	// errorRenameDocumentFormat reports a failure to move the staged document into place.
	errorRenameDocumentFormat = "%w: moving document to %s: %v"
)

// SaveDocument writes the document atomically: the content lands in a
// temporary file beside the target and is renamed into place only after the
// whole write succeeds, so a failed generation never leaves a partial
// output file on disk.
func SaveDocument(document string, outputFilePath string) error {
	outputDirectory := filepath.Dir(outputFilePath)
	temporaryFile, createError := os.CreateTemp(outputDirectory, temporaryFilePattern)
	if createError != nil {
		return fmt.Errorf(errorCreateTemporaryFormat, types.ErrIO, outputDirectory, createError)
	}
	temporaryPath := temporaryFile.Name()

	if _, writeError := temporaryFile.WriteString(document); writeError != nil {
		temporaryFile.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf(errorWriteDocumentFormat, types.ErrIO, temporaryPath, writeError)
	}
	if closeError := temporaryFile.Close(); closeError != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf(errorWriteDocumentFormat, types.ErrIO, temporaryPath, closeError)
	}
	if renameError := os.Rename(temporaryPath, outputFilePath); renameError != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf(errorRenameDocumentFormat, types.ErrIO, outputFilePath, renameError)
	}
	return nil
}
