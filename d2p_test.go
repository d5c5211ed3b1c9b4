package dir2prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTestFile creates a file with the specified content, failing the test on error.
func writeTestFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

// TestBuildPrompt exercises the embedding entry point end to end.
func TestBuildPrompt(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	rootName := filepath.Base(rootDirectory)
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "main.go"), "package main\n")

	document, buildError := BuildPrompt(rootDirectory, nil, nil, nil, MatchModeName, false)
	if buildError != nil {
		testingHandle.Fatalf("BuildPrompt failed: %v", buildError)
	}
	if !strings.HasPrefix(document, "<context>\n<directory_tree>\n"+rootName+"/\n") {
		testingHandle.Fatalf("unexpected document prefix:\n%s", document)
	}
	if !strings.Contains(document, "<path>main.go</path>") {
		testingHandle.Fatalf("document missing file section:\n%s", document)
	}
}

// TestClean exercises the embedding cleanup entry point.
func TestClean(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	if makeDirError := os.MkdirAll(filepath.Join(rootDirectory, "src"), 0o755); makeDirError != nil {
		testingHandle.Fatalf("failed to create fixture: %v", makeDirError)
	}
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "src_prompt.txt"), "stale\n")

	removedCount, cleanError := Clean(rootDirectory, nil, MatchModeName)
	if cleanError != nil {
		testingHandle.Fatalf("Clean failed: %v", cleanError)
	}
	if removedCount != 1 {
		testingHandle.Fatalf("expected 1 removal, got %d", removedCount)
	}
	if _, statError := os.Stat(filepath.Join(rootDirectory, "src_prompt.txt")); !os.IsNotExist(statError) {
		testingHandle.Fatalf("src_prompt.txt must be removed, stat returned %v", statError)
	}
}
