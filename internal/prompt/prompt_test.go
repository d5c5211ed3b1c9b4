package prompt

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dir2prompt/dir2prompt/internal/ignore"
	"github.com/dir2prompt/dir2prompt/internal/types"
)

// writeTestFile creates a file with the specified content, failing the test on error.
func writeTestFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

// TestAssembleDocumentFormat verifies the exact, whitespace-significant
// layout of the assembled document.
func TestAssembleDocumentFormat(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	rootName := filepath.Base(rootDirectory)
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "a.py"), "print('hi')\n")

	document := Assemble("└── a.py\n", []string{"a.py"}, nil, rootDirectory)

	expectedDocument := "<context>\n" +
		"<directory_tree>\n" +
		rootName + "/\n" +
		"└── a.py\n" +
		"</directory_tree>\n\n" +
		"<files>\n\n" +
		"<file>\n" +
		"<path>a.py</path>\n" +
		"<content>\nprint('hi')\n\n</content>\n" +
		"</file>\n\n" +
		"</files>\n" +
		"</context>"
	if document != expectedDocument {
		testingHandle.Fatalf("unexpected document:\ngot:\n%q\nwant:\n%q", document, expectedDocument)
	}
}

// TestAssemblePlaceholders verifies the whitespace-only and binary content
// placeholders.
func TestAssemblePlaceholders(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "empty.txt"), "  \n\t\n")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "blob.bin"), "\x00\x01\x02")

	document := Assemble("", []string{"empty.txt", "blob.bin"}, nil, rootDirectory)

	if !strings.Contains(document, "<content>\n"+types.EmptyFilePlaceholder+"\n</content>") {
		testingHandle.Fatalf("missing empty-file placeholder in:\n%s", document)
	}
	if !strings.Contains(document, "<content>\n"+types.BinaryOrUnreadablePlaceholder+"\n</content>") {
		testingHandle.Fatalf("missing binary placeholder in:\n%s", document)
	}
}

// TestAssembleMissingFileDegradesToPlaceholder verifies that a file listed
// but unreadable at assembly time never aborts the document.
func TestAssembleMissingFileDegradesToPlaceholder(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()

	document := Assemble("", []string{"vanished.txt"}, nil, rootDirectory)
	if !strings.Contains(document, types.BinaryOrUnreadablePlaceholder) {
		testingHandle.Fatalf("expected placeholder for unreadable file in:\n%s", document)
	}
}

// TestAssembleFilters verifies that an empty filter set includes every file
// while a non-empty set keeps exactly the suffix matches.
func TestAssembleFilters(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "main.go"), "package main\n")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "notes.md"), "# notes\n")
	filePaths := []string{"main.go", "notes.md"}

	unfiltered := Assemble("", filePaths, nil, rootDirectory)
	if !strings.Contains(unfiltered, "<path>main.go</path>") || !strings.Contains(unfiltered, "<path>notes.md</path>") {
		testingHandle.Fatalf("empty filter list must include every file:\n%s", unfiltered)
	}

	filtered := Assemble("", filePaths, []string{".go"}, rootDirectory)
	if !strings.Contains(filtered, "<path>main.go</path>") {
		testingHandle.Fatalf("filter .go must keep main.go:\n%s", filtered)
	}
	if strings.Contains(filtered, "<path>notes.md</path>") {
		testingHandle.Fatalf("filter .go must drop notes.md:\n%s", filtered)
	}
}

// TestBuildTreeOnly verifies the short-circuit that returns just the
// rendered tree without the context wrapper.
func TestBuildTreeOnly(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	rootName := filepath.Base(rootDirectory)
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "main.go"), "package main\n")

	treeDocument, buildError := Build(BuildOptions{RootPath: rootDirectory, TreeOnly: true})
	if buildError != nil {
		testingHandle.Fatalf("Build failed: %v", buildError)
	}

	expectedTree := rootName + "/\n└── main.go\n"
	if treeDocument != expectedTree {
		testingHandle.Fatalf("unexpected tree-only output:\ngot:\n%q\nwant:\n%q", treeDocument, expectedTree)
	}
}

// TestBuildIsIdempotent verifies that a previously generated prompt document
// sitting in the tree is auto-excluded, so two consecutive runs on an
// otherwise unchanged tree produce identical output.
func TestBuildIsIdempotent(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	rootName := filepath.Base(rootDirectory)
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "main.go"), "package main\n")

	buildOptions := BuildOptions{RootPath: rootDirectory}
	firstDocument, firstError := Build(buildOptions)
	if firstError != nil {
		testingHandle.Fatalf("first Build failed: %v", firstError)
	}

	// Simulate the CLI writing the document into the scanned tree.
	writeTestFile(testingHandle, filepath.Join(rootDirectory, rootName+types.PromptFileSuffix), firstDocument)

	secondDocument, secondError := Build(buildOptions)
	if secondError != nil {
		testingHandle.Fatalf("second Build failed: %v", secondError)
	}
	if firstDocument != secondDocument {
		testingHandle.Fatalf("generation is not idempotent:\nfirst:\n%q\nsecond:\n%q", firstDocument, secondDocument)
	}
}

// TestBuildExcludesNestedPromptDocuments verifies that prompt documents named
// after nested directories are also auto-excluded.
func TestBuildExcludesNestedPromptDocuments(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	if makeDirError := os.MkdirAll(filepath.Join(rootDirectory, "src"), 0o755); makeDirError != nil {
		testingHandle.Fatalf("failed to create fixture: %v", makeDirError)
	}
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "src", "a.go"), "package src\n")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "src", "src"+types.PromptFileSuffix), "stale prompt\n")

	document, buildError := Build(BuildOptions{RootPath: rootDirectory})
	if buildError != nil {
		testingHandle.Fatalf("Build failed: %v", buildError)
	}
	if strings.Contains(document, "src"+types.PromptFileSuffix) {
		testingHandle.Fatalf("stale prompt document leaked into output:\n%s", document)
	}
}

// TestBuildInvalidPattern verifies the pattern error taxonomy surfaces from Build.
func TestBuildInvalidPattern(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	_, buildError := Build(BuildOptions{RootPath: rootDirectory, IgnoreFiles: []string{"[broken"}})
	if !errors.Is(buildError, types.ErrInvalidPattern) {
		testingHandle.Fatalf("expected error wrapping ErrInvalidPattern, got %v", buildError)
	}
}

// TestResolveRootRejectsInvalidInput verifies the invalid-input taxonomy.
func TestResolveRootRejectsInvalidInput(testingHandle *testing.T) {
	missingDirectory := filepath.Join(testingHandle.TempDir(), "missing")
	_, _, missingError := ResolveRoot(missingDirectory)
	if !errors.Is(missingError, types.ErrInvalidInput) {
		testingHandle.Fatalf("expected error wrapping ErrInvalidInput for missing directory, got %v", missingError)
	}

	filePath := filepath.Join(testingHandle.TempDir(), "file.txt")
	writeTestFile(testingHandle, filePath, "content\n")
	_, _, fileError := ResolveRoot(filePath)
	if !errors.Is(fileError, types.ErrInvalidInput) {
		testingHandle.Fatalf("expected error wrapping ErrInvalidInput for plain file, got %v", fileError)
	}
}

// TestSaveDocumentWritesAtomically verifies the saved content and that no
// staging file survives a successful write.
func TestSaveDocumentWritesAtomically(testingHandle *testing.T) {
	outputDirectory := testingHandle.TempDir()
	outputFilePath := filepath.Join(outputDirectory, "proj_prompt.txt")

	if saveError := SaveDocument("document body", outputFilePath); saveError != nil {
		testingHandle.Fatalf("SaveDocument failed: %v", saveError)
	}

	savedBytes, readError := os.ReadFile(outputFilePath)
	if readError != nil {
		testingHandle.Fatalf("failed to read saved document: %v", readError)
	}
	if string(savedBytes) != "document body" {
		testingHandle.Fatalf("unexpected saved content: %q", string(savedBytes))
	}

	directoryEntries, listError := os.ReadDir(outputDirectory)
	if listError != nil {
		testingHandle.Fatalf("failed to list output directory: %v", listError)
	}
	if len(directoryEntries) != 1 {
		testingHandle.Fatalf("expected only the saved document, found %d entries", len(directoryEntries))
	}
}

// TestBuildRespectsIgnoreModeConfiguration verifies the explicit matching
// granularity choice reaches the walker.
func TestBuildRespectsIgnoreModeConfiguration(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	if makeDirError := os.MkdirAll(filepath.Join(rootDirectory, "src"), 0o755); makeDirError != nil {
		testingHandle.Fatalf("failed to create fixture: %v", makeDirError)
	}
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "src", "old.bak"), "old\n")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "root.bak"), "root\n")

	document, buildError := Build(BuildOptions{
		RootPath:    rootDirectory,
		IgnoreFiles: []string{"src/*.bak"},
		MatchMode:   ignore.MatchModeRelativePath,
	})
	if buildError != nil {
		testingHandle.Fatalf("Build failed: %v", buildError)
	}
	if strings.Contains(document, "<path>src/old.bak</path>") {
		testingHandle.Fatalf("nested rule did not apply:\n%s", document)
	}
	if !strings.Contains(document, "<path>root.bak</path>") {
		testingHandle.Fatalf("nested rule must not apply outside src:\n%s", document)
	}
}
