// Package document extracts plain text from the file formats the
// cloud-folder channel accepts. PDF extraction shells out to pdftotext;
// DOCX is unpacked directly.
package document

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/soubim/decisiond/internal/core/domain"
)

// CommandRunner abstracts external command execution so extraction can
// be tested without poppler installed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes the command and returns its combined stdout.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor converts document bytes into plain text.
type Extractor struct {
	runner CommandRunner
}

// NewExtractor creates an extractor using the real command runner.
func NewExtractor() *Extractor {
	return &Extractor{runner: ExecRunner{}}
}

// NewExtractorWithRunner creates an extractor with an injected runner.
func NewExtractorWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// ExtractText extracts text from content based on file type ("pdf",
// "docx" or "txt"). An unsupported type is an error; an empty result
// from a supported type is not.
func (e *Extractor) ExtractText(ctx context.Context, content []byte, fileType string) (string, error) {
	if len(content) == 0 {
		return "", nil
	}

	switch strings.ToLower(fileType) {
	case "pdf":
		return e.extractPDF(ctx, content)
	case "docx":
		return extractDOCX(content)
	case "txt":
		return strings.TrimSpace(string(content)), nil
	default:
		return "", fmt.Errorf("%w: unsupported file type %q", domain.ErrInvalidInput, fileType)
	}
}

// extractPDF converts PDF bytes to text with pdftotext, reading from a
// temp file and writing to stdout.
func (e *Extractor) extractPDF(ctx context.Context, content []byte) (string, error) {
	tmp, err := os.CreateTemp("", "decisiond-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	out, err := e.runner.Run(ctx, "pdftotext", "-layout", tmp.Name(), "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// InstallInstructions explains how to install the pdftotext dependency.
func InstallInstructions() string {
	return `PDF extraction requires pdftotext (poppler):
  macOS:  brew install poppler
  Debian: apt install poppler-utils`
}
