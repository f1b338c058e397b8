package pdfparser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"fjacquet/statement-import/internal/logging"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor extracts the text of a PDF document in reading order, one
// line per text row.
// This interface allows for dependency injection and makes the PDF extractor testable
// by providing different implementations for production and testing.
type PDFExtractor interface {
	ExtractText(ctx context.Context, content []byte) (string, error)
}

// LibraryExtractor extracts text in-process with github.com/ledongthuc/pdf.
type LibraryExtractor struct{}

// NewLibraryExtractor creates a new LibraryExtractor instance.
func NewLibraryExtractor() *LibraryExtractor {
	return &LibraryExtractor{}
}

// ExtractText rebuilds each page row by row and falls back to the reader's
// plain text when no rows could be recovered. Panics raised by the library
// on malformed documents are turned into errors.
func (e *LibraryExtractor) ExtractText(ctx context.Context, content []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	numPages := r.NumPage()
	if numPages == 0 {
		return "", fmt.Errorf("PDF has no pages")
	}

	var lines []string
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			parts := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
	}
	if len(lines) > 0 {
		return strings.Join(lines, "\n"), nil
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read plain text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("failed to read plain text: %w", err)
	}
	return buf.String(), nil
}

// CommandExtractor shells out to the pdftotext command (poppler-utils).
type CommandExtractor struct {
	Binary string
}

// NewCommandExtractor creates a CommandExtractor using pdftotext from PATH.
func NewCommandExtractor() *CommandExtractor {
	return &CommandExtractor{Binary: "pdftotext"}
}

// ExtractText writes content to a temporary file and runs
// `pdftotext -layout <file> -`.
func (e *CommandExtractor) ExtractText(ctx context.Context, content []byte) (string, error) {
	binary := e.Binary
	if binary == "" {
		binary = "pdftotext"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return "", fmt.Errorf("%s not available: %w", binary, err)
	}

	tempFile, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary PDF file: %w", err)
	}
	defer func() { _ = os.Remove(tempFile.Name()) }()

	if _, err := tempFile.Write(content); err != nil {
		_ = tempFile.Close()
		return "", fmt.Errorf("failed to write temporary PDF file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close temporary PDF file: %w", err)
	}

	out, err := exec.CommandContext(ctx, binary, "-layout", tempFile.Name(), "-").Output()
	if err != nil {
		return "", fmt.Errorf("error running %s: %w", binary, err)
	}
	return string(out), nil
}

// FallbackExtractor tries Primary and uses Secondary when Primary fails or
// returns blank text.
type FallbackExtractor struct {
	Primary   PDFExtractor
	Secondary PDFExtractor
	Logger    logging.Logger
}

// ExtractText implements PDFExtractor.
func (e *FallbackExtractor) ExtractText(ctx context.Context, content []byte) (string, error) {
	text, err := e.Primary.ExtractText(ctx, content)
	if err == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}
	if e.Secondary == nil {
		return text, err
	}

	if e.Logger != nil {
		if err != nil {
			e.Logger.WithError(err).Debug("Primary PDF extractor failed, trying fallback")
		} else {
			e.Logger.Debug("Primary PDF extractor returned no text, trying fallback")
		}
	}

	fallbackText, fallbackErr := e.Secondary.ExtractText(ctx, content)
	if fallbackErr != nil {
		if err != nil {
			return "", fmt.Errorf("%w (fallback: %v)", err, fallbackErr)
		}
		// primary succeeded with blank text
		return text, nil
	}
	return fallbackText, nil
}

// NewDefaultExtractor returns the in-process extractor, optionally backed by
// pdftotext.
func NewDefaultExtractor(usePdftotext bool, logger logging.Logger) PDFExtractor {
	if !usePdftotext {
		return NewLibraryExtractor()
	}
	return &FallbackExtractor{
		Primary:   NewLibraryExtractor(),
		Secondary: NewCommandExtractor(),
		Logger:    logger,
	}
}

// MockPDFExtractor implements PDFExtractor for testing purposes.
// It returns predefined mock data instead of actually extracting from PDF files.
type MockPDFExtractor struct {
	MockText string
	MockErr  error
	Calls    int
}

// NewMockPDFExtractor creates a new MockPDFExtractor with the given mock data.
func NewMockPDFExtractor(mockText string, mockErr error) *MockPDFExtractor {
	return &MockPDFExtractor{
		MockText: mockText,
		MockErr:  mockErr,
	}
}

// ExtractText returns the predefined mock text or error.
func (e *MockPDFExtractor) ExtractText(_ context.Context, _ []byte) (string, error) {
	e.Calls++
	if e.MockErr != nil {
		return "", e.MockErr
	}
	return e.MockText, nil
}
