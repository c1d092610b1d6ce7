// Package extract turns source files into raw text, dispatching on file
// extension. Each supported format has its own Extractor implementation.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned when no extractor is registered for
	// a file's extension.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrExtraction is returned when a registered extractor fails to read
	// or parse a file.
	ErrExtraction = errors.New("extraction failed")
)

// Extractor turns a file path into raw text.
type Extractor interface {
	// Extract reads the file at path and returns its plain-text content.
	Extract(path string) (string, error)
}

// extractors maps lowercased extensions (without the dot) to extractors.
var extractors = map[string]Extractor{
	"pdf":  pdfExtractor{},
	"docx": docxExtractor{},
	"txt":  textExtractor{},
	"md":   textExtractor{},
	"csv": csvExtractor{},
	// Legacy binary .xls is not parseable by excelize, so it is left
	// unregistered and skipped as unsupported.
	"xlsx": xlsxExtractor{},
}

// ForPath returns the extractor registered for path's extension.
// The extension match is case-insensitive.
func ForPath(path string) (Extractor, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	e, ok := extractors[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return e, nil
}

// SupportedExtensions returns the extensions ForPath will dispatch on.
func SupportedExtensions() []string {
	return []string{"csv", "docx", "md", "pdf", "txt", "xlsx"}
}
