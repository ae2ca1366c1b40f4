// Package document extracts text content from uploaded documents using the
// Strategy pattern: one extractor per supported file extension.
package document

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/sanjeev23oct/moodle-augment-2/internal/apperr"
)

// extractFunc converts one document format into plain text.
type extractFunc func(data []byte) (string, error)

// extractors maps lowercase file extensions to their extraction strategy.
var extractors = map[string]extractFunc{
	".txt":      extractPlainText,
	".md":       extractPlainText,
	".markdown": extractPlainText,
	".html":     extractHTML,
	".htm":      extractHTML,
}

// Supported reports whether the filename carries an extension the extractor
// registry can handle. The check is case-insensitive.
func Supported(filename string) bool {
	_, ok := extractors[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// Extract converts an uploaded document into trimmed plain text.
//
// Unsupported extensions, undecodable content, and documents that yield no
// text all return validation errors so the boundary layer answers 400.
func Extract(filename string, data []byte) (string, error) {
	extract, ok := extractors[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return "", apperr.Validation("Only text, markdown, and HTML files are supported")
	}

	text, err := extract(data)
	if err != nil {
		return "", apperr.Validation(fmt.Sprintf("Failed to process document file: %v", err))
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperr.Validation("No text content could be extracted from the document")
	}

	return text, nil
}

// extractPlainText returns UTF-8 text files as-is.
func extractPlainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file is not valid UTF-8 text")
	}
	return string(data), nil
}

// extractHTML converts HTML to Markdown so the generation prompt carries
// readable text instead of markup.
func extractHTML(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file is not valid UTF-8 text")
	}
	markdown, err := htmltomarkdown.ConvertString(string(data))
	if err != nil {
		return "", fmt.Errorf("converting HTML to Markdown: %w", err)
	}
	return markdown, nil
}
