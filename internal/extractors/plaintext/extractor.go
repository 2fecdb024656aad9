// Package plaintext extracts text and markdown files.
package plaintext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docvault-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text and markdown documents.
type Extractor struct{}

// New creates a new plaintext extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".txt", ".md", ".markdown", ".log", ".rst"}
}

// Extract decodes the file as UTF-8 text and detects section headings.
func (e *Extractor) Extract(_ context.Context, path string, _ driven.ExtractOptions) (*driven.ExtractionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	text := string(data)
	if !utf8.ValidString(text) {
		// Replace invalid sequences rather than failing; text files
		// in the wild are not always clean UTF-8.
		text = strings.ToValidUTF8(text, "�")
	}

	format := "text"
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".md" || ext == ".markdown" {
		format = "markdown"
	}

	return &driven.ExtractionResult{
		Text:     text,
		Sections: DetectSections(text),
		Format:   format,
	}, nil
}

// DetectSections returns markdown-style section titles found in text:
// ATX headings (# Title) and setext headings (underlined with = or -).
func DetectSections(text string) []string {
	lines := strings.Split(text, "\n")

	var sections []string
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if title, ok := atxHeading(trimmed); ok {
			sections = append(sections, title)
			continue
		}
		if trimmed != "" && i+1 < len(lines) && isUnderline(lines[i+1]) {
			sections = append(sections, trimmed)
		}
	}
	return sections
}

func atxHeading(line string) (string, bool) {
	if !strings.HasPrefix(line, "#") {
		return "", false
	}
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level > 6 || level == len(line) || line[level] != ' ' {
		return "", false
	}
	return strings.TrimSpace(line[level:]), true
}

func isUnderline(line string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 3 {
		return false
	}
	ch := trimmed[0]
	if ch != '=' && ch != '-' {
		return false
	}
	for i := 1; i < len(trimmed); i++ {
		if trimmed[i] != ch {
			return false
		}
	}
	return true
}
