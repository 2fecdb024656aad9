// Package office extracts text from office documents (docx, odt, rtf)
// by concatenating paragraph and table text, and detects heading
// structure for DOCX files.
package office

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/lu4p/cat"

	"github.com/custodia-labs/docvault-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles office document formats.
type Extractor struct{}

// New creates a new office document extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".docx", ".odt", ".rtf"}
}

// Extract reads paragraph and table text from the document. For DOCX
// the heading structure is detected from paragraph styles; other
// formats yield text only.
func (e *Extractor) Extract(_ context.Context, path string, _ driven.ExtractOptions) (*driven.ExtractionResult, error) {
	text, err := cat.File(path)
	if err != nil {
		return nil, fmt.Errorf("extracting office document: %w", err)
	}

	result := &driven.ExtractionResult{
		Text:   strings.TrimSpace(text),
		Format: strings.TrimPrefix(strings.ToLower(pathExt(path)), "."),
	}

	if strings.EqualFold(pathExt(path), ".docx") {
		// Best effort: heading detection failing must not fail the
		// extraction, the text is already in hand.
		if sections, err := docxSections(path); err == nil {
			result.Sections = sections
		}
	}

	return result, nil
}

func pathExt(path string) string {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 {
		return ""
	}
	return path[idx:]
}

// docxParagraph mirrors the parts of word/document.xml we need:
// the paragraph style and its run text.
type docxParagraph struct {
	Props struct {
		Style struct {
			Val string `xml:"val,attr"`
		} `xml:"pStyle"`
	} `xml:"pPr"`
	Runs []struct {
		Text []string `xml:"t"`
	} `xml:"r"`
}

type docxDocument struct {
	Body struct {
		Paragraphs []docxParagraph `xml:"p"`
	} `xml:"body"`
}

// docxSections opens the DOCX container and collects the text of
// paragraphs styled as headings or title, in document order.
func docxSections(path string) ([]string, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening docx container: %w", err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("opening document.xml: %w", err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading document.xml: %w", err)
		}

		var doc docxDocument
		if err := xml.Unmarshal(content, &doc); err != nil {
			return nil, fmt.Errorf("parsing document.xml: %w", err)
		}

		var sections []string
		for _, para := range doc.Body.Paragraphs {
			style := para.Props.Style.Val
			if !strings.HasPrefix(style, "Heading") && style != "Title" {
				continue
			}
			var title strings.Builder
			for _, run := range para.Runs {
				for _, t := range run.Text {
					title.WriteString(t)
				}
			}
			if s := strings.TrimSpace(title.String()); s != "" {
				sections = append(sections, s)
			}
		}
		return sections, nil
	}

	return nil, nil
}
