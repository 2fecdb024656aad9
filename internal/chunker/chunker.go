// Package chunker splits extracted document text into passages for
// embedding. Two strategies are provided: standard fixed-size windows
// with overlap, and smart structure-aware segmentation that preserves
// section and paragraph boundaries.
package chunker

import "strings"

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 500

// DefaultOverlap is the default number of overlapping characters
// between consecutive standard chunks.
const DefaultOverlap = 50

// Strategy selects how text is split. The choice is caller-supplied,
// never auto-detected.
type Strategy int

const (
	// Standard produces many small uniform chunks: fixed-length
	// windows with a fixed character overlap.
	Standard Strategy = iota

	// Smart segments at structural boundaries (headings, paragraph
	// breaks) and only falls back to windowing inside a segment that
	// exceeds the target size. Produces fewer, larger, more coherent
	// chunks and carries a section label per chunk.
	Smart
)

// Piece is one chunk of text plus the section it belongs to, when the
// smart strategy could determine one.
type Piece struct {
	Text    string
	Section string
}

// Chunker splits text according to a configured size and overlap.
type Chunker struct {
	size    int
	overlap int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the target chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.size = size
		}
	}
}

// WithOverlap sets the overlap between standard chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		size:    DefaultChunkSize,
		overlap: DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must leave the window a positive step.
	if c.overlap >= c.size {
		c.overlap = c.size / 4
	}

	return c
}

// Size returns the configured target chunk size.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Split chunks text using the given strategy. Empty input yields no
// pieces.
func (c *Chunker) Split(text string, strategy Strategy) []Piece {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if strategy == Smart {
		return c.splitSmart(text)
	}
	return c.splitStandard(text, "")
}

// splitStandard cuts exact fixed-length windows. Consecutive chunks
// share exactly c.overlap characters; the last chunk may be shorter.
func (c *Chunker) splitStandard(text, section string) []Piece {
	length := len(text)
	step := c.size - c.overlap

	pieces := make([]Piece, 0, length/step+1)
	for start := 0; start < length; start += step {
		end := start + c.size
		if end > length {
			end = length
		}
		pieces = append(pieces, Piece{Text: text[start:end], Section: section})
		if end == length {
			break
		}
	}
	return pieces
}

// splitSmart segments at headings and paragraph breaks, packing
// paragraphs of one section together up to the target size. A single
// segment longer than the target falls back to separator-aware
// splitting, and only then to hard windows.
func (c *Chunker) splitSmart(text string) []Piece {
	segments := segment(text)

	var pieces []Piece
	for _, seg := range segments {
		body := strings.TrimSpace(seg.body)
		if body == "" {
			continue
		}
		if len(body) <= c.size {
			pieces = append(pieces, Piece{Text: body, Section: seg.title})
			continue
		}
		for _, part := range c.splitBySeparators(body) {
			pieces = append(pieces, Piece{Text: part, Section: seg.title})
		}
	}
	return pieces
}

// splitBySeparators breaks an oversized segment at the best available
// separator, keeping chunks under the target size where possible.
// Separators are ordered from best to worst for semantic meaning.
func (c *Chunker) splitBySeparators(text string) []string {
	separators := []string{"\n\n", "\n", ". ", " "}

	var sep string
	for _, s := range separators {
		if strings.Contains(text, s) {
			sep = s
			break
		}
	}
	if sep == "" {
		// No separator at all: hard windows are the only option.
		var out []string
		for _, p := range c.splitStandard(text, "") {
			out = append(out, p.Text)
		}
		return out
	}

	parts := strings.Split(text, sep)
	var chunks []string
	var current strings.Builder

	for _, part := range parts {
		if current.Len() > 0 && current.Len()+len(sep)+len(part) > c.size {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(sep)
		}
		current.WriteString(part)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	// A single part can still exceed the target (no inner separator
	// of this kind); window those.
	var out []string
	for _, chunk := range chunks {
		if len(chunk) <= c.size {
			out = append(out, chunk)
			continue
		}
		for _, p := range c.splitStandard(chunk, "") {
			out = append(out, p.Text)
		}
	}
	return out
}

// textSegment is a heading-delimited span of the document.
type textSegment struct {
	title string
	body  string
}

// segment splits text at detected structural boundaries. Markdown ATX
// headings (# ...) and setext underlines (=== / ---) start a new
// segment titled by the heading; text before any heading forms an
// untitled segment.
func segment(text string) []textSegment {
	lines := strings.Split(text, "\n")

	var segments []textSegment
	current := textSegment{}
	var body strings.Builder

	flush := func() {
		current.body = body.String()
		if strings.TrimSpace(current.body) != "" || current.title != "" {
			segments = append(segments, current)
		}
		body.Reset()
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if title, ok := atxHeading(trimmed); ok {
			flush()
			current = textSegment{title: title}
			continue
		}

		if i+1 < len(lines) && isSetextUnderline(lines[i+1]) && trimmed != "" {
			flush()
			current = textSegment{title: trimmed}
			i++ // skip the underline
			continue
		}

		body.WriteString(line)
		body.WriteString("\n")
	}
	flush()

	return segments
}

// atxHeading reports whether a line is a markdown ATX heading and
// returns its title.
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

// isSetextUnderline reports whether a line underlines the previous one
// in setext style.
func isSetextUnderline(line string) bool {
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
