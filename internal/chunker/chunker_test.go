package chunker

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := New()
		if c.size != DefaultChunkSize {
			t.Errorf("expected size %d, got %d", DefaultChunkSize, c.size)
		}
		if c.overlap != DefaultOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultOverlap, c.overlap)
		}
	})

	t.Run("custom values", func(t *testing.T) {
		c := New(WithChunkSize(200), WithOverlap(40))
		if c.size != 200 || c.overlap != 40 {
			t.Errorf("expected 200/40, got %d/%d", c.size, c.overlap)
		}
	})

	t.Run("overlap exceeding size is reduced", func(t *testing.T) {
		c := New(WithChunkSize(100), WithOverlap(150))
		if c.overlap >= c.size {
			t.Errorf("overlap %d should be below size %d", c.overlap, c.size)
		}
	})

	t.Run("non-positive options ignored", func(t *testing.T) {
		c := New(WithChunkSize(0), WithOverlap(-1))
		if c.size != DefaultChunkSize || c.overlap != DefaultOverlap {
			t.Errorf("expected defaults, got %d/%d", c.size, c.overlap)
		}
	})
}

func TestSplitEmpty(t *testing.T) {
	c := New()
	if got := c.Split("", Standard); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
	if got := c.Split("   \n\t", Smart); got != nil {
		t.Errorf("expected nil for blank input, got %v", got)
	}
}

func TestStandardExactOverlap(t *testing.T) {
	const size, overlap = 100, 20
	c := New(WithChunkSize(size), WithOverlap(overlap))

	text := strings.Repeat("abcdefghij", 75) // 750 chars
	pieces := c.Split(text, Standard)

	if len(pieces) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(pieces))
	}

	for i := 0; i < len(pieces)-1; i++ {
		cur, next := pieces[i].Text, pieces[i+1].Text
		if len(cur) != size {
			t.Errorf("chunk %d: expected length %d, got %d", i, size, len(cur))
		}
		tail := cur[len(cur)-overlap:]
		head := next[:overlap]
		if tail != head {
			t.Errorf("chunk %d/%d: expected %d shared chars, tail=%q head=%q",
				i, i+1, overlap, tail, head)
		}
	}

	last := pieces[len(pieces)-1].Text
	if len(last) > size {
		t.Errorf("last chunk exceeds size: %d > %d", len(last), size)
	}

	// Reassembling with the overlap removed must reproduce the input.
	var rebuilt strings.Builder
	rebuilt.WriteString(pieces[0].Text)
	for _, p := range pieces[1:] {
		rebuilt.WriteString(p.Text[overlap:])
	}
	if rebuilt.String() != text {
		t.Error("chunks do not reassemble into the original text")
	}
}

func TestStandardShortInput(t *testing.T) {
	c := New(WithChunkSize(500), WithOverlap(50))
	pieces := c.Split("tiny", Standard)
	if len(pieces) != 1 || pieces[0].Text != "tiny" {
		t.Errorf("expected single chunk 'tiny', got %v", pieces)
	}
}

func TestSmartThreeSections(t *testing.T) {
	// Three ~400-char sections under a 500-char target must yield one
	// chunk per section, each tagged with its section title.
	para := strings.Repeat("lorem ipsum dolor sit amet ", 14) // ~378 chars
	text := "# Introduction\n" + para + "\n\n# Methods\n" + para + "\n\n# Results\n" + para

	c := New(WithChunkSize(500), WithOverlap(50))
	pieces := c.Split(text, Smart)

	if len(pieces) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(pieces))
	}

	wantSections := []string{"Introduction", "Methods", "Results"}
	for i, p := range pieces {
		if p.Section != wantSections[i] {
			t.Errorf("chunk %d: expected section %q, got %q", i, wantSections[i], p.Section)
		}
		if len(p.Text) > 500 {
			t.Errorf("chunk %d exceeds target size: %d", i, len(p.Text))
		}
	}
}

func TestSmartSetextHeadings(t *testing.T) {
	text := "Overview\n========\nsome body text\n\nDetails\n-------\nmore body text"
	c := New()
	pieces := c.Split(text, Smart)

	if len(pieces) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(pieces))
	}
	if pieces[0].Section != "Overview" || pieces[1].Section != "Details" {
		t.Errorf("unexpected sections: %q, %q", pieces[0].Section, pieces[1].Section)
	}
}

func TestSmartOversizedSectionFallsBack(t *testing.T) {
	sentences := strings.Repeat("This is a sentence about the topic. ", 40) // ~1440 chars
	text := "# Big Section\n" + sentences

	c := New(WithChunkSize(500), WithOverlap(50))
	pieces := c.Split(text, Smart)

	if len(pieces) < 3 {
		t.Fatalf("expected oversized section to split, got %d chunks", len(pieces))
	}
	for i, p := range pieces {
		if p.Section != "Big Section" {
			t.Errorf("chunk %d lost its section label: %q", i, p.Section)
		}
		if len(p.Text) > 500 {
			t.Errorf("chunk %d exceeds target: %d chars", i, len(p.Text))
		}
		// Separator-aware fallback should not cut mid-word.
		if strings.HasPrefix(p.Text, " ") {
			t.Errorf("chunk %d starts with whitespace", i)
		}
	}
}

func TestSmartNoHeadings(t *testing.T) {
	text := "first paragraph here\n\nsecond paragraph here"
	c := New()
	pieces := c.Split(text, Smart)

	if len(pieces) != 1 {
		t.Fatalf("expected 1 packed chunk, got %d", len(pieces))
	}
	if pieces[0].Section != "" {
		t.Errorf("expected empty section, got %q", pieces[0].Section)
	}
}

func TestSmartNoSeparatorAtAll(t *testing.T) {
	text := "# X\n" + strings.Repeat("a", 1200)
	c := New(WithChunkSize(500), WithOverlap(50))
	pieces := c.Split(text, Smart)

	if len(pieces) < 3 {
		t.Fatalf("expected hard windows for unbreakable text, got %d", len(pieces))
	}
	for _, p := range pieces {
		if len(p.Text) > 500 {
			t.Errorf("chunk exceeds target: %d", len(p.Text))
		}
	}
}
