package image

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/docvault-cli/internal/core/domain"
	"github.com/custodia-labs/docvault-cli/internal/core/ports/driven"
)

type stubOCR struct {
	available bool
	text      string
}

func (s *stubOCR) Available() bool { return s.available }
func (s *stubOCR) Version() string { return "stub" }
func (s *stubOCR) RecognizeImage(_ context.Context, _ string) (string, error) {
	return s.text, nil
}
func (s *stubOCR) RecognizePDF(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}

func TestExtractRequiresOCR(t *testing.T) {
	_, err := New(nil).Extract(context.Background(), "scan.png", driven.ExtractOptions{})
	assert.ErrorIs(t, err, domain.ErrOCRUnavailable)

	_, err = New(&stubOCR{}).Extract(context.Background(), "scan.png", driven.ExtractOptions{})
	assert.ErrorIs(t, err, domain.ErrOCRUnavailable)
}

func TestExtractRecognisesText(t *testing.T) {
	result, err := New(&stubOCR{available: true, text: " scanned text \n"}).
		Extract(context.Background(), "scan.png", driven.ExtractOptions{})
	assert.NoError(t, err)
	assert.Equal(t, "scanned text", result.Text)
	assert.True(t, result.OCRUsed)
	assert.Equal(t, 1, result.PageCount)
}

func TestExtractEmptyRecognition(t *testing.T) {
	_, err := New(&stubOCR{available: true, text: "  "}).
		Extract(context.Background(), "blank.png", driven.ExtractOptions{})
	assert.Error(t, err)
}
