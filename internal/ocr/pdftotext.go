package ocr

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/leasingborsen/pricelist-cli/internal/model"
)

// PdfToText extracts page text using the pdftotext CLI tool. Pages come
// back text-only; the pipeline's line strategy handles them.
type PdfToText struct {
	binPath string
}

// NewPdfToText creates a PdfToText source. If binPath is empty, "pdftotext" is used.
func NewPdfToText(binPath string) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdfToText{binPath: binPath}
}

// Pages runs pdftotext -layout on the given PDF and splits stdout on the
// form-feed characters pdftotext emits between pages.
func (p *PdfToText) Pages(ctx context.Context, pdfPath string) ([]model.Page, error) {
	cmd := exec.CommandContext(ctx, p.binPath, "-layout", pdfPath, "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, eris.Wrapf(err, "ocr: pdftotext failed for %s: %s", pdfPath, stderr.String())
	}

	return splitPages(stdout.String()), nil
}

// splitPages converts form-feed separated text into numbered pages.
// Trailing empty pages (pdftotext ends output with a form feed) are
// dropped; interior blank pages keep their position so page numbers in
// provenance stay aligned with the document.
func splitPages(text string) []model.Page {
	parts := strings.Split(text, "\f")
	for len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}

	pages := make([]model.Page, 0, len(parts))
	for i, part := range parts {
		pages = append(pages, model.Page{Number: i + 1, Text: part})
	}
	return pages
}
