// Package ocr turns a PDF on disk into the page sequence the pipeline
// consumes. Two providers exist: a local pdftotext wrapper that yields
// text-only pages, and an HTTP client for a table-extraction service
// that yields text plus structured tables.
package ocr

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/leasingborsen/pricelist-cli/internal/config"
	"github.com/leasingborsen/pricelist-cli/internal/model"
)

// PageSource extracts ordered pages from a PDF file.
type PageSource interface {
	Pages(ctx context.Context, pdfPath string) ([]model.Page, error)
}

// NewPageSource creates a PageSource based on config.
func NewPageSource(cfg config.OCRConfig) (PageSource, error) {
	switch cfg.Provider {
	case "local", "":
		return NewPdfToText(cfg.PdfToTextPath), nil
	case "service":
		if cfg.ServiceURL == "" {
			return nil, eris.New("ocr: service provider requires service_url")
		}
		return NewServiceSource(cfg.ServiceURL, cfg.ServiceToken, cfg.RequestsPerSecond), nil
	default:
		return nil, eris.Errorf("ocr: unknown provider %q", cfg.Provider)
	}
}
