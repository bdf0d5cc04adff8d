// Package pipeline assembles the extraction stack from configuration.
package pipeline

import (
	"fmt"

	"bolx/internal/config"
	"bolx/internal/extraction"
	"bolx/internal/ocr"
	"bolx/internal/ocr/tesseract"
	"bolx/internal/pdftext"
	"bolx/internal/port"
	"bolx/internal/service"
)

// Pipeline holds the configured extraction components.
type Pipeline struct {
	Catalog    *extraction.Catalog
	Selector   *extraction.Selector
	Extraction service.ExtractionService
}

// New builds the extraction pipeline. With OCR disabled the selector has no
// renderer or engine, so low-text documents fall back to their native text.
func New(cfg *config.ExtractionConfig) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	catalog, err := extraction.NewCatalog(extraction.DefaultPatterns(), extraction.WithMatchTimeout(cfg.MatchTimeout))
	if err != nil {
		return nil, fmt.Errorf("building pattern catalog: %w", err)
	}

	reader := pdftext.NewReader(cfg.MaxPages)

	var (
		renderer port.PageRenderer
		engine   port.OCREngine
	)
	if cfg.OCREnabled {
		renderer = ocr.NewRenderer(ocr.RendererConfig{
			Binary:   cfg.PdftoppmBinary,
			DPI:      cfg.OCRDPI,
			MaxPages: cfg.MaxPages,
		}, nil)
		engine = tesseract.NewEngine(cfg.OCRLanguage, cfg.OCRPageSegMode)
	}

	selector := extraction.NewSelector(reader, renderer, engine, cfg.MinTextThreshold)
	return &Pipeline{
		Catalog:    catalog,
		Selector:   selector,
		Extraction: service.NewExtractionService(selector, reader, extraction.NewExtractor(catalog), cfg.DocumentTimeout),
	}, nil
}
