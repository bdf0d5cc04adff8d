package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bolx/internal/domain"
	"bolx/internal/extraction"
	"bolx/internal/port"
)

// ExtractionService turns one source PDF into a BOLRecord.
type ExtractionService interface {
	// Process never fails: any error or panic yields a record flagged as
	// failed with a "Processing error: " note.
	Process(ctx context.Context, doc domain.SourceDocument, threshold int) domain.BOLRecord
}

type extractionService struct {
	selector  *extraction.Selector
	tables    port.TableExtractor
	extractor *extraction.Extractor
	timeout   time.Duration
}

// NewExtractionService creates a new ExtractionService. tables may be nil, in
// which case cargo descriptions come from text only. A zero timeout disables
// the per-document deadline.
func NewExtractionService(
	selector *extraction.Selector,
	tables port.TableExtractor,
	extractor *extraction.Extractor,
	timeout time.Duration,
) ExtractionService {
	return &extractionService{
		selector:  selector,
		tables:    tables,
		extractor: extractor,
		timeout:   timeout,
	}
}

func (s *extractionService) Process(ctx context.Context, doc domain.SourceDocument, threshold int) (rec domain.BOLRecord) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("extractionService.Process: panic", "file", doc.Name, "panic", r)
			rec = processingFailure(doc.Name, fmt.Errorf("%v", r))
		}
	}()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return processingFailure(doc.Name, err)
	}

	start := time.Now()
	sel := s.selector.WithThreshold(threshold).Select(ctx, doc.Content)
	tables := s.extractTables(ctx, doc)

	if err := ctx.Err(); err != nil {
		slog.Warn("extractionService.Process: deadline exceeded", "file", doc.Name, "error", err)
		return processingFailure(doc.Name, err)
	}

	rec = s.extractor.ExtractAll(sel.Text, tables, doc.Name)
	rec.ExtractionMethod = sel.Method
	rec.ExtractionConfidence = sel.Confidence

	slog.Info("extractionService.Process: extracted",
		"file", doc.Name,
		"method", sel.Method,
		"confidence", sel.Confidence,
		"tables", len(tables),
		"failed", rec.ExtractionFailed,
		"elapsed", time.Since(start),
	)
	return rec
}

// extractTables returns no tables when detection fails.
func (s *extractionService) extractTables(ctx context.Context, doc domain.SourceDocument) (tables []domain.TableGrid) {
	if s.tables == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("extractionService.extractTables: panic", "file", doc.Name, "panic", r)
			tables = nil
		}
	}()

	tables, err := s.tables.ExtractTables(ctx, doc.Content)
	if err != nil {
		slog.Warn("extractionService.extractTables: table detection failed", "file", doc.Name, "error", err)
		return nil
	}
	return tables
}

func processingFailure(name string, err error) domain.BOLRecord {
	return domain.FailedRecord(name, "Processing error: "+err.Error())
}
