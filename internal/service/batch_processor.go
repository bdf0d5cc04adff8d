package service

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"bolx/internal/domain"
)

// ProgressFunc is told each time a document finishes. done counts finished
// documents, name is the document that just finished. Calls are serialized.
type ProgressFunc func(done, total int, name string)

// BatchProcessor extracts a set of documents concurrently.
type BatchProcessor struct {
	extraction ExtractionService
	workers    int
}

// NewBatchProcessor creates a BatchProcessor running at most workers
// extractions at once.
func NewBatchProcessor(extraction ExtractionService, workers int) *BatchProcessor {
	if workers < 1 {
		workers = 1
	}
	return &BatchProcessor{extraction: extraction, workers: workers}
}

// Run processes docs and returns one record per document in input order.
// A failing document never stops the batch; it contributes a failed record.
func (p *BatchProcessor) Run(ctx context.Context, docs []domain.SourceDocument, threshold int, onProgress ProgressFunc) []domain.BOLRecord {
	records := make([]domain.BOLRecord, len(docs))

	var (
		mu   sync.Mutex
		done int
		g    errgroup.Group
	)
	g.SetLimit(p.workers)

	slog.Info("batchProcessor.Run: starting", "documents", len(docs), "workers", p.workers, "threshold", threshold)

	for i := range docs {
		doc := docs[i]
		g.Go(func() error {
			records[i] = p.extraction.Process(ctx, doc, threshold)

			mu.Lock()
			done++
			if onProgress != nil {
				onProgress(done, len(docs), doc.Name)
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	s := domain.Summarize(records)
	slog.Info("batchProcessor.Run: finished", "total", s.Total, "successful", s.Successful, "failed", s.Failed)
	return records
}
