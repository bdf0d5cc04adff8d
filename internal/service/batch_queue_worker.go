package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"bolx/internal/port"
)

// BatchQueueConfig holds settings for the batch queue worker.
type BatchQueueConfig struct {
	PollInterval time.Duration
	MaxRetries   int
	Concurrency  int
	// JobTimeout bounds one document, download and storage included.
	JobTimeout time.Duration
}

// BatchQueueWorker polls for queued batch documents and dispatches them for
// extraction.
type BatchQueueWorker struct {
	docRepo  port.DocumentRepository
	batchSvc BatchService
	cfg      BatchQueueConfig
	wg       sync.WaitGroup
}

// NewBatchQueueWorker creates a new BatchQueueWorker.
func NewBatchQueueWorker(docRepo port.DocumentRepository, batchSvc BatchService, cfg BatchQueueConfig) *BatchQueueWorker {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 10 * time.Minute
	}
	return &BatchQueueWorker{
		docRepo:  docRepo,
		batchSvc: batchSvc,
		cfg:      cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight documents have finished.
func (w *BatchQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	slog.Info("batchQueueWorker: started",
		"poll", w.cfg.PollInterval, "concurrency", w.cfg.Concurrency, "max_retries", w.cfg.MaxRetries)

	for {
		select {
		case <-ctx.Done():
			slog.Info("batchQueueWorker: shutting down, waiting for in-flight documents")
			w.wg.Wait()
			slog.Info("batchQueueWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			docs, err := w.docRepo.ClaimQueued(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				slog.Error("batchQueueWorker: ClaimQueued failed", "error", err)
				continue
			}

			for i := range docs {
				doc := docs[i]

				sem <- struct{}{}
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }()

					// Detached from the poll context so in-flight documents
					// complete during shutdown.
					jobCtx, cancel := context.WithTimeout(context.Background(), w.cfg.JobTimeout)
					defer cancel()

					slog.Info("batchQueueWorker: dispatching document",
						"document_id", doc.ID, "batch_id", doc.BatchID, "attempt", doc.Attempts)
					w.batchSvc.ProcessDocument(jobCtx, &doc, w.cfg.MaxRetries)
				}()
			}
		}
	}
}
