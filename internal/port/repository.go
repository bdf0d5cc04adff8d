package port

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"bolx/internal/domain"
)

// BatchRepository defines the contract for batch persistence.
type BatchRepository interface {
	// Create inserts the batch and its documents in one transaction.
	Create(ctx context.Context, batch *domain.Batch, docs []domain.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Batch, error)
	List(ctx context.Context, offset, limit int) ([]domain.Batch, int, error)
	// IncrementProcessed records one finished document and returns the
	// updated batch. The batch is marked completed when every document is done.
	IncrementProcessed(ctx context.Context, id uuid.UUID) (*domain.Batch, error)
}

// DocumentRepository defines the contract for batch document persistence.
type DocumentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	// ListByBatch returns documents in upload order.
	ListByBatch(ctx context.Context, batchID uuid.UUID) ([]domain.Document, error)
	// ClaimQueued atomically moves up to limit queued documents to processing.
	ClaimQueued(ctx context.Context, limit int) ([]domain.Document, error)
	SaveResult(ctx context.Context, id uuid.UUID, status domain.DocumentStatus, record, diagnostics json.RawMessage) error
	// Requeue returns a document to the queue after a transient failure.
	Requeue(ctx context.Context, id uuid.UUID, lastError string) error
}
