package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"bolx/internal/domain"
	"bolx/internal/port"
)

type documentRepo struct {
	db         *sqlx.DB
	staleAfter time.Duration
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
// Documents left in processing longer than staleAfter, such as those held by
// a worker that crashed, are claimed again. Zero disables reclaiming.
func NewDocumentRepo(db *sqlx.DB, staleAfter time.Duration) port.DocumentRepository {
	return &documentRepo{db: db, staleAfter: staleAfter}
}

func (r *documentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc, "SELECT * FROM documents WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]domain.Document, error) {
	var docs []domain.Document
	err := r.db.SelectContext(ctx, &docs,
		"SELECT * FROM documents WHERE batch_id = $1 ORDER BY position", batchID)
	if err != nil {
		return nil, fmt.Errorf("documentRepo.ListByBatch: %w", err)
	}
	return docs, nil
}

// ClaimQueued locks queued and stale processing rows with SKIP LOCKED so
// concurrent workers never claim the same document, and moves their batches
// to processing.
func (r *documentRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.Document, error) {
	var docs []domain.Document
	err := r.db.SelectContext(ctx, &docs,
		`WITH claimed AS (
			SELECT id FROM documents
			 WHERE status = $1
			    OR ($5::double precision > 0
			        AND status = $3
			        AND updated_at < NOW() - make_interval(secs => $5::double precision))
			 ORDER BY created_at, position
			 LIMIT $2
			 FOR UPDATE SKIP LOCKED
		), started AS (
			UPDATE batches SET status = $3, updated_at = NOW()
			 WHERE status = $4
			   AND id IN (SELECT d.batch_id FROM documents d JOIN claimed c ON c.id = d.id)
		)
		UPDATE documents d SET
			status = $3, attempts = d.attempts + 1, updated_at = NOW()
		  FROM claimed
		 WHERE d.id = claimed.id
		 RETURNING d.*`,
		domain.DocumentStatusQueued, limit, domain.DocumentStatusProcessing, domain.BatchStatusQueued,
		r.staleAfter.Seconds())
	if err != nil {
		return nil, fmt.Errorf("documentRepo.ClaimQueued: %w", err)
	}
	return docs, nil
}

func (r *documentRepo) SaveResult(ctx context.Context, id uuid.UUID, status domain.DocumentStatus, record, diagnostics json.RawMessage) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE documents SET
			status = $1, record = $2, diagnostics = $3, last_error = '',
			processed_at = NOW(), updated_at = NOW()
		 WHERE id = $4`,
		status, record, diagnostics, id)
	if err != nil {
		return fmt.Errorf("documentRepo.SaveResult: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *documentRepo) Requeue(ctx context.Context, id uuid.UUID, lastError string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE documents SET status = $1, last_error = $2, updated_at = NOW()
		 WHERE id = $3`,
		domain.DocumentStatusQueued, lastError, id)
	if err != nil {
		return fmt.Errorf("documentRepo.Requeue: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
