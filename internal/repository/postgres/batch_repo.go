package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"bolx/internal/domain"
	"bolx/internal/port"
)

type batchRepo struct {
	db *sqlx.DB
}

// NewBatchRepo creates a new PostgreSQL-backed BatchRepository.
func NewBatchRepo(db *sqlx.DB) port.BatchRepository {
	return &batchRepo{db: db}
}

const insertDocumentQuery = `INSERT INTO documents (
	id, batch_id, position, file_name, s3_bucket, s3_key, size_bytes,
	status, attempts, last_error, created_at, updated_at
) VALUES (
	:id, :batch_id, :position, :file_name, :s3_bucket, :s3_key, :size_bytes,
	:status, :attempts, :last_error, :created_at, :updated_at
)`

func (r *batchRepo) Create(ctx context.Context, batch *domain.Batch, docs []domain.Document) error {
	now := time.Now().UTC()
	batch.CreatedAt = now
	batch.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("batchRepo.Create begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO batches (
			id, name, status, min_text_threshold, document_count, processed_count,
			notify_email, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		batch.ID, batch.Name, batch.Status, batch.MinTextThreshold, batch.DocumentCount, batch.ProcessedCount,
		batch.NotifyEmail, batch.CreatedBy, batch.CreatedAt, batch.UpdatedAt)
	if err != nil {
		return fmt.Errorf("batchRepo.Create: %w", err)
	}

	for i := range docs {
		docs[i].CreatedAt = now
		docs[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, insertDocumentQuery, &docs[i]); err != nil {
			return fmt.Errorf("batchRepo.Create document %s: %w", docs[i].FileName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("batchRepo.Create commit: %w", err)
	}
	return nil
}

func (r *batchRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Batch, error) {
	var batch domain.Batch
	err := r.db.GetContext(ctx, &batch, "SELECT * FROM batches WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBatchNotFound
		}
		return nil, fmt.Errorf("batchRepo.GetByID: %w", err)
	}
	return &batch, nil
}

func (r *batchRepo) List(ctx context.Context, offset, limit int) ([]domain.Batch, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM batches"); err != nil {
		return nil, 0, fmt.Errorf("batchRepo.List count: %w", err)
	}

	var batches []domain.Batch
	err := r.db.SelectContext(ctx, &batches,
		"SELECT * FROM batches ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("batchRepo.List: %w", err)
	}
	return batches, total, nil
}

func (r *batchRepo) IncrementProcessed(ctx context.Context, id uuid.UUID) (*domain.Batch, error) {
	var batch domain.Batch
	err := r.db.GetContext(ctx, &batch,
		`UPDATE batches SET
			processed_count = processed_count + 1,
			status = CASE WHEN processed_count + 1 >= document_count THEN $2 ELSE $3 END,
			completed_at = CASE WHEN processed_count + 1 >= document_count THEN NOW() ELSE completed_at END,
			updated_at = NOW()
		 WHERE id = $1
		 RETURNING *`,
		id, domain.BatchStatusCompleted, domain.BatchStatusProcessing)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBatchNotFound
		}
		return nil, fmt.Errorf("batchRepo.IncrementProcessed: %w", err)
	}
	return &batch, nil
}
