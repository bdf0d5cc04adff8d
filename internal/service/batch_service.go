package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"

	"bolx/internal/config"
	"bolx/internal/csvexport"
	"bolx/internal/diagnostics"
	"bolx/internal/domain"
	"bolx/internal/port"
	"bolx/internal/xlsxexport"
)

// Accepted range for a per-batch minimum text threshold.
const (
	MinThreshold = 50
	MaxThreshold = 500
)

// CreateBatchInput is the DTO for batch submission.
type CreateBatchInput struct {
	Name             string
	Files            []domain.SourceDocument
	MinTextThreshold int
	NotifyEmail      string
	CreatedBy        string
}

// BatchDetail is a batch together with its aggregate results so far.
type BatchDetail struct {
	Batch    *domain.Batch    `json:"batch"`
	Summary  domain.Summary   `json:"summary"`
	Failures []domain.Failure `json:"failures"`
}

// ExportFile is a rendered export ready to be served.
type ExportFile struct {
	FileName    string
	ContentType string
	Content     []byte
	// URL is a presigned link to the stored copy. Empty when the copy could
	// not be stored.
	URL string
}

// BatchService defines the batch extraction contract.
type BatchService interface {
	Create(ctx context.Context, input CreateBatchInput) (*domain.Batch, error)
	Get(ctx context.Context, id uuid.UUID) (*BatchDetail, error)
	List(ctx context.Context, offset, limit int) ([]domain.Batch, int, error)
	// Records returns the records of every finished document in upload order.
	Records(ctx context.Context, id uuid.UUID) ([]domain.BOLRecord, error)
	Export(ctx context.Context, id uuid.UUID, format domain.ExportFormat) (*ExportFile, error)
	// ProcessDocument extracts one claimed document and stores the result.
	ProcessDocument(ctx context.Context, doc *domain.Document, maxRetries int)
}

type batchService struct {
	batchRepo        port.BatchRepository
	docRepo          port.DocumentRepository
	storage          port.ObjectStorage
	emailSender      port.EmailSender
	extraction       ExtractionService
	registry         *diagnostics.Registry
	cfg              *config.S3Config
	defaultThreshold int
	now              func() time.Time
}

// NewBatchService creates a new BatchService implementation.
func NewBatchService(
	batchRepo port.BatchRepository,
	docRepo port.DocumentRepository,
	storage port.ObjectStorage,
	emailSender port.EmailSender,
	extraction ExtractionService,
	registry *diagnostics.Registry,
	cfg *config.S3Config,
	defaultThreshold int,
) BatchService {
	return &batchService{
		batchRepo:        batchRepo,
		docRepo:          docRepo,
		storage:          storage,
		emailSender:      emailSender,
		extraction:       extraction,
		registry:         registry,
		cfg:              cfg,
		defaultThreshold: defaultThreshold,
		now:              time.Now,
	}
}

func (s *batchService) Create(ctx context.Context, input CreateBatchInput) (*domain.Batch, error) {
	threshold := input.MinTextThreshold
	if threshold == 0 {
		threshold = s.defaultThreshold
	} else if threshold < MinThreshold || threshold > MaxThreshold {
		return nil, domain.ErrInvalidThreshold
	}

	sources, err := ExpandUploads(input.Files, s.cfg.MaxFileSizeMB*1024*1024)
	if err != nil {
		return nil, err
	}

	batch := &domain.Batch{
		ID:               uuid.New(),
		Name:             input.Name,
		Status:           domain.BatchStatusQueued,
		MinTextThreshold: threshold,
		DocumentCount:    len(sources),
		NotifyEmail:      input.NotifyEmail,
		CreatedBy:        input.CreatedBy,
	}
	if batch.Name == "" {
		batch.Name = input.Files[0].Name
	}

	slog.Info("batchService.Create: storing documents",
		"batch_id", batch.ID, "documents", len(sources), "threshold", threshold, "created_by", input.CreatedBy)

	docs := make([]domain.Document, 0, len(sources))
	for i, src := range sources {
		docID := uuid.New()
		key := fmt.Sprintf("batches/%s/files/%s/%s", batch.ID, docID, path.Base(src.Name))
		_, err := s.storage.Upload(ctx, port.UploadInput{
			Bucket:      s.cfg.Bucket,
			Key:         key,
			Body:        bytes.NewReader(src.Content),
			ContentType: domain.AllowedFileTypes[domain.FileTypePDF],
			Size:        int64(len(src.Content)),
		})
		if err != nil {
			slog.Error("batchService.Create: upload failed", "batch_id", batch.ID, "file", src.Name, "error", err)
			s.discard(ctx, docs)
			return nil, domain.ErrUploadFailed
		}
		docs = append(docs, domain.Document{
			ID:        docID,
			BatchID:   batch.ID,
			Position:  i,
			FileName:  src.Name,
			S3Bucket:  s.cfg.Bucket,
			S3Key:     key,
			SizeBytes: int64(len(src.Content)),
			Status:    domain.DocumentStatusQueued,
		})
	}

	if err := s.batchRepo.Create(ctx, batch, docs); err != nil {
		slog.Error("batchService.Create: failed to persist batch", "batch_id", batch.ID, "error", err)
		s.discard(ctx, docs)
		return nil, fmt.Errorf("creating batch: %w", err)
	}
	return batch, nil
}

// discard removes already stored objects after a failed submission.
func (s *batchService) discard(ctx context.Context, docs []domain.Document) {
	for i := range docs {
		if err := s.storage.Delete(ctx, docs[i].S3Bucket, docs[i].S3Key); err != nil {
			slog.Warn("batchService.discard: delete failed", "key", docs[i].S3Key, "error", err)
		}
	}
}

func (s *batchService) Get(ctx context.Context, id uuid.UUID) (*BatchDetail, error) {
	batch, err := s.batchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	records, err := s.records(ctx, id)
	if err != nil {
		return nil, err
	}
	return &BatchDetail{
		Batch:    batch,
		Summary:  domain.Summarize(records),
		Failures: domain.Failures(records),
	}, nil
}

func (s *batchService) List(ctx context.Context, offset, limit int) ([]domain.Batch, int, error) {
	return s.batchRepo.List(ctx, offset, limit)
}

func (s *batchService) Records(ctx context.Context, id uuid.UUID) ([]domain.BOLRecord, error) {
	if _, err := s.batchRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.records(ctx, id)
}

func (s *batchService) records(ctx context.Context, id uuid.UUID) ([]domain.BOLRecord, error) {
	docs, err := s.docRepo.ListByBatch(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	records := make([]domain.BOLRecord, 0, len(docs))
	for i := range docs {
		if !docs[i].Finished() {
			continue
		}
		rec, err := docs[i].DecodeRecord()
		if err != nil {
			slog.Warn("batchService.Records: undecodable record", "document_id", docs[i].ID, "error", err)
			rec = domain.FailedRecord(docs[i].FileName, "Processing error: "+err.Error())
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *batchService) Export(ctx context.Context, id uuid.UUID, format domain.ExportFormat) (*ExportFile, error) {
	batch, err := s.batchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if batch.Status != domain.BatchStatusCompleted {
		return nil, domain.ErrBatchNotComplete
	}
	records, err := s.records(ctx, id)
	if err != nil {
		return nil, err
	}

	var buf *bytes.Buffer
	switch format {
	case domain.ExportFormatCSV:
		buf = new(bytes.Buffer)
		err = csvexport.Export(buf, records)
	case domain.ExportFormatXLSX:
		buf, err = xlsxexport.Export(records, s.registry)
	default:
		return nil, domain.ErrInvalidExportFormat
	}
	if err != nil {
		return nil, fmt.Errorf("rendering %s export: %w", format, err)
	}

	file := &ExportFile{
		FileName:    format.Filename(s.now()),
		ContentType: format.ContentType(),
		Content:     buf.Bytes(),
	}
	file.URL = s.storeExport(ctx, batch.ID, file)
	return file, nil
}

// storeExport keeps a copy of the export next to the batch documents and
// returns a presigned link to it.
func (s *batchService) storeExport(ctx context.Context, batchID uuid.UUID, file *ExportFile) string {
	key := fmt.Sprintf("batches/%s/exports/%s", batchID, file.FileName)
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(file.Content),
		ContentType: file.ContentType,
		Size:        int64(len(file.Content)),
	}); err != nil {
		slog.Warn("batchService.Export: storing export failed", "batch_id", batchID, "error", err)
		return ""
	}
	url, err := s.storage.GetPresignedURL(ctx, s.cfg.Bucket, key, s.cfg.PresignExpiry)
	if err != nil {
		slog.Warn("batchService.Export: presign failed", "batch_id", batchID, "error", err)
		return ""
	}
	return url
}

func (s *batchService) ProcessDocument(ctx context.Context, doc *domain.Document, maxRetries int) {
	batch, err := s.batchRepo.GetByID(ctx, doc.BatchID)
	if err != nil {
		s.retryOrFail(ctx, doc, maxRetries, fmt.Errorf("loading batch: %w", err))
		return
	}

	content, err := s.storage.Download(ctx, doc.S3Bucket, doc.S3Key)
	if err != nil {
		s.retryOrFail(ctx, doc, maxRetries, fmt.Errorf("downloading document: %w", err))
		return
	}

	rec := s.extraction.Process(ctx, domain.SourceDocument{Name: doc.FileName, Content: content}, batch.MinTextThreshold)
	s.finish(ctx, doc, rec)
}

// retryOrFail requeues a document after a transient failure, or stores a
// failed record once attempts are exhausted.
func (s *batchService) retryOrFail(ctx context.Context, doc *domain.Document, maxRetries int, cause error) {
	if doc.Attempts < maxRetries {
		slog.Warn("batchService.ProcessDocument: requeueing",
			"document_id", doc.ID, "attempt", doc.Attempts, "max_retries", maxRetries, "error", cause)
		if err := s.docRepo.Requeue(ctx, doc.ID, cause.Error()); err != nil {
			slog.Error("batchService.ProcessDocument: requeue failed", "document_id", doc.ID, "error", err)
		}
		return
	}
	slog.Error("batchService.ProcessDocument: giving up",
		"document_id", doc.ID, "attempts", doc.Attempts, "error", cause)
	s.finish(ctx, doc, processingFailure(doc.FileName, cause))
}

func (s *batchService) finish(ctx context.Context, doc *domain.Document, rec domain.BOLRecord) {
	report := s.registry.Run(&rec)

	recordJSON, err := json.Marshal(rec)
	if err != nil {
		slog.Error("batchService.finish: marshal record", "document_id", doc.ID, "error", err)
		return
	}
	reportJSON, err := json.Marshal(report)
	if err != nil {
		slog.Error("batchService.finish: marshal diagnostics", "document_id", doc.ID, "error", err)
		return
	}

	status := domain.DocumentStatusCompleted
	if rec.ExtractionFailed {
		status = domain.DocumentStatusFailed
	}
	if err := s.docRepo.SaveResult(ctx, doc.ID, status, recordJSON, reportJSON); err != nil {
		slog.Error("batchService.finish: failed to save result", "document_id", doc.ID, "error", err)
		return
	}

	batch, err := s.batchRepo.IncrementProcessed(ctx, doc.BatchID)
	if err != nil {
		slog.Error("batchService.finish: failed to update batch progress", "batch_id", doc.BatchID, "error", err)
		return
	}
	slog.Info("batchService.finish: document done",
		"document_id", doc.ID, "status", status, "diagnostics", report.Status,
		"processed", batch.ProcessedCount, "total", batch.DocumentCount)

	if batch.Status == domain.BatchStatusCompleted && batch.NotifyEmail != "" {
		s.notify(ctx, batch)
	}
}

func (s *batchService) notify(ctx context.Context, batch *domain.Batch) {
	records, err := s.records(ctx, batch.ID)
	if err != nil {
		slog.Error("batchService.notify: loading records", "batch_id", batch.ID, "error", err)
		return
	}
	report := port.BatchReport{
		Batch:    *batch,
		Summary:  domain.Summarize(records),
		Failures: domain.Failures(records),
	}
	if err := s.emailSender.SendBatchCompleted(ctx, batch.NotifyEmail, report); err != nil {
		slog.Error("batchService.notify: send failed", "batch_id", batch.ID, "to", batch.NotifyEmail, "error", err)
	}
}
