package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bolx/internal/config"
	"bolx/internal/diagnostics"
	"bolx/internal/domain"
	"bolx/internal/port"
	"bolx/internal/service"
	"bolx/mocks"
)

type batchDeps struct {
	batchRepo  *mocks.MockBatchRepo
	docRepo    *mocks.MockDocumentRepo
	storage    *mocks.MockObjectStorage
	email      *mocks.MockEmailSender
	extraction *mocks.MockExtractionService
}

func setupBatchService() (service.BatchService, batchDeps) {
	d := batchDeps{
		batchRepo:  new(mocks.MockBatchRepo),
		docRepo:    new(mocks.MockDocumentRepo),
		storage:    new(mocks.MockObjectStorage),
		email:      new(mocks.MockEmailSender),
		extraction: new(mocks.MockExtractionService),
	}
	cfg := &config.S3Config{Bucket: "bol-bucket", MaxFileSizeMB: 1, PresignExpiry: 600}
	svc := service.NewBatchService(d.batchRepo, d.docRepo, d.storage, d.email, d.extraction,
		diagnostics.DefaultRegistry(), cfg, 100)
	return svc, d
}

func finishedDoc(t *testing.T, batchID uuid.UUID, rec domain.BOLRecord) domain.Document {
	t.Helper()
	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	status := domain.DocumentStatusCompleted
	if rec.ExtractionFailed {
		status = domain.DocumentStatusFailed
	}
	return domain.Document{ID: uuid.New(), BatchID: batchID, FileName: rec.FileName, Status: status, Record: raw}
}

func TestBatchService_Create_Success(t *testing.T) {
	svc, d := setupBatchService()

	d.storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "bol-bucket" && in.ContentType == "application/pdf" &&
			strings.HasPrefix(in.Key, "batches/")
	})).Return(&port.UploadOutput{}, nil).Twice()
	d.batchRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Batch"), mock.MatchedBy(func(docs []domain.Document) bool {
		return len(docs) == 2 &&
			docs[0].Position == 0 && docs[0].FileName == "a.pdf" &&
			docs[1].Position == 1 && docs[1].FileName == "b.pdf" &&
			docs[0].Status == domain.DocumentStatusQueued &&
			strings.HasSuffix(docs[1].S3Key, "/b.pdf")
	})).Return(nil)

	batch, err := svc.Create(context.Background(), service.CreateBatchInput{
		Files: []domain.SourceDocument{
			{Name: "a.pdf", Content: pdfBytes},
			{Name: "b.pdf", Content: pdfBytes},
		},
		NotifyEmail: "ops@example.com",
		CreatedBy:   "cli",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.BatchStatusQueued, batch.Status)
	assert.Equal(t, 2, batch.DocumentCount)
	assert.Equal(t, 100, batch.MinTextThreshold)
	assert.Equal(t, "a.pdf", batch.Name)
	assert.Equal(t, "ops@example.com", batch.NotifyEmail)
	d.storage.AssertExpectations(t)
	d.batchRepo.AssertExpectations(t)
}

func TestBatchService_Create_ThresholdRange(t *testing.T) {
	for _, threshold := range []int{-1, 49, 501} {
		svc, d := setupBatchService()

		_, err := svc.Create(context.Background(), service.CreateBatchInput{
			Files:            []domain.SourceDocument{{Name: "a.pdf", Content: pdfBytes}},
			MinTextThreshold: threshold,
		})

		assert.ErrorIs(t, err, domain.ErrInvalidThreshold, "threshold %d", threshold)
		d.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	}
}

func TestBatchService_Create_InvalidUpload(t *testing.T) {
	svc, d := setupBatchService()

	_, err := svc.Create(context.Background(), service.CreateBatchInput{
		Files: []domain.SourceDocument{{Name: "notes.txt", Content: []byte("hi")}},
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	d.batchRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestBatchService_Create_UploadFailureDiscardsStoredFiles(t *testing.T) {
	svc, d := setupBatchService()

	d.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil).Once()
	d.storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("s3 down")).Once()
	d.storage.On("Delete", mock.Anything, "bol-bucket", mock.MatchedBy(func(key string) bool {
		return strings.HasSuffix(key, "/a.pdf")
	})).Return(nil).Once()

	_, err := svc.Create(context.Background(), service.CreateBatchInput{
		Files: []domain.SourceDocument{
			{Name: "a.pdf", Content: pdfBytes},
			{Name: "b.pdf", Content: pdfBytes},
		},
	})

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	d.storage.AssertExpectations(t)
	d.batchRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestBatchService_Create_RepoFailure(t *testing.T) {
	svc, d := setupBatchService()

	d.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	d.storage.On("Delete", mock.Anything, "bol-bucket", mock.Anything).Return(nil)
	d.batchRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("db gone"))

	_, err := svc.Create(context.Background(), service.CreateBatchInput{
		Files: []domain.SourceDocument{{Name: "a.pdf", Content: pdfBytes}},
	})

	assert.Error(t, err)
	d.storage.AssertNumberOfCalls(t, "Delete", 1)
}

func TestBatchService_Get_SummarizesFinishedDocuments(t *testing.T) {
	svc, d := setupBatchService()
	batchID := uuid.New()

	ok := domain.NewRecord("a.pdf")
	ok.ExtractionMethod = domain.MethodText
	ok.ExtractionConfidence = domain.ConfidenceHigh
	failed := domain.FailedRecord("b.pdf", "Processing error: boom")
	queued := domain.Document{ID: uuid.New(), BatchID: batchID, FileName: "c.pdf", Status: domain.DocumentStatusQueued}

	d.batchRepo.On("GetByID", mock.Anything, batchID).
		Return(&domain.Batch{ID: batchID, Status: domain.BatchStatusProcessing, DocumentCount: 3}, nil)
	d.docRepo.On("ListByBatch", mock.Anything, batchID).
		Return([]domain.Document{finishedDoc(t, batchID, ok), finishedDoc(t, batchID, failed), queued}, nil)

	detail, err := svc.Get(context.Background(), batchID)

	require.NoError(t, err)
	assert.Equal(t, 2, detail.Summary.Total)
	assert.Equal(t, 1, detail.Summary.Successful)
	assert.Equal(t, 1, detail.Summary.Failed)
	assert.Equal(t, 1, detail.Summary.TextExtractions)
	assert.Equal(t, []domain.Failure{{FileName: "b.pdf", Notes: "Processing error: boom"}}, detail.Failures)
}

func TestBatchService_Get_NotFound(t *testing.T) {
	svc, d := setupBatchService()
	id := uuid.New()
	d.batchRepo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrBatchNotFound)

	_, err := svc.Get(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrBatchNotFound)
}

func TestBatchService_Records_UploadOrderSkipsUnfinished(t *testing.T) {
	svc, d := setupBatchService()
	batchID := uuid.New()

	first := domain.NewRecord("first.pdf")
	second := domain.NewRecord("second.pdf")
	undecodable := domain.Document{ID: uuid.New(), BatchID: batchID, FileName: "broken.pdf",
		Status: domain.DocumentStatusCompleted, Record: []byte(`{"filename":`)}
	queued := domain.Document{ID: uuid.New(), BatchID: batchID, FileName: "later.pdf", Status: domain.DocumentStatusQueued}

	d.batchRepo.On("GetByID", mock.Anything, batchID).Return(&domain.Batch{ID: batchID}, nil)
	d.docRepo.On("ListByBatch", mock.Anything, batchID).
		Return([]domain.Document{finishedDoc(t, batchID, first), queued, undecodable, finishedDoc(t, batchID, second)}, nil)

	records, err := svc.Records(context.Background(), batchID)

	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "first.pdf", records[0].FileName)
	assert.Equal(t, "broken.pdf", records[1].FileName)
	assert.True(t, records[1].ExtractionFailed)
	assert.True(t, strings.HasPrefix(records[1].ProcessingNotes, "Processing error: "))
	assert.Equal(t, "second.pdf", records[2].FileName)
}

func TestBatchService_Records_NotFound(t *testing.T) {
	svc, d := setupBatchService()
	id := uuid.New()
	d.batchRepo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrBatchNotFound)

	_, err := svc.Records(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrBatchNotFound)
	d.docRepo.AssertNotCalled(t, "ListByBatch", mock.Anything, mock.Anything)
}

func TestBatchService_Export_RequiresCompletedBatch(t *testing.T) {
	svc, d := setupBatchService()
	id := uuid.New()
	d.batchRepo.On("GetByID", mock.Anything, id).Return(&domain.Batch{ID: id, Status: domain.BatchStatusProcessing}, nil)

	_, err := svc.Export(context.Background(), id, domain.ExportFormatCSV)

	assert.ErrorIs(t, err, domain.ErrBatchNotComplete)
	d.docRepo.AssertNotCalled(t, "ListByBatch", mock.Anything, mock.Anything)
}

func TestBatchService_Export_CSV(t *testing.T) {
	svc, d := setupBatchService()
	id := uuid.New()
	rec := domain.NewRecord("a.pdf")
	rec.BOLNumber = "BOL1"

	d.batchRepo.On("GetByID", mock.Anything, id).Return(&domain.Batch{ID: id, Status: domain.BatchStatusCompleted}, nil)
	d.docRepo.On("ListByBatch", mock.Anything, id).Return([]domain.Document{finishedDoc(t, id, rec)}, nil)
	d.storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return strings.HasPrefix(in.Key, "batches/"+id.String()+"/exports/bol_extraction_results_")
	})).Return(&port.UploadOutput{}, nil)
	d.storage.On("GetPresignedURL", mock.Anything, "bol-bucket", mock.Anything, int64(600)).
		Return("https://s3.example/export.csv", nil)

	file, err := svc.Export(context.Background(), id, domain.ExportFormatCSV)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(file.FileName, "bol_extraction_results_"))
	assert.True(t, strings.HasSuffix(file.FileName, ".csv"))
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
	assert.Equal(t, "https://s3.example/export.csv", file.URL)
	assert.Contains(t, string(file.Content), "filename,bol_number,shipper_name")
	assert.Contains(t, string(file.Content), "a.pdf,BOL1,")
}

func TestBatchService_Export_XLSXStorageFailureStillServes(t *testing.T) {
	svc, d := setupBatchService()
	id := uuid.New()

	d.batchRepo.On("GetByID", mock.Anything, id).Return(&domain.Batch{ID: id, Status: domain.BatchStatusCompleted}, nil)
	d.docRepo.On("ListByBatch", mock.Anything, id).
		Return([]domain.Document{finishedDoc(t, id, domain.NewRecord("a.pdf"))}, nil)
	d.storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("denied"))

	file, err := svc.Export(context.Background(), id, domain.ExportFormatXLSX)

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(file.FileName, ".xlsx"))
	assert.NotEmpty(t, file.Content)
	assert.Empty(t, file.URL)
	d.storage.AssertNotCalled(t, "GetPresignedURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBatchService_Export_UnknownFormat(t *testing.T) {
	svc, d := setupBatchService()
	id := uuid.New()
	d.batchRepo.On("GetByID", mock.Anything, id).Return(&domain.Batch{ID: id, Status: domain.BatchStatusCompleted}, nil)
	d.docRepo.On("ListByBatch", mock.Anything, id).Return([]domain.Document{}, nil)

	_, err := svc.Export(context.Background(), id, domain.ExportFormat("pdf"))

	assert.ErrorIs(t, err, domain.ErrInvalidExportFormat)
}

func queuedDoc(batchID uuid.UUID, attempts int) *domain.Document {
	return &domain.Document{
		ID:       uuid.New(),
		BatchID:  batchID,
		FileName: "a.pdf",
		S3Bucket: "bol-bucket",
		S3Key:    "batches/x/files/y/a.pdf",
		Status:   domain.DocumentStatusProcessing,
		Attempts: attempts,
	}
}

func TestBatchService_ProcessDocument_Success(t *testing.T) {
	svc, d := setupBatchService()
	batchID := uuid.New()
	doc := queuedDoc(batchID, 1)

	rec := domain.NewRecord("a.pdf")
	rec.BOLNumber = "BOL9"
	rec.ExtractionMethod = domain.MethodText

	d.batchRepo.On("GetByID", mock.Anything, batchID).
		Return(&domain.Batch{ID: batchID, MinTextThreshold: 150}, nil)
	d.storage.On("Download", mock.Anything, "bol-bucket", doc.S3Key).Return(pdfBytes, nil)
	d.extraction.On("Process", mock.Anything, domain.SourceDocument{Name: "a.pdf", Content: pdfBytes}, 150).Return(rec)
	d.docRepo.On("SaveResult", mock.Anything, doc.ID, domain.DocumentStatusCompleted,
		mock.MatchedBy(func(raw json.RawMessage) bool {
			var got domain.BOLRecord
			return json.Unmarshal(raw, &got) == nil && got.BOLNumber == "BOL9"
		}),
		mock.MatchedBy(func(raw json.RawMessage) bool {
			var report diagnostics.Report
			return json.Unmarshal(raw, &report) == nil && report.Status == diagnostics.StatusInvalid
		}),
	).Return(nil)
	d.batchRepo.On("IncrementProcessed", mock.Anything, batchID).
		Return(&domain.Batch{ID: batchID, Status: domain.BatchStatusProcessing, ProcessedCount: 1, DocumentCount: 2}, nil)

	svc.ProcessDocument(context.Background(), doc, 3)

	d.docRepo.AssertExpectations(t)
	d.batchRepo.AssertExpectations(t)
	d.email.AssertNotCalled(t, "SendBatchCompleted", mock.Anything, mock.Anything, mock.Anything)
}

func TestBatchService_ProcessDocument_FailedRecordStatus(t *testing.T) {
	svc, d := setupBatchService()
	batchID := uuid.New()
	doc := queuedDoc(batchID, 1)

	d.batchRepo.On("GetByID", mock.Anything, batchID).Return(&domain.Batch{ID: batchID}, nil)
	d.storage.On("Download", mock.Anything, mock.Anything, mock.Anything).Return(pdfBytes, nil)
	d.extraction.On("Process", mock.Anything, mock.Anything, 0).
		Return(domain.FailedRecord("a.pdf", "Processing error: boom"))
	d.docRepo.On("SaveResult", mock.Anything, doc.ID, domain.DocumentStatusFailed, mock.Anything, mock.Anything).Return(nil)
	d.batchRepo.On("IncrementProcessed", mock.Anything, batchID).
		Return(&domain.Batch{ID: batchID, Status: domain.BatchStatusProcessing}, nil)

	svc.ProcessDocument(context.Background(), doc, 3)

	d.docRepo.AssertExpectations(t)
}

func TestBatchService_ProcessDocument_CompletionSendsEmail(t *testing.T) {
	svc, d := setupBatchService()
	batchID := uuid.New()
	doc := queuedDoc(batchID, 1)
	rec := domain.NewRecord("a.pdf")
	failed := domain.FailedRecord("b.pdf", "Processing error: boom")
	completed := &domain.Batch{
		ID: batchID, Status: domain.BatchStatusCompleted, NotifyEmail: "ops@example.com",
		ProcessedCount: 2, DocumentCount: 2,
	}

	d.batchRepo.On("GetByID", mock.Anything, batchID).Return(&domain.Batch{ID: batchID}, nil)
	d.storage.On("Download", mock.Anything, mock.Anything, mock.Anything).Return(pdfBytes, nil)
	d.extraction.On("Process", mock.Anything, mock.Anything, mock.Anything).Return(rec)
	d.docRepo.On("SaveResult", mock.Anything, doc.ID, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	d.batchRepo.On("IncrementProcessed", mock.Anything, batchID).Return(completed, nil)
	d.docRepo.On("ListByBatch", mock.Anything, batchID).
		Return([]domain.Document{finishedDoc(t, batchID, rec), finishedDoc(t, batchID, failed)}, nil)
	d.email.On("SendBatchCompleted", mock.Anything, "ops@example.com", mock.MatchedBy(func(r port.BatchReport) bool {
		return r.Batch.ID == batchID && r.Summary.Total == 2 && r.Summary.Failed == 1 &&
			len(r.Failures) == 1 && r.Failures[0].FileName == "b.pdf"
	})).Return(nil)

	svc.ProcessDocument(context.Background(), doc, 3)

	d.email.AssertExpectations(t)
}

func TestBatchService_ProcessDocument_EmailFailureIsLogged(t *testing.T) {
	svc, d := setupBatchService()
	batchID := uuid.New()
	doc := queuedDoc(batchID, 1)

	d.batchRepo.On("GetByID", mock.Anything, batchID).Return(&domain.Batch{ID: batchID}, nil)
	d.storage.On("Download", mock.Anything, mock.Anything, mock.Anything).Return(pdfBytes, nil)
	d.extraction.On("Process", mock.Anything, mock.Anything, mock.Anything).Return(domain.NewRecord("a.pdf"))
	d.docRepo.On("SaveResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	d.batchRepo.On("IncrementProcessed", mock.Anything, batchID).
		Return(&domain.Batch{ID: batchID, Status: domain.BatchStatusCompleted, NotifyEmail: "ops@example.com"}, nil)
	d.docRepo.On("ListByBatch", mock.Anything, batchID).Return([]domain.Document{}, nil)
	d.email.On("SendBatchCompleted", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("ses throttled"))

	assert.NotPanics(t, func() { svc.ProcessDocument(context.Background(), doc, 3) })
	d.email.AssertExpectations(t)
}

func TestBatchService_ProcessDocument_DownloadFailureRequeues(t *testing.T) {
	svc, d := setupBatchService()
	batchID := uuid.New()
	doc := queuedDoc(batchID, 1)

	d.batchRepo.On("GetByID", mock.Anything, batchID).Return(&domain.Batch{ID: batchID}, nil)
	d.storage.On("Download", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))
	d.docRepo.On("Requeue", mock.Anything, doc.ID, mock.MatchedBy(func(msg string) bool {
		return strings.Contains(msg, "timeout")
	})).Return(nil)

	svc.ProcessDocument(context.Background(), doc, 3)

	d.docRepo.AssertExpectations(t)
	d.extraction.AssertNotCalled(t, "Process", mock.Anything, mock.Anything, mock.Anything)
	d.docRepo.AssertNotCalled(t, "SaveResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBatchService_ProcessDocument_RetriesExhausted(t *testing.T) {
	svc, d := setupBatchService()
	batchID := uuid.New()
	doc := queuedDoc(batchID, 3)

	d.batchRepo.On("GetByID", mock.Anything, batchID).Return(&domain.Batch{ID: batchID}, nil)
	d.storage.On("Download", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("no such key"))
	d.docRepo.On("SaveResult", mock.Anything, doc.ID, domain.DocumentStatusFailed,
		mock.MatchedBy(func(raw json.RawMessage) bool {
			var got domain.BOLRecord
			return json.Unmarshal(raw, &got) == nil && got.ExtractionFailed &&
				got.FileName == "a.pdf" &&
				got.ProcessingNotes == "Processing error: downloading document: no such key"
		}),
		mock.Anything,
	).Return(nil)
	d.batchRepo.On("IncrementProcessed", mock.Anything, batchID).
		Return(&domain.Batch{ID: batchID, Status: domain.BatchStatusProcessing}, nil)

	svc.ProcessDocument(context.Background(), doc, 3)

	d.docRepo.AssertExpectations(t)
	d.docRepo.AssertNotCalled(t, "Requeue", mock.Anything, mock.Anything, mock.Anything)
}
