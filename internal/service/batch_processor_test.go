package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bolx/internal/domain"
	"bolx/internal/service"
	"bolx/mocks"
)

func sourceDocs(n int) []domain.SourceDocument {
	docs := make([]domain.SourceDocument, n)
	for i := range docs {
		docs[i] = domain.SourceDocument{Name: fmt.Sprintf("doc%d.pdf", i), Content: []byte("%PDF")}
	}
	return docs
}

func byName(name string) interface{} {
	return mock.MatchedBy(func(d domain.SourceDocument) bool { return d.Name == name })
}

func TestBatchProcessor_Run_PreservesInputOrder(t *testing.T) {
	svc := new(mocks.MockExtractionService)
	docs := sourceDocs(6)
	for i, d := range docs {
		rec := domain.NewRecord(d.Name)
		rec.BOLNumber = fmt.Sprintf("BOL%d", i)
		// Earlier documents finish last.
		svc.On("Process", mock.Anything, byName(d.Name), 100).
			After(time.Duration(len(docs)-i) * 5 * time.Millisecond).
			Return(rec)
	}

	records := service.NewBatchProcessor(svc, 3).Run(context.Background(), docs, 100, nil)

	require.Len(t, records, len(docs))
	for i, rec := range records {
		assert.Equal(t, docs[i].Name, rec.FileName)
		assert.Equal(t, fmt.Sprintf("BOL%d", i), rec.BOLNumber)
	}
	svc.AssertNumberOfCalls(t, "Process", len(docs))
}

func TestBatchProcessor_Run_FailuresDoNotAbort(t *testing.T) {
	svc := new(mocks.MockExtractionService)
	docs := sourceDocs(3)
	svc.On("Process", mock.Anything, byName("doc0.pdf"), 0).Return(domain.NewRecord("doc0.pdf"))
	svc.On("Process", mock.Anything, byName("doc1.pdf"), 0).
		Return(domain.FailedRecord("doc1.pdf", "Processing error: corrupt xref"))
	svc.On("Process", mock.Anything, byName("doc2.pdf"), 0).Return(domain.NewRecord("doc2.pdf"))

	records := service.NewBatchProcessor(svc, 2).Run(context.Background(), docs, 0, nil)

	require.Len(t, records, 3)
	assert.False(t, records[0].ExtractionFailed)
	assert.True(t, records[1].ExtractionFailed)
	assert.False(t, records[2].ExtractionFailed)

	s := domain.Summarize(records)
	assert.Equal(t, 2, s.Successful)
	assert.Equal(t, 1, s.Failed)
}

func TestBatchProcessor_Run_ReportsProgress(t *testing.T) {
	svc := new(mocks.MockExtractionService)
	docs := sourceDocs(4)
	for _, d := range docs {
		svc.On("Process", mock.Anything, byName(d.Name), 0).Return(domain.NewRecord(d.Name))
	}

	var (
		counts []int
		names  []string
	)
	service.NewBatchProcessor(svc, 4).Run(context.Background(), docs, 0, func(done, total int, name string) {
		assert.Equal(t, 4, total)
		counts = append(counts, done)
		names = append(names, name)
	})

	assert.Equal(t, []int{1, 2, 3, 4}, counts)
	assert.ElementsMatch(t, []string{"doc0.pdf", "doc1.pdf", "doc2.pdf", "doc3.pdf"}, names)
}

func TestBatchProcessor_Run_Empty(t *testing.T) {
	svc := new(mocks.MockExtractionService)

	records := service.NewBatchProcessor(svc, 0).Run(context.Background(), nil, 0, nil)

	assert.Empty(t, records)
	svc.AssertNotCalled(t, "Process", mock.Anything, mock.Anything, mock.Anything)
}
