package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"bolx/internal/domain"
	"bolx/internal/extraction"
	"bolx/internal/service"
	"bolx/mocks"
)

const nativeBOL = "BILL OF LADING\nB/L NO: BOL123456789\nSHIPPER: ABC Shipping Company\n" +
	"CONSIGNEE: XYZ Import Corp\nVESSEL: MV Ocean Carrier\nPORT OF LOADING: Los Angeles, CA\n" +
	"PORT OF DISCHARGE: New York, NY\n"

// shortStructured scores high but is shorter than the default threshold.
const shortStructured = "B/L NO: X1\nSHIPPER: A\nCONSIGNEE: B\nVESSEL: C\nPORT: D\nPORT: E\nFREIGHT: PREPAID"

func newExtractionService(text *mocks.MockTextExtractor, tables *mocks.MockTableExtractor) service.ExtractionService {
	sel := extraction.NewSelector(text, nil, nil, 0)
	return service.NewExtractionService(sel, tables, extraction.NewExtractor(nil), time.Minute)
}

func TestExtractionService_Process_NativeText(t *testing.T) {
	text := new(mocks.MockTextExtractor)
	tables := new(mocks.MockTableExtractor)
	text.On("ExtractText", mock.Anything, []byte("%PDF")).Return(nativeBOL, nil)
	tables.On("ExtractTables", mock.Anything, []byte("%PDF")).Return(nil, nil)

	rec := newExtractionService(text, tables).Process(context.Background(),
		domain.SourceDocument{Name: "a.pdf", Content: []byte("%PDF")}, 0)

	assert.Equal(t, "a.pdf", rec.FileName)
	assert.Equal(t, "BOL123456789", rec.BOLNumber)
	assert.Equal(t, "MV Ocean Carrier", rec.VesselName)
	assert.Equal(t, domain.MethodText, rec.ExtractionMethod)
	assert.Equal(t, domain.ConfidenceHigh, rec.ExtractionConfidence)
	assert.False(t, rec.ExtractionFailed)
	text.AssertExpectations(t)
	tables.AssertExpectations(t)
}

func TestExtractionService_Process_TablesFeedGoods(t *testing.T) {
	text := new(mocks.MockTextExtractor)
	tables := new(mocks.MockTableExtractor)
	text.On("ExtractText", mock.Anything, mock.Anything).Return(nativeBOL+"GOODS: From Text\n", nil)
	tables.On("ExtractTables", mock.Anything, mock.Anything).Return([]domain.TableGrid{{
		Columns: []string{"Marks", "Description of Goods"},
		Rows:    []map[string]string{{"Marks": "M1", "Description of Goods": "Frozen Shrimp"}},
	}}, nil)

	rec := newExtractionService(text, tables).Process(context.Background(),
		domain.SourceDocument{Name: "a.pdf", Content: []byte("%PDF")}, 0)

	assert.Equal(t, "Frozen Shrimp", rec.DescriptionOfGoods)
}

func TestExtractionService_Process_TableFailureIgnored(t *testing.T) {
	t.Run("error", func(t *testing.T) {
		text := new(mocks.MockTextExtractor)
		tables := new(mocks.MockTableExtractor)
		text.On("ExtractText", mock.Anything, mock.Anything).Return(nativeBOL+"GOODS: Spare Parts\n", nil)
		tables.On("ExtractTables", mock.Anything, mock.Anything).Return(nil, errors.New("bad content stream"))

		rec := newExtractionService(text, tables).Process(context.Background(),
			domain.SourceDocument{Name: "a.pdf", Content: []byte("%PDF")}, 0)

		assert.False(t, rec.ExtractionFailed)
		assert.Equal(t, "Spare Parts", rec.DescriptionOfGoods)
	})

	t.Run("panic", func(t *testing.T) {
		text := new(mocks.MockTextExtractor)
		tables := new(mocks.MockTableExtractor)
		text.On("ExtractText", mock.Anything, mock.Anything).Return(nativeBOL, nil)
		tables.On("ExtractTables", mock.Anything, mock.Anything).Panic("nil dictionary")

		rec := newExtractionService(text, tables).Process(context.Background(),
			domain.SourceDocument{Name: "a.pdf", Content: []byte("%PDF")}, 0)

		assert.False(t, rec.ExtractionFailed)
		assert.Equal(t, "BOL123456789", rec.BOLNumber)
	})
}

func TestExtractionService_Process_NilTableExtractor(t *testing.T) {
	text := new(mocks.MockTextExtractor)
	text.On("ExtractText", mock.Anything, mock.Anything).Return(nativeBOL, nil)

	svc := service.NewExtractionService(extraction.NewSelector(text, nil, nil, 0), nil, extraction.NewExtractor(nil), 0)
	rec := svc.Process(context.Background(), domain.SourceDocument{Name: "a.pdf"}, 0)

	assert.Equal(t, "BOL123456789", rec.BOLNumber)
}

func TestExtractionService_Process_ThresholdPerCall(t *testing.T) {
	text := new(mocks.MockTextExtractor)
	tables := new(mocks.MockTableExtractor)
	text.On("ExtractText", mock.Anything, mock.Anything).Return(shortStructured, nil)
	tables.On("ExtractTables", mock.Anything, mock.Anything).Return(nil, nil)
	svc := newExtractionService(text, tables)
	doc := domain.SourceDocument{Name: "a.pdf", Content: []byte("%PDF")}

	assert.Equal(t, domain.MethodTextFallback, svc.Process(context.Background(), doc, 0).ExtractionMethod)
	assert.Equal(t, domain.MethodText, svc.Process(context.Background(), doc, 50).ExtractionMethod)
	assert.Equal(t, domain.MethodTextFallback, svc.Process(context.Background(), doc, 0).ExtractionMethod,
		"a per-call threshold must not leak into later calls")
}

func TestExtractionService_Process_CancelledContext(t *testing.T) {
	text := new(mocks.MockTextExtractor)
	tables := new(mocks.MockTableExtractor)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := newExtractionService(text, tables).Process(ctx, domain.SourceDocument{Name: "late.pdf"}, 0)

	assert.True(t, rec.ExtractionFailed)
	assert.Equal(t, "late.pdf", rec.FileName)
	assert.Equal(t, domain.ConfidenceLow, rec.ExtractionConfidence)
	assert.Equal(t, "Processing error: context canceled", rec.ProcessingNotes)
	text.AssertNotCalled(t, "ExtractText", mock.Anything, mock.Anything)
}

func TestExtractionService_Process_PanicBecomesFailedRecord(t *testing.T) {
	svc := service.NewExtractionService(nil, nil, extraction.NewExtractor(nil), 0)

	var rec domain.BOLRecord
	assert.NotPanics(t, func() {
		rec = svc.Process(context.Background(), domain.SourceDocument{Name: "broken.pdf"}, 0)
	})

	assert.True(t, rec.ExtractionFailed)
	assert.Equal(t, "broken.pdf", rec.FileName)
	assert.True(t, strings.HasPrefix(rec.ProcessingNotes, "Processing error: "))
	assert.Empty(t, rec.BOLNumber)
}
