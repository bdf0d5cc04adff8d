package email_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"bolx/internal/domain"
	"bolx/internal/email"
	"bolx/internal/email/noop"
	"bolx/internal/port"
)

func sampleReport() port.BatchReport {
	return port.BatchReport{
		Batch: domain.Batch{ID: uuid.New(), Name: "March <manifests>"},
		Summary: domain.Summary{
			Total: 3, Successful: 2, Failed: 1,
			TextExtractions: 1, OCRExtractions: 2,
			HighConfidence: 1, MediumConfidence: 1, LowConfidence: 1,
		},
		Failures: []domain.Failure{{FileName: "bad.pdf", Notes: "Processing error: <eof>"}},
	}
}

func TestBatchCompleted(t *testing.T) {
	msg := email.BatchCompleted(sampleReport())

	assert.Equal(t, "BOL extraction finished: March <manifests> (2/3 successful)", msg.Subject)
	assert.Contains(t, msg.Text, "Total files: 3\n")
	assert.Contains(t, msg.Text, "OCR extractions: 2\n")
	assert.Contains(t, msg.Text, "- bad.pdf: Processing error: <eof>\n")
	assert.Contains(t, msg.HTML, "March &lt;manifests&gt;")
	assert.Contains(t, msg.HTML, "Processing error: &lt;eof&gt;")
	assert.NotContains(t, msg.HTML, "<eof>")
}

func TestBatchCompleted_NoFailures(t *testing.T) {
	r := sampleReport()
	r.Failures = nil

	msg := email.BatchCompleted(r)

	assert.NotContains(t, msg.Text, "Failed files")
	assert.NotContains(t, msg.HTML, "Failed files")
}

func TestNoopSender(t *testing.T) {
	assert.NoError(t, noop.NewNoopSender().SendBatchCompleted(context.Background(), "ops@example.com", sampleReport()))
}
