package port

import (
	"context"

	"bolx/internal/domain"
)

// BatchReport is the content of a batch completion notice.
type BatchReport struct {
	Batch    domain.Batch
	Summary  domain.Summary
	Failures []domain.Failure
}

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	SendBatchCompleted(ctx context.Context, toEmail string, report BatchReport) error
}
