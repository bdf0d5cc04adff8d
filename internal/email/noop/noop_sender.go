package noop

import (
	"context"
	"log/slog"

	"bolx/internal/email"
	"bolx/internal/port"
)

type noopSender struct{}

// NewNoopSender creates an EmailSender that only logs the rendered notice.
func NewNoopSender() port.EmailSender {
	return noopSender{}
}

func (noopSender) SendBatchCompleted(_ context.Context, toEmail string, report port.BatchReport) error {
	msg := email.BatchCompleted(report)
	slog.Info("noop email: batch completed", "to", toEmail, "subject", msg.Subject, "body", msg.Text)
	return nil
}
