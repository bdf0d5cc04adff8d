package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"bolx/internal/port"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendBatchCompleted(ctx context.Context, toEmail string, report port.BatchReport) error {
	args := m.Called(ctx, toEmail, report)
	return args.Error(0)
}
