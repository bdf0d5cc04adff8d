package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"bolx/internal/domain"
	"bolx/internal/service"
)

// MockExtractionService is a mock implementation of service.ExtractionService.
type MockExtractionService struct {
	mock.Mock
}

func (m *MockExtractionService) Process(ctx context.Context, doc domain.SourceDocument, threshold int) domain.BOLRecord {
	args := m.Called(ctx, doc, threshold)
	return args.Get(0).(domain.BOLRecord)
}

// MockBatchService is a mock implementation of service.BatchService.
type MockBatchService struct {
	mock.Mock
}

func (m *MockBatchService) Create(ctx context.Context, input service.CreateBatchInput) (*domain.Batch, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Batch), args.Error(1)
}

func (m *MockBatchService) Get(ctx context.Context, id uuid.UUID) (*service.BatchDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BatchDetail), args.Error(1)
}

func (m *MockBatchService) List(ctx context.Context, offset, limit int) ([]domain.Batch, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Batch), args.Int(1), args.Error(2)
}

func (m *MockBatchService) Records(ctx context.Context, id uuid.UUID) ([]domain.BOLRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BOLRecord), args.Error(1)
}

func (m *MockBatchService) Export(ctx context.Context, id uuid.UUID, format domain.ExportFormat) (*service.ExportFile, error) {
	args := m.Called(ctx, id, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportFile), args.Error(1)
}

func (m *MockBatchService) ProcessDocument(ctx context.Context, doc *domain.Document, maxRetries int) {
	m.Called(ctx, doc, maxRetries)
}

// MockTokenService is a mock implementation of service.TokenService.
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Issue(subject string, ttl time.Duration) (*service.IssuedToken, error) {
	args := m.Called(subject, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.IssuedToken), args.Error(1)
}

func (m *MockTokenService) Validate(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}
