package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"bolx/internal/domain"
)

// MockBatchRepo is a mock implementation of port.BatchRepository.
type MockBatchRepo struct {
	mock.Mock
}

func (m *MockBatchRepo) Create(ctx context.Context, batch *domain.Batch, docs []domain.Document) error {
	args := m.Called(ctx, batch, docs)
	return args.Error(0)
}

func (m *MockBatchRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Batch), args.Error(1)
}

func (m *MockBatchRepo) List(ctx context.Context, offset, limit int) ([]domain.Batch, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Batch), args.Int(1), args.Error(2)
}

func (m *MockBatchRepo) IncrementProcessed(ctx context.Context, id uuid.UUID) (*domain.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Batch), args.Error(1)
}
