package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"bolx/internal/domain"
)

// MockTextExtractor is a mock implementation of port.TextExtractor.
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) ExtractText(ctx context.Context, content []byte) (string, error) {
	args := m.Called(ctx, content)
	return args.String(0), args.Error(1)
}

// MockPageRenderer is a mock implementation of port.PageRenderer.
type MockPageRenderer struct {
	mock.Mock
}

func (m *MockPageRenderer) RenderPages(ctx context.Context, content []byte) ([][]byte, error) {
	args := m.Called(ctx, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]byte), args.Error(1)
}

// MockOCREngine is a mock implementation of port.OCREngine.
type MockOCREngine struct {
	mock.Mock
}

func (m *MockOCREngine) Recognize(ctx context.Context, image []byte) (string, error) {
	args := m.Called(ctx, image)
	return args.String(0), args.Error(1)
}

// MockTableExtractor is a mock implementation of port.TableExtractor.
type MockTableExtractor struct {
	mock.Mock
}

func (m *MockTableExtractor) ExtractTables(ctx context.Context, content []byte) ([]domain.TableGrid, error) {
	args := m.Called(ctx, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TableGrid), args.Error(1)
}
