package port

import (
	"context"

	"bolx/internal/domain"
)

// TextExtractor pulls the native text layer out of a PDF. Pages are
// concatenated in order.
type TextExtractor interface {
	ExtractText(ctx context.Context, content []byte) (string, error)
}

// PageRenderer rasterizes every page of a PDF, returning one encoded image per
// page in page order.
type PageRenderer interface {
	RenderPages(ctx context.Context, content []byte) ([][]byte, error)
}

// OCREngine recognizes text on a single rendered page image.
type OCREngine interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// TableExtractor detects tabular regions in a PDF.
type TableExtractor interface {
	ExtractTables(ctx context.Context, content []byte) ([]domain.TableGrid, error)
}
