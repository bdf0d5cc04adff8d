package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"bolx/internal/domain"
	"bolx/internal/port"
)

// DefaultMinTextThreshold is the trimmed native-text length, in characters,
// at which native extraction counts as successful.
const DefaultMinTextThreshold = 100

// Selection is the text adopted for a document and how it was obtained.
type Selection struct {
	Text       string
	Method     domain.ExtractionMethod
	Confidence domain.Confidence
}

// Selector chooses between the native text layer and OCR for a document.
// OCR runs only when native text is short or scores low confidence. A nil
// renderer or OCR engine disables OCR; the stage then counts as failed.
type Selector struct {
	text      port.TextExtractor
	renderer  port.PageRenderer
	ocr       port.OCREngine
	threshold int
}

// NewSelector creates a Selector. A threshold below 1 selects
// DefaultMinTextThreshold.
func NewSelector(text port.TextExtractor, renderer port.PageRenderer, ocr port.OCREngine, threshold int) *Selector {
	if threshold < 1 {
		threshold = DefaultMinTextThreshold
	}
	return &Selector{text: text, renderer: renderer, ocr: ocr, threshold: threshold}
}

// Threshold returns the minimum native text length in effect.
func (s *Selector) Threshold() int {
	return s.threshold
}

// WithThreshold returns a copy of s using threshold for a single run. A
// threshold below 1 keeps the current value.
func (s *Selector) WithThreshold(threshold int) *Selector {
	c := *s
	if threshold >= 1 {
		c.threshold = threshold
	}
	return &c
}

// Select runs the extraction cascade. It never returns an error: collaborator
// failures and panics degrade to empty text.
func (s *Selector) Select(ctx context.Context, content []byte) Selection {
	native, nativeOK := s.nativeText(ctx, content)
	confidence := AssessQuality(native)

	if nativeOK && confidence != domain.ConfidenceLow {
		return Selection{Text: native, Method: domain.MethodText, Confidence: confidence}
	}

	ocrText, ocrOK := s.ocrText(ctx, content)
	switch {
	case ocrOK:
		return Selection{Text: ocrText, Method: domain.MethodOCR, Confidence: AssessQuality(ocrText)}
	case native != "":
		return Selection{Text: native, Method: domain.MethodTextFallback, Confidence: confidence}
	default:
		return Selection{Text: native, Method: domain.MethodOCR, Confidence: AssessQuality(native)}
	}
}

func (s *Selector) nativeText(ctx context.Context, content []byte) (string, bool) {
	var text string
	err := guard(func() error {
		var err error
		text, err = s.text.ExtractText(ctx, content)
		return err
	})
	if err != nil {
		slog.Warn("selector.nativeText: native extraction failed", "error", err)
		return "", false
	}
	return text, trimmedLen(text) >= s.threshold
}

func (s *Selector) ocrText(ctx context.Context, content []byte) (string, bool) {
	if s.renderer == nil || s.ocr == nil {
		return "", false
	}

	var b strings.Builder
	err := guard(func() error {
		pages, err := s.renderer.RenderPages(ctx, content)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		for i, img := range pages {
			if err := ctx.Err(); err != nil {
				return err
			}
			text, err := s.ocr.Recognize(ctx, img)
			if err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}
			b.WriteString(text)
			b.WriteString("\n")
		}
		return nil
	})
	if err != nil {
		slog.Warn("selector.ocrText: OCR failed", "error", err)
		return "", false
	}
	text := b.String()
	return text, trimmedLen(text) >= s.threshold
}

// guard runs fn, converting a panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
