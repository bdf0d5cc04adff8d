// Package tesseract recognizes page images with Tesseract through gosseract.
package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Engine implements port.OCREngine. Each call uses its own client, so an
// Engine is safe for concurrent use.
type Engine struct {
	language      string
	pageSegMode   int
	clientFactory func() *gosseract.Client
}

// NewEngine creates an Engine for language (e.g. "eng") and page
// segmentation mode psm; psm 0 keeps Tesseract's default.
func NewEngine(language string, psm int) *Engine {
	if language == "" {
		language = "eng"
	}
	return &Engine{language: language, pageSegMode: psm, clientFactory: gosseract.NewClient}
}

func (e *Engine) Recognize(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetLanguage(e.language); err != nil {
		return "", fmt.Errorf("tesseract.Recognize: set language: %w", err)
	}
	if e.pageSegMode > 0 {
		if err := c.SetPageSegMode(gosseract.PageSegMode(e.pageSegMode)); err != nil {
			return "", fmt.Errorf("tesseract.Recognize: set psm: %w", err)
		}
	}
	if err := c.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("tesseract.Recognize: set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract.Recognize: %w", err)
	}
	return text, nil
}
