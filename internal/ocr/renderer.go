// Package ocr rasterizes PDF pages for optical character recognition.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ErrNoPages is returned when the rasterizer produced no images.
var ErrNoPages = errors.New("no pages rendered")

// RendererConfig configures a Renderer.
type RendererConfig struct {
	Binary   string // pdftoppm binary name or path; empty selects "pdftoppm"
	DPI      int    // default 300
	MaxPages int    // 0 renders every page
	TempDir  string // empty uses the OS default
}

// Renderer implements port.PageRenderer by shelling out to pdftoppm.
type Renderer struct {
	cfg    RendererConfig
	runner Runner
}

// NewRenderer creates a Renderer. A nil runner selects ExecRunner.
func NewRenderer(cfg RendererConfig, runner Runner) *Renderer {
	if cfg.Binary == "" {
		cfg.Binary = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Renderer{cfg: cfg, runner: runner}
}

// RenderPages writes content to a scratch directory, rasterizes it to PNG and
// returns one image per page in page order.
func (r *Renderer) RenderPages(ctx context.Context, content []byte) ([][]byte, error) {
	tmpDir, err := os.MkdirTemp(r.cfg.TempDir, "bolx-pp-*")
	if err != nil {
		return nil, fmt.Errorf("ocr.RenderPages: temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	in := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(in, content, 0o600); err != nil {
		return nil, fmt.Errorf("ocr.RenderPages: write input: %w", err)
	}

	prefix := filepath.Join(tmpDir, "page")
	args := []string{"-r", strconv.Itoa(r.cfg.DPI), "-png"}
	if r.cfg.MaxPages > 0 {
		args = append(args, "-l", strconv.Itoa(r.cfg.MaxPages))
	}
	args = append(args, in, prefix)

	if _, stderr, err := r.runner.Run(ctx, r.cfg.Binary, args...); err != nil {
		return nil, fmt.Errorf("ocr.RenderPages: %s: %w: %s", r.cfg.Binary, err, strings.TrimSpace(string(stderr)))
	}

	matches, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, fmt.Errorf("ocr.RenderPages: glob: %w", err)
	}
	sort.Slice(matches, func(i, j int) bool { return pageNumber(matches[i]) < pageNumber(matches[j]) })
	if len(matches) == 0 {
		return nil, ErrNoPages
	}

	pages := make([][]byte, 0, len(matches))
	for _, m := range matches {
		img, err := os.ReadFile(m)
		if err != nil {
			return nil, fmt.Errorf("ocr.RenderPages: read %s: %w", filepath.Base(m), err)
		}
		pages = append(pages, img)
	}
	return pages, nil
}

// pageNumber parses N out of ".../page-N.png". pdftoppm zero-pads N only
// when the document has ten or more pages.
func pageNumber(path string) int {
	base := strings.TrimSuffix(filepath.Base(path), ".png")
	i := strings.LastIndex(base, "-")
	n, err := strconv.Atoi(base[i+1:])
	if err != nil {
		return 0
	}
	return n
}
