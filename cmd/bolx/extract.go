package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"bolx/internal/csvexport"
	"bolx/internal/diagnostics"
	"bolx/internal/domain"
	"bolx/internal/pipeline"
	"bolx/internal/service"
	"bolx/internal/xlsxexport"
)

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract PATH...",
		Short: "Extract BOL fields from PDFs, ZIP archives or directories",
		Long: `Extract BOL fields from each PATH. A PATH may be a PDF, a ZIP archive of
PDFs, or a directory whose PDFs and ZIPs are processed (non-recursive).

Failed documents are reported but do not change the exit status.

Examples:
  bolx extract bol.pdf
  bolx extract ./inbox --format csv --out results.csv
  bolx extract scans.zip --threshold 200 --workers 8`,
		Args: cobra.MinimumNArgs(1),
		RunE: runExtract,
	}
	cmd.Flags().StringP("out", "o", "", "export file (default: bol_extraction_results_<timestamp>.<format>)")
	cmd.Flags().StringP("format", "f", "", "export format (xlsx, csv); defaults to the --out extension or xlsx")
	cmd.Flags().IntP("threshold", "t", 0, "minimum native text length before OCR is tried (default from config)")
	cmd.Flags().IntP("workers", "w", 0, "documents processed concurrently (default from config)")
	cmd.Flags().Bool("no-ocr", false, "disable the OCR fallback")
	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	formatFlag, _ := cmd.Flags().GetString("format")
	threshold, _ := cmd.Flags().GetInt("threshold")
	workers, _ := cmd.Flags().GetInt("workers")
	noOCR, _ := cmd.Flags().GetBool("no-ocr")

	format, err := resolveFormat(formatFlag, out)
	if err != nil {
		return err
	}
	if threshold != 0 {
		cfg.Extraction.MinTextThreshold = threshold
	}
	if workers != 0 {
		cfg.Extraction.Workers = workers
	}
	if noOCR {
		cfg.Extraction.OCREnabled = false
	}

	pipe, err := pipeline.New(&cfg.Extraction)
	if err != nil {
		return err
	}

	inputs, err := collectInputs(args)
	if err != nil {
		return err
	}
	docs, err := service.ExpandUploads(inputs, cfg.S3.MaxFileSizeMB<<20)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	processor := service.NewBatchProcessor(pipe.Extraction, cfg.Extraction.Workers)
	records := processor.Run(cmd.Context(), docs, cfg.Extraction.MinTextThreshold, func(done, total int, name string) {
		fmt.Fprintf(stderr, "[%d/%d] %s\n", done, total, name)
	})

	if out == "" {
		out = format.Filename(time.Now())
	}
	if err := writeExport(out, format, records, diagnostics.DefaultRegistry()); err != nil {
		return err
	}

	printReport(cmd.OutOrStdout(), records)
	fmt.Fprintf(cmd.OutOrStdout(), "\nResults written to %s\n", out)
	return nil
}

// resolveFormat picks the export format from the flag, then the output file
// extension, then xlsx.
func resolveFormat(flag, out string) (domain.ExportFormat, error) {
	if flag == "" && out != "" {
		flag = strings.TrimPrefix(filepath.Ext(out), ".")
	}
	format, err := domain.ParseExportFormat(flag)
	if err != nil {
		return "", fmt.Errorf("%q: %w", flag, err)
	}
	return format, nil
}

// collectInputs reads each path. Directories contribute their .pdf and .zip
// files in name order; other files in a directory are skipped.
func collectInputs(paths []string) ([]domain.SourceDocument, error) {
	var docs []domain.SourceDocument
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			doc, err := readSource(p)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		var names []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(e.Name()), "."))
			if _, ok := domain.AllowedExtensions[ext]; ok {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			doc, err := readSource(filepath.Join(p, name))
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
	}
	if len(docs) == 0 {
		return nil, errors.New("no PDF or ZIP files found")
	}
	return docs, nil
}

func readSource(path string) (domain.SourceDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.SourceDocument{}, err
	}
	return domain.SourceDocument{Name: filepath.Base(path), Content: content}, nil
}

func writeExport(path string, format domain.ExportFormat, records []domain.BOLRecord, registry *diagnostics.Registry) error {
	var (
		buf *bytes.Buffer
		err error
	)
	switch format {
	case domain.ExportFormatCSV:
		buf = new(bytes.Buffer)
		err = csvexport.Export(buf, records)
	default:
		buf, err = xlsxexport.Export(records, registry)
	}
	if err != nil {
		return fmt.Errorf("rendering %s: %w", format, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func printReport(w io.Writer, records []domain.BOLRecord) {
	s := domain.Summarize(records)
	fmt.Fprintf(w, "Total files:       %d\n", s.Total)
	fmt.Fprintf(w, "Successful:        %d\n", s.Successful)
	fmt.Fprintf(w, "Failed:            %d\n", s.Failed)
	fmt.Fprintf(w, "Text extractions:  %d\n", s.TextExtractions)
	fmt.Fprintf(w, "OCR extractions:   %d\n", s.OCRExtractions)
	fmt.Fprintf(w, "Confidence:        high %d, medium %d, low %d\n", s.HighConfidence, s.MediumConfidence, s.LowConfidence)

	failures := domain.Failures(records)
	if len(failures) == 0 {
		return
	}
	fmt.Fprintln(w, "\nFailed extractions:")
	for _, f := range failures {
		fmt.Fprintf(w, "  %s: %s\n", f.FileName, f.Notes)
	}
}
