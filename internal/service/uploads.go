package service

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"bolx/internal/domain"
)

// ExpandUploads validates uploaded files and flattens them into the PDFs to
// extract. PDF uploads pass through; ZIP uploads contribute every entry whose
// name ends in .pdf, in archive order, named by their path inside the
// archive. maxBytes bounds each upload and each archive entry; 0 disables the
// check.
func ExpandUploads(files []domain.SourceDocument, maxBytes int64) ([]domain.SourceDocument, error) {
	if len(files) == 0 {
		return nil, domain.ErrEmptyUpload
	}

	var out []domain.SourceDocument
	for _, f := range files {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(f.Name), "."))
		fileType, ok := domain.AllowedExtensions[ext]
		if !ok {
			return nil, fmt.Errorf("%s: %w", f.Name, domain.ErrUnsupportedFileType)
		}
		if maxBytes > 0 && int64(len(f.Content)) > maxBytes {
			return nil, fmt.Errorf("%s: %w", f.Name, domain.ErrFileTooLarge)
		}
		if detected := http.DetectContentType(sniff(f.Content)); detected != domain.AllowedFileTypes[fileType] {
			return nil, fmt.Errorf("%s: detected %s: %w", f.Name, detected, domain.ErrUnsupportedFileType)
		}

		switch fileType {
		case domain.FileTypePDF:
			out = append(out, f)
		case domain.FileTypeZIP:
			entries, err := pdfEntries(f, maxBytes)
			if err != nil {
				return nil, err
			}
			out = append(out, entries...)
		}
	}
	return out, nil
}

func pdfEntries(archive domain.SourceDocument, maxBytes int64) ([]domain.SourceDocument, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive.Content), int64(len(archive.Content)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", archive.Name, domain.ErrInvalidArchive, err)
	}

	var docs []domain.SourceDocument
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name), ".pdf") {
			continue
		}
		if maxBytes > 0 && entry.UncompressedSize64 > uint64(maxBytes) {
			return nil, fmt.Errorf("%s/%s: %w", archive.Name, entry.Name, domain.ErrFileTooLarge)
		}
		content, err := readEntry(entry, maxBytes)
		if err != nil {
			return nil, fmt.Errorf("%s/%s: %w: %v", archive.Name, entry.Name, domain.ErrInvalidArchive, err)
		}
		docs = append(docs, domain.SourceDocument{Name: entry.Name, Content: content})
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%s: %w", archive.Name, domain.ErrInvalidArchive)
	}
	return docs, nil
}

func readEntry(entry *zip.File, maxBytes int64) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var r io.Reader = rc
	if maxBytes > 0 {
		r = io.LimitReader(rc, maxBytes+1)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if maxBytes > 0 && int64(len(content)) > maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	return content, nil
}

func sniff(content []byte) []byte {
	if len(content) > 512 {
		return content[:512]
	}
	return content
}
