package handler

import (
	"fmt"
	"io"
	"mime/multipart"

	"bolx/internal/domain"
)

// readUpload loads a multipart file into memory, refusing more than maxBytes.
func readUpload(fh *multipart.FileHeader, maxBytes int64) (domain.SourceDocument, error) {
	if maxBytes > 0 && fh.Size > maxBytes {
		return domain.SourceDocument{}, fmt.Errorf("%s: %w", fh.Filename, domain.ErrFileTooLarge)
	}
	f, err := fh.Open()
	if err != nil {
		return domain.SourceDocument{}, fmt.Errorf("opening %s: %w", fh.Filename, err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if maxBytes > 0 {
		r = io.LimitReader(f, maxBytes+1)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return domain.SourceDocument{}, fmt.Errorf("reading %s: %w", fh.Filename, err)
	}
	if maxBytes > 0 && int64(len(content)) > maxBytes {
		return domain.SourceDocument{}, fmt.Errorf("%s: %w", fh.Filename, domain.ErrFileTooLarge)
	}
	return domain.SourceDocument{Name: fh.Filename, Content: content}, nil
}

func readUploads(headers []*multipart.FileHeader, maxBytes int64) ([]domain.SourceDocument, error) {
	docs := make([]domain.SourceDocument, 0, len(headers))
	for _, fh := range headers {
		doc, err := readUpload(fh, maxBytes)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
