package domain

import (
	"strings"
	"time"
)

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeZIP FileType = "zip"
)

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf": FileTypePDF,
	"zip": FileTypeZIP,
}

// AllowedFileTypes maps FileType to the content type detected from its
// leading bytes.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeZIP: "application/zip",
}

// ExtractionMethod records which text source was adopted for a document.
type ExtractionMethod string

const (
	MethodText         ExtractionMethod = "text"
	MethodOCR          ExtractionMethod = "ocr"
	MethodTextFallback ExtractionMethod = "text_fallback"
)

// UsesOCR reports whether the method label names OCR.
func (m ExtractionMethod) UsesOCR() bool {
	return strings.Contains(string(m), "ocr")
}

// Confidence is a coarse quality tag derived from structural heuristics.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// BatchStatus represents the lifecycle of an extraction batch.
type BatchStatus string

const (
	BatchStatusQueued     BatchStatus = "queued"
	BatchStatusProcessing BatchStatus = "processing"
	BatchStatusCompleted  BatchStatus = "completed"
)

// DocumentStatus represents the lifecycle of a single document in a batch.
type DocumentStatus string

const (
	DocumentStatusQueued     DocumentStatus = "queued"
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusCompleted  DocumentStatus = "completed"
	DocumentStatusFailed     DocumentStatus = "failed"
)

// ExportFormat is a supported tabular export format.
type ExportFormat string

const (
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatCSV  ExportFormat = "csv"
)

// ParseExportFormat validates a user-supplied export format. An empty value
// selects xlsx.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "xlsx", "excel":
		return ExportFormatXLSX, nil
	case "csv":
		return ExportFormatCSV, nil
	default:
		return "", ErrInvalidExportFormat
	}
}

// ContentType returns the MIME type used when serving an export.
func (f ExportFormat) ContentType() string {
	if f == ExportFormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Filename returns the download name of an export produced at t, e.g.
// bol_extraction_results_20240315_142501.xlsx.
func (f ExportFormat) Filename(t time.Time) string {
	return "bol_extraction_results_" + t.Format("20060102_150405") + "." + string(f)
}
