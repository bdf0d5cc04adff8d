package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrEmptyUpload         = errors.New("no files supplied")
	ErrInvalidArchive      = errors.New("archive is unreadable or contains no pdf files")
	ErrInvalidThreshold    = errors.New("minimum text threshold out of range")
	ErrBatchNotFound       = errors.New("batch not found")
	ErrBatchNotComplete    = errors.New("batch is still processing")
	ErrInvalidExportFormat = errors.New("unsupported export format")
)
