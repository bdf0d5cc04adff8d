package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bolx/internal/diagnostics"
	"bolx/internal/domain"
	"bolx/internal/service"
)

// ExtractResult is one extracted record with its field diagnostics.
type ExtractResult struct {
	Record      domain.BOLRecord   `json:"record"`
	Diagnostics diagnostics.Report `json:"diagnostics"`
}

// ExtractResponse is the payload of a synchronous extraction.
type ExtractResponse struct {
	Results  []ExtractResult  `json:"results"`
	Summary  domain.Summary   `json:"summary"`
	Failures []domain.Failure `json:"failures"`
}

// ExtractHandler runs extraction inline on an uploaded file.
type ExtractHandler struct {
	processor        *service.BatchProcessor
	registry         *diagnostics.Registry
	defaultThreshold int
	maxBytes         int64
}

// NewExtractHandler creates a new ExtractHandler.
func NewExtractHandler(processor *service.BatchProcessor, registry *diagnostics.Registry, defaultThreshold int, maxBytes int64) *ExtractHandler {
	return &ExtractHandler{
		processor:        processor,
		registry:         registry,
		defaultThreshold: defaultThreshold,
		maxBytes:         maxBytes,
	}
}

// Extract handles POST /api/v1/extract
// @Summary Extract a bill of lading
// @Description Synchronously extracts BOL fields from one PDF, or from every PDF inside a ZIP archive
// @Tags extract
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF or ZIP file"
// @Param min_text_threshold formData int false "Minimum native text length before OCR is tried (50-500)"
// @Success 200 {object} Response{data=ExtractResponse} "Extraction results"
// @Failure 400 {object} ErrorResponseBody "Missing file, unsupported type or bad threshold"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Security BearerAuth
// @Router /api/v1/extract [post]
func (h *ExtractHandler) Extract(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}

	threshold, err := parseThreshold(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	if threshold == 0 {
		threshold = h.defaultThreshold
	} else if threshold < service.MinThreshold || threshold > service.MaxThreshold {
		HandleError(c, domain.ErrInvalidThreshold)
		return
	}

	upload, err := readUpload(fh, h.maxBytes)
	if err != nil {
		HandleError(c, err)
		return
	}
	docs, err := service.ExpandUploads([]domain.SourceDocument{upload}, h.maxBytes)
	if err != nil {
		HandleError(c, err)
		return
	}

	records := h.processor.Run(c.Request.Context(), docs, threshold, nil)

	resp := ExtractResponse{
		Results:  make([]ExtractResult, len(records)),
		Summary:  domain.Summarize(records),
		Failures: domain.Failures(records),
	}
	for i := range records {
		resp.Results[i] = ExtractResult{Record: records[i], Diagnostics: h.registry.Run(&records[i])}
	}
	if resp.Failures == nil {
		resp.Failures = []domain.Failure{}
	}
	RespondOK(c, resp)
}
