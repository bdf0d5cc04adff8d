package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bolx/internal/domain"
	"bolx/internal/middleware"
	"bolx/internal/service"
)

// BatchHandler handles batch submission, results, and export endpoints.
type BatchHandler struct {
	batchService service.BatchService
	maxBytes     int64
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(batchService service.BatchService, maxBytes int64) *BatchHandler {
	return &BatchHandler{batchService: batchService, maxBytes: maxBytes}
}

type createBatchForm struct {
	Name             string `form:"name" binding:"max=255"`
	MinTextThreshold int    `form:"min_text_threshold" binding:"omitempty,min=50,max=500"`
	NotifyEmail      string `form:"notify_email" binding:"omitempty,email"`
}

// Create handles POST /api/v1/batches
// @Summary Submit a batch
// @Description Uploads PDFs and/or ZIP archives of PDFs and queues them for extraction
// @Tags batches
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "PDF or ZIP files (repeatable)"
// @Param name formData string false "Batch name"
// @Param min_text_threshold formData int false "Minimum native text length before OCR is tried (50-500)"
// @Param notify_email formData string false "Address to notify when the batch completes"
// @Success 201 {object} Response{data=domain.Batch} "Batch queued"
// @Failure 400 {object} ErrorResponseBody "Missing files, unsupported type or invalid parameters"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 500 {object} ErrorResponseBody "Upload failed"
// @Security BearerAuth
// @Router /api/v1/batches [post]
func (h *BatchHandler) Create(c *gin.Context) {
	var form createBatchForm
	if err := c.ShouldBind(&form); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	mf, err := c.MultipartForm()
	if err != nil || len(mf.File["files"]) == 0 {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "files field is required")
		return
	}

	files, err := readUploads(mf.File["files"], h.maxBytes)
	if err != nil {
		HandleError(c, err)
		return
	}

	batch, err := h.batchService.Create(c.Request.Context(), service.CreateBatchInput{
		Name:             strings.TrimSpace(form.Name),
		Files:            files,
		MinTextThreshold: form.MinTextThreshold,
		NotifyEmail:      form.NotifyEmail,
		CreatedBy:        middleware.GetSubject(c),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, batch)
}

// List handles GET /api/v1/batches
// @Summary List batches
// @Tags batches
// @Produce json
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit" default(20)
// @Success 200 {object} Response{data=[]domain.Batch}
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /api/v1/batches [get]
func (h *BatchHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	batches, total, err := h.batchService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	if batches == nil {
		batches = []domain.Batch{}
	}

	RespondPaginated(c, batches, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Get handles GET /api/v1/batches/:id
// @Summary Get a batch
// @Description Returns the batch with its summary and failed-extraction details so far
// @Tags batches
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {object} Response{data=service.BatchDetail}
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Batch not found"
// @Security BearerAuth
// @Router /api/v1/batches/{id} [get]
func (h *BatchHandler) Get(c *gin.Context) {
	id, ok := parseBatchID(c)
	if !ok {
		return
	}

	detail, err := h.batchService.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	if detail.Failures == nil {
		detail.Failures = []domain.Failure{}
	}

	RespondOK(c, detail)
}

// Records handles GET /api/v1/batches/:id/records
// @Summary List extracted records
// @Description Returns the records of finished documents in upload order. view=preview limits each record to the preview columns.
// @Tags batches
// @Produce json
// @Param id path string true "Batch ID"
// @Param view query string false "full or preview" default(full)
// @Success 200 {object} Response{data=[]domain.BOLRecord} "view=full; view=preview returns []RecordPreview"
// @Failure 400 {object} ErrorResponseBody "Invalid ID or view"
// @Failure 404 {object} ErrorResponseBody "Batch not found"
// @Security BearerAuth
// @Router /api/v1/batches/{id}/records [get]
func (h *BatchHandler) Records(c *gin.Context) {
	id, ok := parseBatchID(c)
	if !ok {
		return
	}
	view := c.DefaultQuery("view", "full")
	if view != "full" && view != "preview" {
		RespondError(c, http.StatusBadRequest, "INVALID_VIEW", "view must be full or preview")
		return
	}

	records, err := h.batchService.Records(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	if view == "preview" {
		previews := make([]map[string]string, len(records))
		for i := range records {
			previews[i] = records[i].Preview()
		}
		RespondOK(c, previews)
		return
	}
	if records == nil {
		records = []domain.BOLRecord{}
	}
	RespondOK(c, records)
}

// Export handles GET /api/v1/batches/:id/export
// @Summary Export batch results
// @Description Downloads the batch results as xlsx (BOL_Data, Processing_Summary, Field_Coverage sheets) or csv
// @Tags batches
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Param id path string true "Batch ID"
// @Param format query string false "xlsx or csv" default(xlsx)
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponseBody "Invalid ID or format"
// @Failure 404 {object} ErrorResponseBody "Batch not found"
// @Failure 409 {object} ErrorResponseBody "Batch still processing"
// @Security BearerAuth
// @Router /api/v1/batches/{id}/export [get]
func (h *BatchHandler) Export(c *gin.Context) {
	id, ok := parseBatchID(c)
	if !ok {
		return
	}
	format, err := domain.ParseExportFormat(c.Query("format"))
	if err != nil {
		HandleError(c, err)
		return
	}

	file, err := h.batchService.Export(c.Request.Context(), id, format)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.FileName))
	if file.URL != "" {
		c.Header("X-Export-URL", file.URL)
	}
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

func parseBatchID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid batch ID")
		return uuid.Nil, false
	}
	return id, true
}
