package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RecordColumns is the fixed tabular export order of a BOLRecord.
var RecordColumns = []string{
	"filename",
	"bol_number",
	"shipper_name",
	"shipper_address",
	"consignee_name",
	"consignee_address",
	"notify_party_name",
	"notify_party_address",
	"vessel_name",
	"voyage_number",
	"port_of_load",
	"port_of_discharge",
	"description_of_goods",
	"quantity_packages",
	"gross_weight",
	"net_weight",
	"freight_terms",
	"date_of_issue",
	"extraction_method",
	"extraction_confidence",
	"processing_notes",
	"extraction_failed",
}

// PreviewColumns is the subset of RecordColumns shown in result previews.
var PreviewColumns = []string{
	"filename",
	"bol_number",
	"shipper_name",
	"consignee_name",
	"vessel_name",
	"extraction_method",
	"extraction_confidence",
}

// BOLRecord is the flat structured output of one document's extraction.
type BOLRecord struct {
	FileName             string           `json:"filename"`
	BOLNumber            string           `json:"bol_number"`
	ShipperName          string           `json:"shipper_name"`
	ShipperAddress       string           `json:"shipper_address"`
	ConsigneeName        string           `json:"consignee_name"`
	ConsigneeAddress     string           `json:"consignee_address"`
	NotifyPartyName      string           `json:"notify_party_name"`
	NotifyPartyAddress   string           `json:"notify_party_address"`
	VesselName           string           `json:"vessel_name"`
	VoyageNumber         string           `json:"voyage_number"`
	PortOfLoad           string           `json:"port_of_load"`
	PortOfDischarge      string           `json:"port_of_discharge"`
	DescriptionOfGoods   string           `json:"description_of_goods"`
	QuantityPackages     string           `json:"quantity_packages"`
	GrossWeight          string           `json:"gross_weight"`
	NetWeight            string           `json:"net_weight"`
	FreightTerms         string           `json:"freight_terms"`
	DateOfIssue          string           `json:"date_of_issue"`
	ExtractionMethod     ExtractionMethod `json:"extraction_method"`
	ExtractionConfidence Confidence       `json:"extraction_confidence"`
	ProcessingNotes      string           `json:"processing_notes"`
	ExtractionFailed     bool             `json:"extraction_failed"`
}

// NewRecord returns an empty record for the named document.
func NewRecord(fileName string) BOLRecord {
	return BOLRecord{FileName: fileName}
}

// FailedRecord returns the minimal record substituted when a document could
// not be processed at all.
func FailedRecord(fileName, note string) BOLRecord {
	return BOLRecord{
		FileName:             fileName,
		ExtractionConfidence: ConfidenceLow,
		ProcessingNotes:      note,
		ExtractionFailed:     true,
	}
}

// Strings returns the string-valued columns of the record keyed by column
// name. extraction_failed is not included.
func (r *BOLRecord) Strings() map[string]string {
	return map[string]string{
		"filename":              r.FileName,
		"bol_number":            r.BOLNumber,
		"shipper_name":          r.ShipperName,
		"shipper_address":       r.ShipperAddress,
		"consignee_name":        r.ConsigneeName,
		"consignee_address":     r.ConsigneeAddress,
		"notify_party_name":     r.NotifyPartyName,
		"notify_party_address":  r.NotifyPartyAddress,
		"vessel_name":           r.VesselName,
		"voyage_number":         r.VoyageNumber,
		"port_of_load":          r.PortOfLoad,
		"port_of_discharge":     r.PortOfDischarge,
		"description_of_goods":  r.DescriptionOfGoods,
		"quantity_packages":     r.QuantityPackages,
		"gross_weight":          r.GrossWeight,
		"net_weight":            r.NetWeight,
		"freight_terms":         r.FreightTerms,
		"date_of_issue":         r.DateOfIssue,
		"extraction_method":     string(r.ExtractionMethod),
		"extraction_confidence": string(r.ExtractionConfidence),
		"processing_notes":      r.ProcessingNotes,
	}
}

// Preview projects the record onto PreviewColumns.
func (r *BOLRecord) Preview() map[string]string {
	all := r.Strings()
	out := make(map[string]string, len(PreviewColumns))
	for _, col := range PreviewColumns {
		out[col] = all[col]
	}
	return out
}

// TableGrid is a generic grid produced by a table extractor. A missing cell is
// an absent key in the row map.
type TableGrid struct {
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
}

// SourceDocument is one named PDF to extract.
type SourceDocument struct {
	Name    string
	Content []byte
}

// Summary holds aggregate counts over a set of records.
type Summary struct {
	Total            int `json:"total"`
	Successful       int `json:"successful"`
	Failed           int `json:"failed"`
	TextExtractions  int `json:"text_extractions"`
	OCRExtractions   int `json:"ocr_extractions"`
	HighConfidence   int `json:"high_confidence"`
	MediumConfidence int `json:"medium_confidence"`
	LowConfidence    int `json:"low_confidence"`
}

// Summarize computes the summary view of records.
func Summarize(records []BOLRecord) Summary {
	s := Summary{Total: len(records)}
	for i := range records {
		r := &records[i]
		if r.ExtractionFailed {
			s.Failed++
		} else {
			s.Successful++
		}
		if r.ExtractionMethod == MethodText {
			s.TextExtractions++
		}
		if r.ExtractionMethod.UsesOCR() {
			s.OCRExtractions++
		}
		switch r.ExtractionConfidence {
		case ConfidenceHigh:
			s.HighConfidence++
		case ConfidenceMedium:
			s.MediumConfidence++
		case ConfidenceLow:
			s.LowConfidence++
		}
	}
	return s
}

// Failure is the filename and note of a failed record.
type Failure struct {
	FileName string `json:"filename"`
	Notes    string `json:"notes"`
}

// Failures lists the failed records in input order.
func Failures(records []BOLRecord) []Failure {
	var out []Failure
	for i := range records {
		if records[i].ExtractionFailed {
			out = append(out, Failure{FileName: records[i].FileName, Notes: records[i].ProcessingNotes})
		}
	}
	return out
}

// Batch is a group of documents submitted together for extraction.
type Batch struct {
	ID               uuid.UUID   `db:"id" json:"id"`
	Name             string      `db:"name" json:"name"`
	Status           BatchStatus `db:"status" json:"status"`
	MinTextThreshold int         `db:"min_text_threshold" json:"min_text_threshold"`
	DocumentCount    int         `db:"document_count" json:"document_count"`
	ProcessedCount   int         `db:"processed_count" json:"processed_count"`
	NotifyEmail      string      `db:"notify_email" json:"notify_email,omitempty"`
	CreatedBy        string      `db:"created_by" json:"created_by"`
	CreatedAt        time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at" json:"updated_at"`
	CompletedAt      *time.Time  `db:"completed_at" json:"completed_at,omitempty"`
}

// Document is a single source PDF within a batch together with its
// extraction output once processed.
type Document struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	BatchID     uuid.UUID       `db:"batch_id" json:"batch_id"`
	Position    int             `db:"position" json:"position"`
	FileName    string          `db:"file_name" json:"file_name"`
	S3Bucket    string          `db:"s3_bucket" json:"-"`
	S3Key       string          `db:"s3_key" json:"-"`
	SizeBytes   int64           `db:"size_bytes" json:"size_bytes"`
	Status      DocumentStatus  `db:"status" json:"status"`
	Attempts    int             `db:"attempts" json:"attempts"`
	LastError   string          `db:"last_error" json:"last_error,omitempty"`
	Record      json.RawMessage `db:"record" json:"record,omitempty"`
	Diagnostics json.RawMessage `db:"diagnostics" json:"diagnostics,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
	ProcessedAt *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
}

// Finished reports whether the document has a stored result.
func (d *Document) Finished() bool {
	return d.Status == DocumentStatusCompleted || d.Status == DocumentStatusFailed
}

// DecodeRecord unmarshals the stored record. Documents that have not been
// processed yet decode to a record carrying only the file name.
func (d *Document) DecodeRecord() (BOLRecord, error) {
	rec := NewRecord(d.FileName)
	if len(d.Record) == 0 || string(d.Record) == "null" {
		return rec, nil
	}
	if err := json.Unmarshal(d.Record, &rec); err != nil {
		return rec, err
	}
	return rec, nil
}
